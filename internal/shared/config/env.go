package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix 环境变量前缀，例如 HEXHARVEST_STORAGE_DRIVER=sqlite。
const EnvPrefix = "HEXHARVEST_"

// ParseEnv 用环境变量覆盖配置文件中的值，未设置的变量不改动原值。
func ParseEnv(target *Config) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
