package config

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var reloadMu sync.Mutex

func load(configPath string, dst *Config) error {
	if !fileExist(configPath) {
		return fmt.Errorf("config file not exist, configPath=%v", configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	if err := decode(v, dst); err != nil {
		return err
	}

	// 热更新只刷新日志级别、对局参数这类可在线生效的字段，监听方自行读取 Conf。
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Println("配置文件变更", e.Name)
		var next Config
		if err := decode(v, &next); err != nil {
			log.Printf("viper unmarshal change config data: %v\n", err)
			return
		}
		reloadMu.Lock()
		*dst = next
		reloadMu.Unlock()
	})
	v.WatchConfig()
	return nil
}

func decode(v *viper.Viper, dst *Config) error {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return fmt.Errorf("viper unmarshal: %w", err)
	}
	if err := ParseEnv(&c); err != nil {
		return err
	}
	c.Normalize()
	*dst = c
	return nil
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
