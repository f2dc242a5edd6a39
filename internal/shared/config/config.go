package config

import (
	"os"
	"path/filepath"
)

const defaultConfigRelPath = "configs/conf.yml"

var Conf Config

// Load 加载配置到 Conf，失败直接 panic（只在进程启动时调用）。
//
// 约定：
// 1) 传入 cfgName（相对/绝对路径）则优先使用；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`。
func Load(cfgName string) {
	curDir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	if cfgName != "" {
		if !filepath.IsAbs(cfgName) {
			cfgName = filepath.Join(curDir, cfgName)
		}
		if err := load(cfgName, &Conf); err != nil {
			panic(err)
		}
		return
	}
	if err := load(findConfigUpward(curDir), &Conf); err != nil {
		panic(err)
	}
}

func findConfigUpward(startDir string) string {
	dir := startDir
	for {
		candidate := filepath.Join(dir, defaultConfigRelPath)
		if fileExist(candidate) {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("config file not exist, searched configs/conf.yml from: " + startDir)
		}
		dir = parent
	}
}

// Normalize 回填缺省值。
func (c *Config) Normalize() {
	if c.Island.TileCount <= 0 {
		c.Island.TileCount = 16
	}
	if c.Island.RowWidth <= 0 {
		c.Island.RowWidth = 4
	}
	if c.Island.FlushEveryMs <= 0 {
		c.Island.FlushEveryMs = 3000
	}
	if c.Island.AskTimeoutMs <= 0 {
		c.Island.AskTimeoutMs = 3000
	}
	if c.Island.IdleTimeoutS <= 0 {
		c.Island.IdleTimeoutS = 600
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.HTTPServer.Port == 0 {
		c.HTTPServer.Port = 8080
	}
}
