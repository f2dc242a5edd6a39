package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleConf = `
log:
  level: debug
island:
  tile_count: 20
  seed: 7
storage:
  driver: sqlite
sqlite:
  path: ./island.db
`

func writeConf(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "conf.yml")
	if err := os.WriteFile(p, []byte(sampleConf), 0o600); err != nil {
		t.Fatalf("write conf err=%v", err)
	}
	return p
}

func TestLoad_读取并回填缺省值(t *testing.T) {
	var c Config
	if err := load(writeConf(t), &c); err != nil {
		t.Fatalf("load err=%v", err)
	}
	if c.Island.TileCount != 20 || c.Island.Seed != 7 {
		t.Fatalf("期望 island 配置生效, got=%+v", c.Island)
	}
	if c.Island.RowWidth != 4 || c.Island.FlushEveryMs != 3000 {
		t.Fatalf("期望缺省值被回填, got=%+v", c.Island)
	}
	if c.Storage.Driver != "sqlite" || c.SQLite.Path != "./island.db" {
		t.Fatalf("期望 storage 配置生效, got=%+v %+v", c.Storage, c.SQLite)
	}
}

func TestLoad_环境变量覆盖(t *testing.T) {
	t.Setenv("HEXHARVEST_ISLAND_TILE_COUNT", "9")
	t.Setenv("HEXHARVEST_STORAGE_DRIVER", "memory")

	var c Config
	if err := load(writeConf(t), &c); err != nil {
		t.Fatalf("load err=%v", err)
	}
	if c.Island.TileCount != 9 {
		t.Fatalf("期望环境变量覆盖 tile_count, got=%d", c.Island.TileCount)
	}
	if c.Storage.Driver != "memory" {
		t.Fatalf("期望环境变量覆盖 driver, got=%s", c.Storage.Driver)
	}
	if c.Island.Seed != 7 {
		t.Fatalf("未设置的变量不应改动原值, got=%d", c.Island.Seed)
	}
}

func TestLoad_文件不存在(t *testing.T) {
	var c Config
	if err := load(filepath.Join(t.TempDir(), "missing.yml"), &c); err == nil {
		t.Fatalf("期望返回错误")
	}
}
