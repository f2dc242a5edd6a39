package config

type Config struct {
	Log        LogConfig        `yaml:"log" mapstructure:"log" envPrefix:"LOG_"`
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver" envPrefix:"HTTP_"`
	Island     IslandConfig     `yaml:"island" mapstructure:"island" envPrefix:"ISLAND_"`
	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage" envPrefix:"STORAGE_"`
	MySQL      MySQLConfig      `yaml:"mysql" mapstructure:"mysql" envPrefix:"MYSQL_"`
	MongoDB    MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb" envPrefix:"MONGODB_"`
	SQLite     SQLiteConfig     `yaml:"sqlite" mapstructure:"sqlite" envPrefix:"SQLITE_"`
	JWTSecret  string           `yaml:"jwt_secret" mapstructure:"jwt_secret" env:"JWT_SECRET"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir" env:"FILE_DIR"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size" env:"MAX_SIZE"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups" env:"MAX_BACKUPS"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age" env:"MAX_AGE"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress" env:"COMPRESS"`
	Level      string `yaml:"level" mapstructure:"level" env:"LEVEL"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev" env:"DEV"`
}

type HTTPServerConfig struct {
	Host     string `yaml:"host" mapstructure:"host" env:"HOST"`
	Port     int    `yaml:"port" mapstructure:"port" env:"PORT"`
	WsSecure bool   `yaml:"ws_secure" mapstructure:"ws_secure" env:"WS_SECURE"` // ws 走握手 + 密文帧
}

// IslandConfig 对局参数。
type IslandConfig struct {
	TileCount    int   `yaml:"tile_count" mapstructure:"tile_count" env:"TILE_COUNT"`
	RowWidth     int   `yaml:"row_width" mapstructure:"row_width" env:"ROW_WIDTH"`
	Seed         int64 `yaml:"seed" mapstructure:"seed" env:"SEED"` // 0 表示按时间取种子
	FlushEveryMs int   `yaml:"flush_every_ms" mapstructure:"flush_every_ms" env:"FLUSH_EVERY_MS"`
	AskTimeoutMs int   `yaml:"ask_timeout_ms" mapstructure:"ask_timeout_ms" env:"ASK_TIMEOUT_MS"`
	IdleTimeoutS int   `yaml:"idle_timeout_s" mapstructure:"idle_timeout_s" env:"IDLE_TIMEOUT_S"` // 对局 actor 空闲回收
	NodeID       int64 `yaml:"node_id" mapstructure:"node_id" env:"NODE_ID"`               // 对局 id 的节点号，多实例部署时各不相同
}

// StorageConfig 选择对局快照的存储：memory/sqlite/mysql/mongodb。
type StorageConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver" env:"DRIVER"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host" env:"HOST"`
	Port     int    `yaml:"port" mapstructure:"port" env:"PORT"`
	User     string `yaml:"user" mapstructure:"user" env:"USER"`
	Password string `yaml:"password" mapstructure:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname" mapstructure:"dbname" env:"DBNAME"`
	Charset  string `yaml:"charset" mapstructure:"charset" env:"CHARSET"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle" env:"MAX_IDLE"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn" env:"MAX_CONN"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri" env:"URI"`
	Database        string `yaml:"database" mapstructure:"database" env:"DATABASE"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s" env:"CONNECT_TIMEOUT_S"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" mapstructure:"path" env:"PATH"`
}
