package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 支援的儲存後端與驗證模式
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	AuthModeJWT    = "jwt"
	AuthModeRemote = "remote"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	DB     DBConfig     `mapstructure:"db"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Address        string `mapstructure:"address"`
	Mode           string `mapstructure:"mode"` // gin 模式: debug, release, test
	MaxBatchSize   int    `mapstructure:"max_batch_size"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}

type DBConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"` // 設定時優先於個別欄位
	Host            string        `mapstructure:"host"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	Port            int           `mapstructure:"port"`
	SSLMode         string        `mapstructure:"sslmode"`
	Table           string        `mapstructure:"table"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type AuthConfig struct {
	Mode        string        `mapstructure:"mode"`
	JWTSecret   string        `mapstructure:"jwt_secret"`
	Audience    string        `mapstructure:"audience"`
	SupabaseURL string        `mapstructure:"supabase_url"`
	APIKey      string        `mapstructure:"api_key"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DSNString 回傳 gorm postgres driver 使用的連線字串
func (c DBConfig) DSNString() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

// Load 讀取 .env、config.yaml 與環境變數，後者優先
func Load() (*Config, error) {
	// .env 不存在時直接使用真實環境變數
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./pkg/config")
	v.AddConfigPath(".")

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindAliases(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.max_batch_size", 100)
	v.SetDefault("server.metrics_enabled", true)

	v.SetDefault("db.driver", DriverPostgres)
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "vtuber_wiki")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.table", "vtubers")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("auth.mode", AuthModeJWT)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.audience", "")
	v.SetDefault("auth.supabase_url", "")
	v.SetDefault("auth.api_key", "")
	v.SetDefault("auth.timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// bindAliases 讓 Supabase 專案的既有環境變數名稱也能生效
func bindAliases(v *viper.Viper) {
	_ = v.BindEnv("db.dsn", "DB_DSN", "DATABASE_URL")
	_ = v.BindEnv("db.table", "DB_TABLE", "TABLE_VTUBERS")
	_ = v.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET", "SUPABASE_JWT_SECRET")
	_ = v.BindEnv("auth.supabase_url", "AUTH_SUPABASE_URL", "SUPABASE_URL")
	_ = v.BindEnv("auth.api_key", "AUTH_API_KEY", "SUPABASE_ANON_KEY")
}

// Validate 檢查設定組合是否可用
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unsupported db.driver %q", c.DB.Driver)
	}
	if c.DB.Table == "" {
		return errors.New("db.table must not be empty")
	}

	switch c.Auth.Mode {
	case AuthModeJWT:
		if c.Auth.JWTSecret == "" {
			return errors.New("auth.jwt_secret (SUPABASE_JWT_SECRET) is required in jwt mode")
		}
	case AuthModeRemote:
		if c.Auth.SupabaseURL == "" || c.Auth.APIKey == "" {
			return errors.New("auth.supabase_url and auth.api_key (SUPABASE_URL, SUPABASE_ANON_KEY) are required in remote mode")
		}
	default:
		return fmt.Errorf("unsupported auth.mode %q", c.Auth.Mode)
	}

	if c.Server.MaxBatchSize < 1 {
		return errors.New("server.max_batch_size must be positive")
	}
	return nil
}
