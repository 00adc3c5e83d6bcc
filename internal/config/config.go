package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configはアプリ全体の設定
type Config struct {
	Port  string // サーバーポート（8080）
	GoEnv string // dev/prod

	DBDriver    string // postgres / sqlite
	DatabaseURL string // あれば最優先

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	SQLitePath string

	SessionKey    []byte // cookie署名キー
	SessionName   string
	SessionMaxAge int // 秒
	CookieSecure  bool

	StaticDir      string
	UploadDir      string
	MaxUploadBytes int64
	MaxImageWidth  uint
	MaxImagePixels int64 // 幅×高さの上限

	CartBackend string // memory / redis
	RedisAddr   string

	ReceiptCompress bool
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}

// Loadは .env → 環境変数 → (任意) CONFIG_FILE の順に読む
func Load() (Config, error) {
	// .envは無くてもよい
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.MergeInConfig(); err != nil {
			return Config{}, fmt.Errorf("read %s: %w", file, err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GO_ENV", "dev")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "postgres")
	v.SetDefault("POSTGRES_DB", "marketplace")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "marketplace.db")
	v.SetDefault("SESSION_NAME", "marketplace-session")
	v.SetDefault("SESSION_MAX_AGE", 86400)
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("STATIC_DIR", "static")
	v.SetDefault("UPLOAD_DIR", "static/uploads")
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("MAX_IMAGE_WIDTH", 1200)
	v.SetDefault("MAX_IMAGE_PIXELS", 40_000_000)
	v.SetDefault("CART_BACKEND", "memory")
	v.SetDefault("REDIS_ADDR", "127.0.0.1:6379")
	v.SetDefault("RECEIPT_COMPRESS", true)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:  v.GetString("PORT"),
		GoEnv: strings.ToLower(v.GetString("GO_ENV")),

		DBDriver:    strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseURL: v.GetString("DATABASE_URL"),

		PostgresUser:     v.GetString("POSTGRES_USER"),
		PostgresPassword: v.GetString("POSTGRES_PASSWORD"),
		PostgresDB:       v.GetString("POSTGRES_DB"),
		PostgresHost:     v.GetString("POSTGRES_HOST"),
		PostgresPort:     v.GetInt("POSTGRES_PORT"),
		PostgresSSLMode:  v.GetString("POSTGRES_SSLMODE"),

		SQLitePath: v.GetString("SQLITE_PATH"),

		SessionName:   v.GetString("SESSION_NAME"),
		SessionMaxAge: v.GetInt("SESSION_MAX_AGE"),
		CookieSecure:  v.GetBool("COOKIE_SECURE"),

		StaticDir:      v.GetString("STATIC_DIR"),
		UploadDir:      v.GetString("UPLOAD_DIR"),
		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),
		MaxImageWidth:  v.GetUint("MAX_IMAGE_WIDTH"),
		MaxImagePixels: v.GetInt64("MAX_IMAGE_PIXELS"),

		CartBackend: strings.ToLower(v.GetString("CART_BACKEND")),
		RedisAddr:   v.GetString("REDIS_ADDR"),

		ReceiptCompress: v.GetBool("RECEIPT_COMPRESS"),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be postgres or sqlite: %q", cfg.DBDriver)
	}
	switch cfg.CartBackend {
	case "memory", "redis":
	default:
		return Config{}, fmt.Errorf("CART_BACKEND must be memory or redis: %q", cfg.CartBackend)
	}
	if cfg.SessionMaxAge <= 0 {
		return Config{}, fmt.Errorf("SESSION_MAX_AGE must be positive")
	}
	if cfg.MaxUploadBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if cfg.MaxImagePixels <= 0 {
		return Config{}, fmt.Errorf("MAX_IMAGE_PIXELS must be positive")
	}

	key, err := sessionKey(v.GetString("SESSION_KEY"), cfg.IsProd())
	if err != nil {
		return Config{}, err
	}
	cfg.SessionKey = key

	return cfg, nil
}

// SESSION_KEYはbase64で32byte以上。dev環境のみ未設定ならランダム生成。
func sessionKey(raw string, prod bool) ([]byte, error) {
	if raw == "" {
		if prod {
			return nil, fmt.Errorf("SESSION_KEY is required")
		}
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("generate session key: %w", err)
		}
		return b, nil
	}
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("SESSION_KEY must be base64: %w", err)
	}
	if len(key) < 32 {
		return nil, fmt.Errorf("SESSION_KEY must be at least 32 bytes")
	}
	return key, nil
}
