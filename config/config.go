package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Telegram TelegramConfig
	Storage  StorageConfig
	Ledger   LedgerConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
	Issuer       string
}

type TelegramConfig struct {
	BotToken     string
	AdminChatIDs []int64
}

// StorageConfig holds Cloudinary credentials for proof screenshots.
type StorageConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// LedgerConfig tunes the core: the pool of collection UPI handles rotated
// into deposit instructions, conversation TTL, and outbox drain interval.
type LedgerConfig struct {
	CollectionHandles []string
	SessionTTL        time.Duration
	DispatchInterval  time.Duration
}

// AdminConfig seeds the first admin user on an empty database.
type AdminConfig struct {
	Email    string
	Password string
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         envStr("PORT", "8088"),
			Env:          envStr("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             envStr("DATABASE_DSN", "rossx:rossx@tcp(localhost:3306)/rossx?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			Secret:       envStr("JWT_SECRET", "change-me-in-production"),
			AccessExpiry: envDuration("JWT_ACCESS_EXPIRY", time.Hour),
			Issuer:       "rossx",
		},
		Telegram: TelegramConfig{
			BotToken:     os.Getenv("TELEGRAM_BOT_TOKEN"),
			AdminChatIDs: envInt64List("TELEGRAM_ADMIN_CHAT_IDS"),
		},
		Storage: StorageConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		Ledger: LedgerConfig{
			CollectionHandles: envStrList("COLLECTION_UPI_HANDLES", []string{
				"rossx1@kiwi", "rossx2@kiwi", "rossx3@kiwi", "rossx4@kiwi", "rossx5@kiwi",
			}),
			SessionTTL:       envDuration("SESSION_TTL", 30*time.Minute),
			DispatchInterval: envDuration("DISPATCH_INTERVAL", 15*time.Second),
		},
		Admin: AdminConfig{
			Email:    envStr("ADMIN_EMAIL", "admin@rossx.local"),
			Password: envStr("ADMIN_PASSWORD", "change-me"),
		},
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[config] %s: %v, using %s", key, err, fallback)
		return fallback
	}
	return d
}

func envStrList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func envInt64List(key string) []int64 {
	var out []int64
	for _, s := range strings.Split(os.Getenv(key), ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			log.Printf("[config] %s: skipping %q: %v", key, s, err)
			continue
		}
		out = append(out, id)
	}
	return out
}
