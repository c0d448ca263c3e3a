package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
// Environment names follow the deployment contract (MONGODB_URI, JWT_SECRET, ...)
// rather than a prefixed scheme, so keys are read explicitly.
type Config struct {
	Server struct {
		Port string
		Env  string
	}
	Database struct {
		Type                   string
		URI                    string
		MaxPoolSize            uint64
		ConnectTimeout         time.Duration
		SocketTimeout          time.Duration
		ServerSelectionTimeout time.Duration
	}
	JWT struct {
		Secret           string
		ExpiresIn        time.Duration
		RefreshExpiresIn time.Duration
	}
	RateLimit struct {
		Requests int
		Window   time.Duration
	}
	Admin struct {
		Username string
		Password string
	}
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "5000")
	v.SetDefault("NODE_ENV", "development")
	v.SetDefault("DB_TYPE", "mongodb")
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017/cbt")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRES_IN", "30d")
	v.SetDefault("JWT_REFRESH_EXPIRES_IN", "90d")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", "15m")
	v.SetDefault("BOOTSTRAP_ADMIN_USERNAME", "superadmin")
	v.SetDefault("BOOTSTRAP_ADMIN_PASSWORD", "superadmin123")

	var cfg Config
	cfg.Server.Port = v.GetString("PORT")
	cfg.Server.Env = v.GetString("NODE_ENV")
	cfg.Database.Type = v.GetString("DB_TYPE")
	cfg.Database.URI = v.GetString("MONGODB_URI")
	cfg.Database.MaxPoolSize = 10
	cfg.Database.ConnectTimeout = 10 * time.Second
	cfg.Database.SocketTimeout = 45 * time.Second
	cfg.Database.ServerSelectionTimeout = 10 * time.Second
	cfg.JWT.Secret = v.GetString("JWT_SECRET")
	cfg.RateLimit.Requests = v.GetInt("RATE_LIMIT_REQUESTS")
	cfg.Admin.Username = v.GetString("BOOTSTRAP_ADMIN_USERNAME")
	cfg.Admin.Password = v.GetString("BOOTSTRAP_ADMIN_PASSWORD")

	var err error
	if cfg.JWT.ExpiresIn, err = ParseLifetime(v.GetString("JWT_EXPIRES_IN")); err != nil {
		return Config{}, fmt.Errorf("parse JWT_EXPIRES_IN: %w", err)
	}
	if cfg.JWT.RefreshExpiresIn, err = ParseLifetime(v.GetString("JWT_REFRESH_EXPIRES_IN")); err != nil {
		return Config{}, fmt.Errorf("parse JWT_REFRESH_EXPIRES_IN: %w", err)
	}
	if cfg.RateLimit.Window, err = ParseLifetime(v.GetString("RATE_LIMIT_WINDOW")); err != nil {
		return Config{}, fmt.Errorf("parse RATE_LIMIT_WINDOW: %w", err)
	}

	return cfg, nil
}

// ParseLifetime accepts Go duration syntax plus a "d" day suffix ("30d"),
// which time.ParseDuration does not understand.
func ParseLifetime(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
