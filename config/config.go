package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Env string `mapstructure:"env"`
	} `mapstructure:"app"`

	HTTP struct {
		Addr            string        `mapstructure:"addr"`
		ReadTimeout     time.Duration `mapstructure:"read_timeout"`
		WriteTimeout    time.Duration `mapstructure:"write_timeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"http"`

	Postgres struct {
		DSN             string        `mapstructure:"dsn"`
		MaxOpenConns    int           `mapstructure:"max_open_conns"`
		MaxIdleConns    int           `mapstructure:"max_idle_conns"`
		ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
		AutoMigrate     bool          `mapstructure:"auto_migrate"`
	} `mapstructure:"postgres"`

	Auth struct {
		JWTSecret    string        `mapstructure:"jwt_secret"`
		TokenTTL     time.Duration `mapstructure:"token_ttl"`
		CookieDomain string        `mapstructure:"cookie_domain"`
		CookieSecure bool          `mapstructure:"cookie_secure"`
	} `mapstructure:"auth"`

	Authz struct {
		// Strict makes categories read-only and articles create-or-read.
		Strict bool `mapstructure:"strict"`
	} `mapstructure:"authz"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "prod")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.shutdown_timeout", 5*time.Second)

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.max_open_conns", 25)
	v.SetDefault("postgres.max_idle_conns", 25)
	v.SetDefault("postgres.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("postgres.auto_migrate", true)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 168*time.Hour)
	v.SetDefault("auth.cookie_domain", "")
	v.SetDefault("auth.cookie_secure", true)

	v.SetDefault("authz.strict", false)

	v.SetDefault("metrics.enabled", true)
}

// Load reads configuration from defaults, an optional YAML file and APP_*
// environment variables, in increasing order of precedence. A .env file in
// the working directory is loaded first when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var problems []string

	if _, _, err := net.SplitHostPort(c.HTTP.Addr); err != nil {
		problems = append(problems, fmt.Sprintf("invalid http.addr %q: %v", c.HTTP.Addr, err))
	}
	if c.Postgres.DSN == "" {
		problems = append(problems, "postgres.dsn is required (APP_POSTGRES_DSN)")
	}
	if len(c.Auth.JWTSecret) < 32 {
		problems = append(problems, "auth.jwt_secret must be at least 32 characters (APP_AUTH_JWT_SECRET)")
	}
	if c.Auth.TokenTTL < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid auth.token_ttl %v: must be at least 1 minute", c.Auth.TokenTTL))
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		problems = append(problems, "http.shutdown_timeout must be positive")
	}
	if c.Postgres.MaxIdleConns > c.Postgres.MaxOpenConns && c.Postgres.MaxOpenConns > 0 {
		problems = append(problems, "postgres.max_idle_conns cannot exceed postgres.max_open_conns")
	}

	if len(problems) > 0 {
		return errors.New("configuration validation failed:\n- " + strings.Join(problems, "\n- "))
	}
	return nil
}

// IsDev reports whether the service runs in the development environment.
func (c Config) IsDev() bool {
	return c.App.Env == "dev"
}
