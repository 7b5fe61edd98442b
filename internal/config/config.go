package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	RepositoryInMemory = "inmemory"
	RepositoryPostgres = "postgres"

	envPrefix = "SURU"
	masked    = "******"
)

type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Database   DatabaseConfig   `yaml:"database" mapstructure:"database"`
	ORM        ORMConfig        `yaml:"orm" mapstructure:"orm"`
	Redis      RedisConfig      `yaml:"redis" mapstructure:"redis"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
	Repository RepositoryConfig `yaml:"repository" mapstructure:"repository"`
	Sessions   SessionsConfig   `yaml:"sessions" mapstructure:"sessions"`
	OAuth      OAuthConfig      `yaml:"oauth" mapstructure:"oauth"`
}

type ServerConfig struct {
	Port         string        `yaml:"port" mapstructure:"port"`
	Host         string        `yaml:"host" mapstructure:"host"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	RateLimitRPM int           `yaml:"rate_limit_rpm" mapstructure:"rate_limit_rpm"`
	CORSOrigins  []string      `yaml:"cors_origins" mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	URL            string        `yaml:"url" mapstructure:"url"`
	MaxConnections int           `yaml:"max_connections" mapstructure:"max_connections"`
	MinConnections int           `yaml:"min_connections" mapstructure:"min_connections"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// ORMConfig - хранилище команд, проектов и пользователей
type ORMConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"` // "postgres" или "sqlite"
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

type LoggingConfig struct {
	Development bool `yaml:"development" mapstructure:"development"`
}

type RepositoryConfig struct {
	Type string `yaml:"type" mapstructure:"type"` // "postgres" или "inmemory"
}

type SessionsConfig struct {
	TTL           time.Duration `yaml:"ttl" mapstructure:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval" mapstructure:"sweep_interval"`
	SweepBatch    int           `yaml:"sweep_batch" mapstructure:"sweep_batch"`
}

type OAuthConfig struct {
	Providers map[string]OAuthProviderConfig `yaml:"providers" mapstructure:"providers"`
}

type OAuthProviderConfig struct {
	ClientID     string   `yaml:"client_id" mapstructure:"client_id"`
	ClientSecret string   `yaml:"client_secret" mapstructure:"client_secret"`
	AuthURL      string   `yaml:"auth_url" mapstructure:"auth_url"`
	TokenURL     string   `yaml:"token_url" mapstructure:"token_url"`
	UserInfoURL  string   `yaml:"userinfo_url" mapstructure:"userinfo_url"`
	RedirectURL  string   `yaml:"redirect_url" mapstructure:"redirect_url"`
	Scopes       []string `yaml:"scopes" mapstructure:"scopes"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.rate_limit_rpm", 100)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.idle_timeout", 5*time.Minute)

	v.SetDefault("orm.driver", "sqlite")
	v.SetDefault("orm.dsn", "suru.db")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("logging.development", false)
	v.SetDefault("repository.type", RepositoryInMemory)

	v.SetDefault("sessions.ttl", 7*24*time.Hour)
	v.SetDefault("sessions.sweep_interval", 5*time.Minute)
	v.SetDefault("sessions.sweep_batch", 100)
}

// Load читает YAML-файл и переменные окружения SURU_*. Пустой path означает
// ./config.yml, причём его отсутствие не ошибка: работают значения по умолчанию.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("ошибка чтения конфигурации: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Repository.Type {
	case RepositoryInMemory:
	case RepositoryPostgres:
		if c.Database.URL == "" {
			return errors.New("database.url обязателен для repository.type=postgres")
		}
		if c.Redis.Addr == "" {
			return errors.New("redis.addr обязателен для repository.type=postgres")
		}
		if c.ORM.Driver != "postgres" && c.ORM.Driver != "sqlite" {
			return fmt.Errorf("неизвестный orm.driver: %q", c.ORM.Driver)
		}
	default:
		return fmt.Errorf("неизвестный repository.type: %q", c.Repository.Type)
	}

	if c.Server.Port == "" {
		return errors.New("server.port не задан")
	}
	if c.Server.RateLimitRPM <= 0 {
		return errors.New("server.rate_limit_rpm должен быть положительным")
	}
	if c.Sessions.TTL <= 0 {
		return errors.New("sessions.ttl должен быть положительным")
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// Dump печатает итоговую конфигурацию в YAML, секреты замаскированы
func (c *Config) Dump() (string, error) {
	cp := *c
	if cp.Redis.Password != "" {
		cp.Redis.Password = masked
	}
	if len(c.OAuth.Providers) > 0 {
		cp.OAuth.Providers = make(map[string]OAuthProviderConfig, len(c.OAuth.Providers))
		for name, p := range c.OAuth.Providers {
			if p.ClientSecret != "" {
				p.ClientSecret = masked
			}
			cp.OAuth.Providers[name] = p
		}
	}

	out, err := yaml.Marshal(&cp)
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации конфигурации: %w", err)
	}
	return string(out), nil
}
