// Package config предоставялет структуры и функции для парсинга и загрузки конфига панели.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Окружения, от которых зависит формат логов.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env:"PANEL_ENV" env-default:"local"`
	HTTPServer      `yaml:"http_server"`
	Backend         `yaml:"backend"`
	RedisConnection `yaml:"redis_connection"`
	Session         `yaml:"session"`
	LoginLimit      `yaml:"login_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"PANEL_HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	PublicURL   string        `yaml:"public_url" env:"PANEL_PUBLIC_URL" env-default:"http://localhost:8080"`
}

// Backend настройки REST API бэкенда. Адрес один на все вызовы.
type Backend struct {
	BaseURL        string        `yaml:"base_url" env:"PANEL_BACKEND_URL" env-required:"true"`
	TimeoutBackend time.Duration `yaml:"timeout" env-default:"15s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"PANEL_REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"PANEL_REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// Session настройки браузерной сессии и состояния страниц.
type Session struct {
	CookieName    string        `yaml:"cookie_name" env-default:"sid"`
	SessionTTL    time.Duration `yaml:"ttl" env-default:"720h"`
	SecureCookie  bool          `yaml:"secure_cookie" env:"PANEL_SECURE_COOKIE"`
	ViewTTL       time.Duration `yaml:"view_ttl" env-default:"30m"`
	HydrateWithin time.Duration `yaml:"hydrate_within" env-default:"30s"`
}

// LoginLimit ограничение частоты запросов к формам входа и регистрации на один IP.
type LoginLimit struct {
	RPS   float64 `yaml:"rps" env-default:"1"`
	Burst int     `yaml:"burst" env-default:"5"`
}

// MustLoad функция для загрузки конфига, путь берётся из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает конфиг из файла и переменных окружения.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"  PublicURL: %s\n"+
			"Backend:\n"+
			"  BaseURL: %s\n"+
			"  Timeout: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  User: %s\n"+
			"  DB: %d\n"+
			"Session:\n"+
			"  CookieName: %s\n"+
			"  TTL: %s\n"+
			"  ViewTTL: %s\n",
		c.Env,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.PublicURL,
		c.BaseURL,
		c.TimeoutBackend,
		c.AddressRedis,
		c.User,
		c.DB,
		c.CookieName,
		c.SessionTTL,
		c.ViewTTL,
	)
}
