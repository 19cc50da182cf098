package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	LogLevel     string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort     string `yaml:"http-port" env:"HTTP_PORT" env-default:"3001"`
	Storage      string `yaml:"storage" env:"STORAGE" env-default:"memory"`
	HistoryLimit int    `yaml:"history-limit" env:"HISTORY_LIMIT" env-default:"10"`
	Redis        Redis  `yaml:"redis"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Client - settings of the dice client.
type Client struct {
	BaseURL   string        `yaml:"base-url" env:"DICE_API_URL" env-default:"http://localhost:3001/"`
	Timeout   time.Duration `yaml:"timeout" env:"DICE_TIMEOUT" env-default:"5s"`
	RollDelay time.Duration `yaml:"roll-delay" env:"DICE_ROLL_DELAY" env-default:"1s"`
	LogLevel  string        `yaml:"log-level" env:"DICE_LOG_LEVEL" env-default:"warn"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadClient - client settings come from the environment only.
func LoadClient() (*Client, error) {
	client := &Client{}

	if err := cleanenv.ReadEnv(client); err != nil {
		return nil, fmt.Errorf("unable to read client config: %w", err)
	}

	return client, nil
}

func (that *Config) validate() error {
	switch that.Storage {
	case StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("unknown storage %q", that.Storage)
	}

	if that.HistoryLimit <= 0 {
		return fmt.Errorf("history-limit must be positive, got %d", that.HistoryLimit)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
