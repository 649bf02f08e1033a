package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`

	Client Client `yaml:"client"`
	Server Server `yaml:"server"`
	Redis  Redis  `yaml:"redis"`
}

// Client configures the interactive console binary.
type Client struct {
	// OracleURL is the base URL of the game service that renders boards and
	// lists moves.
	OracleURL string `yaml:"oracle-url" env:"ORACLE_URL" env-default:"http://localhost:9090"`

	// LogFile receives the client's logs; stdout belongs to the board UI.
	LogFile string `yaml:"log-file" env:"LOG_FILE" env-default:"tictactoe.log"`

	RequestTimeout time.Duration `yaml:"request-timeout" env-default:"30s"`
}

// Server configures the game service binary.
type Server struct {
	HTTPPort string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	CacheTTL time.Duration `yaml:"cache-ttl" env-default:"1h"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
