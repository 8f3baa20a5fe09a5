package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

const (
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

type Config struct {
	LogLevel string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Storage  Storage `yaml:"storage"`
	Redis    Redis   `yaml:"redis"`
	Players  Players `yaml:"players"`
}

type Storage struct {
	Driver       string        `yaml:"driver" env:"STORAGE_DRIVER" env-default:"file"`
	Key          string        `yaml:"key" env:"STORAGE_KEY" env-default:"game-state-key"`
	FileDir      string        `yaml:"file-dir" env:"STORAGE_FILE_DIR" env-default:"./data"`
	SQLitePath   string        `yaml:"sqlite-path" env:"STORAGE_SQLITE_PATH" env-default:"./data/tictactoe.db"`
	PollInterval time.Duration `yaml:"poll-interval" env:"STORAGE_POLL_INTERVAL" env-default:"500ms"`
}

type Redis struct {
	Host           string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port           string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	DB             int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	KeyspaceConfig bool   `yaml:"keyspace-config" env:"REDIS_KEYSPACE_CONFIG" env-default:"false"`
}

type Player struct {
	Name       string `yaml:"name"`
	IconClass  string `yaml:"icon-class"`
	ColorClass string `yaml:"color-class"`
}

type Players struct {
	Player1 Player `yaml:"player1"`
	Player2 Player `yaml:"player2"`
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

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// GetPlayers - configured players, unset fields keep the defaults.
func (that *Players) GetPlayers() entity.Players {
	defaults := entity.DefaultPlayers()

	return entity.NewPlayers(
		that.Player1.merge(defaults[0]),
		that.Player2.merge(defaults[1]),
	)
}

func (that Player) merge(fallback entity.Player) entity.Player {
	if that.Name != "" {
		fallback.Name = that.Name
	}

	if that.IconClass != "" {
		fallback.IconClass = that.IconClass
	}

	if that.ColorClass != "" {
		fallback.ColorClass = that.ColorClass
	}

	return fallback
}
