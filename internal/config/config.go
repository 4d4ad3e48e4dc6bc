package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"8080"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8081"`
	Redis      Redis  `yaml:"redis"`
	CORS       CORS   `yaml:"cors"`
	Game       Game   `yaml:"game"`
}

type Redis struct {
	Enabled bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	TTL     time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"24h"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed-origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000"`
}

type Game struct {
	BoardSize    int   `yaml:"board-size" env:"GAME_BOARD_SIZE" env-default:"3"`
	WinLength    int   `yaml:"win-length" env:"GAME_WIN_LENGTH" env-default:"3"`
	HumanPlayers int   `yaml:"human-players" env:"GAME_HUMAN_PLAYERS" env-default:"0"`
	MaxBoardSize int   `yaml:"max-board-size" env:"GAME_MAX_BOARD_SIZE" env-default:"15"`
	MaxSessions  int   `yaml:"max-sessions" env:"GAME_MAX_SESSIONS" env-default:"100"`
	Seed         int64 `yaml:"seed" env:"GAME_SEED" env-default:"0"`
}

// Load - reads the yml file with env overrides. Without the file only the environment is used.
func Load(path string) (*Config, error) {
	config := &Config{}

	err := cleanenv.ReadConfig(path, config)
	if errors.Is(err, fs.ErrNotExist) {
		err = cleanenv.ReadEnv(config)
	}

	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// DefaultGameConfig - the config new sessions start with.
func (that *Game) DefaultGameConfig() entity.GameConfig {
	return entity.GameConfig{
		BoardSize:    that.BoardSize,
		WinLength:    that.WinLength,
		HumanPlayers: that.HumanPlayers,
	}
}
