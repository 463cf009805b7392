package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"kingdoms/pkg/protocol"
)

// Config represents the complete server configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	CORS     CORSConfig     `yaml:"cors"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Game     GameConfig     `yaml:"game"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CORSConfig contains the browser origin allow-list
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig contains the SQLite name store settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// GameConfig contains the game engine tunables
type GameConfig struct {
	LobbyCapacities []int        `yaml:"lobby_capacities"`
	TickIntervalMS  int          `yaml:"tick_interval_ms"`
	StartDelaySec   int64        `yaml:"start_delay_sec"`
	MaxQueuedMoves  int          `yaml:"max_queued_moves"`
	ChatSyncLimit   int          `yaml:"chat_sync_limit"`
	NameMinLen      int          `yaml:"name_min_len"`
	NameMaxLen      int          `yaml:"name_max_len"`
	Growth          GrowthConfig `yaml:"growth"`
	Board           BoardConfig  `yaml:"board"`
}

// GrowthConfig contains per-terrain troop growth periods, in ticks
type GrowthConfig struct {
	Kingdom uint64 `yaml:"kingdom"`
	Castle  uint64 `yaml:"castle"`
	Blank   uint64 `yaml:"blank"`
}

// BoardConfig contains board generation parameters. Widths and heights are
// drawn from the half-open ranges [min, max).
type BoardConfig struct {
	WidthMin       int `yaml:"width_min"`
	WidthMax       int `yaml:"width_max"`
	HeightMin      int `yaml:"height_min"`
	HeightMax      int `yaml:"height_max"`
	Mountains      int `yaml:"mountains"`
	Castles        int `yaml:"castles"`
	CastleGarrison int `yaml:"castle_garrison"`
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Path: "game.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Game: GameConfig{
			LobbyCapacities: []int{2, 3, 1, 4},
			TickIntervalMS:  500,
			StartDelaySec:   3,
			MaxQueuedMoves:  12,
			ChatSyncLimit:   3,
			NameMinLen:      3,
			NameMaxLen:      18,
			Growth:          GrowthConfig{Kingdom: 1, Castle: 3, Blank: 10},
			Board: BoardConfig{
				WidthMin:       18,
				WidthMax:       23,
				HeightMin:      18,
				HeightMax:      23,
				Mountains:      35,
				Castles:        15,
				CastleGarrison: 10,
			},
		},
	}
}

// Load reads configuration from a YAML file layered over the defaults. An
// empty filename loads defaults plus environment overrides only.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvironmentOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnvironmentOverrides applies environment variables over the file values
func (c *Config) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		fmt.Sscanf(port, "%d", &c.Server.Port)
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if path := os.Getenv("DATABASE_PATH"); path != "" {
		c.Database.Path = path
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", c.Server.Port)
	}

	if len(c.Game.LobbyCapacities) == 0 {
		return fmt.Errorf("at least one lobby is required")
	}

	maxCapacity := 0
	for i, capacity := range c.Game.LobbyCapacities {
		if capacity < 1 {
			return fmt.Errorf("lobby %d capacity must be at least 1", i)
		}
		if capacity > len(protocol.Palette) {
			return fmt.Errorf("lobby %d capacity %d exceeds the %d available player colors",
				i, capacity, len(protocol.Palette))
		}
		if capacity > maxCapacity {
			maxCapacity = capacity
		}
	}

	if c.Game.TickIntervalMS < 1 {
		return fmt.Errorf("tick interval must be at least 1ms")
	}

	if c.Game.StartDelaySec < 0 {
		return fmt.Errorf("start delay must not be negative")
	}

	if c.Game.MaxQueuedMoves < 1 {
		return fmt.Errorf("max queued moves must be at least 1")
	}

	if c.Game.ChatSyncLimit < 0 {
		return fmt.Errorf("chat sync limit must not be negative")
	}

	if c.Game.NameMinLen < 1 || c.Game.NameMaxLen < c.Game.NameMinLen {
		return fmt.Errorf("invalid name length bounds [%d, %d]", c.Game.NameMinLen, c.Game.NameMaxLen)
	}

	if c.Game.Growth.Kingdom == 0 || c.Game.Growth.Castle == 0 || c.Game.Growth.Blank == 0 {
		return fmt.Errorf("growth periods must be at least 1 tick")
	}

	b := c.Game.Board
	if b.WidthMin < 1 || b.WidthMax <= b.WidthMin || b.HeightMin < 1 || b.HeightMax <= b.HeightMin {
		return fmt.Errorf("invalid board dimension ranges [%d,%d)x[%d,%d)",
			b.WidthMin, b.WidthMax, b.HeightMin, b.HeightMax)
	}
	if b.Mountains < 0 || b.Castles < 0 || b.CastleGarrison < 0 {
		return fmt.Errorf("board feature counts must not be negative")
	}
	if free := b.WidthMin*b.HeightMin - b.Mountains - b.Castles; free < maxCapacity {
		return fmt.Errorf("smallest board leaves %d free tiles, need %d for starting kingdoms",
			free, maxCapacity)
	}

	return nil
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// TickInterval returns the game loop period as a duration.
func (g GameConfig) TickInterval() time.Duration {
	return time.Duration(g.TickIntervalMS) * time.Millisecond
}

// StartDelay returns the lobby countdown length as a duration.
func (g GameConfig) StartDelay() time.Duration {
	return time.Duration(g.StartDelaySec) * time.Second
}
