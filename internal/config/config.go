package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Simulation holds all configuration for the headless simulation.
type Simulation struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Map
	MapPath  string `yaml:"map_path"`
	WatchMap bool   `yaml:"watch_map"` // rebuild the navigation grid when the map file changes

	// Timing
	TickRate           int           `yaml:"tick_rate"`            // ticks per second
	QuadtreeUpdateRate float64       `yaml:"quadtree_update_rate"` // index refreshes per second
	Ticks              int           `yaml:"ticks"`                // 0 = run until interrupted
	MoveInterval       time.Duration `yaml:"move_interval"`        // how often idle units get a new destination

	// Population
	Units map[string]int `yaml:"units"` // creature kind → count, merged over the defaults; area population comes on top
	Seed  uint64         `yaml:"seed"`

	// Persistence
	Persist  bool           `yaml:"persist"`
	SaveSlot int            `yaml:"save_slot"`
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultSimulation returns Simulation config with sensible defaults.
func DefaultSimulation() Simulation {
	return Simulation{
		LogLevel:           "info",
		MapPath:            "maps/techdemo.yaml",
		TickRate:           60,
		QuadtreeUpdateRate: 15,
		MoveInterval:       2 * time.Second,
		Units: map[string]int{
			"necromancer": 1,
			"skeleton":    12,
			"zombie":      6,
			"knight":      4,
		},
		Seed:     1,
		SaveSlot: 1,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "gravemarch",
			Password: "gravemarch",
			DBName:   "gravemarch",
			SSLMode:  "disable",
		},
	}
}

// TickInterval returns the wall-clock duration of one tick.
func (s Simulation) TickInterval() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

// Validate checks values the simulation cannot run with.
func (s Simulation) Validate() error {
	if s.TickRate <= 0 {
		return fmt.Errorf("tick_rate must be positive, got %d", s.TickRate)
	}
	if s.Ticks < 0 {
		return fmt.Errorf("ticks must not be negative, got %d", s.Ticks)
	}
	if s.MapPath == "" {
		return fmt.Errorf("map_path is required")
	}
	for kind, n := range s.Units {
		if n < 0 {
			return fmt.Errorf("units.%s must not be negative, got %d", kind, n)
		}
	}
	return nil
}

// LoadSimulation loads simulation config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSimulation(path string) (Simulation, error) {
	cfg := DefaultSimulation()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}
