package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string
	LogLevel  string // debug, info, warn, error
	LogFormat string // json or text
	Datum     string // display datum: wgs84, gcj02

	Game GameConfig `yaml:"game"`
}

// GameConfig holds gameplay tunables, overridable from a YAML file
type GameConfig struct {
	NearbyRadiusMeters       float64       `yaml:"nearby_radius_meters"`  // radius for counting active peers
	ActiveWindow             time.Duration `yaml:"active_window"`         // presence older than this is inactive
	CatalogRadiusMeters      float64       `yaml:"catalog_radius_meters"` // radius for POI candidates
	ClosureEpsilon           float64       `yaml:"closure_epsilon"`       // degrees
	SphericalThresholdMeters float64       `yaml:"spherical_threshold_meters"`
	MaxPathPoints            int           `yaml:"max_path_points"`
	RateLimit                int           `yaml:"rate_limit"` // requests per RateWindow per client
	RateWindow               time.Duration `yaml:"rate_window"`
	Seed                     uint64        `yaml:"seed"` // 0 = random POI counts
}

// DefaultGameConfig returns the built-in gameplay tunables
func DefaultGameConfig() GameConfig {
	return GameConfig{
		NearbyRadiusMeters:       1000,
		ActiveWindow:             10 * time.Minute,
		CatalogRadiusMeters:      2000,
		ClosureEpsilon:           1e-6,
		SphericalThresholdMeters: 10000,
		MaxPathPoints:            10000,
		RateLimit:                120,
		RateWindow:               time.Minute,
	}
}

// Load 加载配置
func Load() (*Config, error) {
	cfg := &Config{
		Port:      getenv("PORT", ":8080"),
		DBPath:    getenv("DB_PATH", "./data/explorer.db"),
		JWTSecret: getenv("JWT_SECRET", "your-secret-key-change-in-production"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "text"),
		Datum:     getenv("DATUM", "gcj02"),
		Game:      DefaultGameConfig(),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := cfg.ApplyYAML(data); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// ApplyYAML overlays the game section of a YAML document onto cfg.
// Keys absent from the document keep their current values.
func (c *Config) ApplyYAML(data []byte) error {
	var doc struct {
		Game *GameConfig `yaml:"game"`
	}
	doc.Game = &c.Game
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid config yaml: %w", err)
	}
	return c.Game.Validate()
}

// Validate checks gameplay tunables for values the services cannot work with
func (g GameConfig) Validate() error {
	switch {
	case g.NearbyRadiusMeters <= 0:
		return fmt.Errorf("nearby_radius_meters must be positive")
	case g.CatalogRadiusMeters <= 0:
		return fmt.Errorf("catalog_radius_meters must be positive")
	case g.ActiveWindow <= 0:
		return fmt.Errorf("active_window must be positive")
	case g.ClosureEpsilon <= 0:
		return fmt.Errorf("closure_epsilon must be positive")
	case g.SphericalThresholdMeters <= 0:
		return fmt.Errorf("spherical_threshold_meters must be positive")
	case g.MaxPathPoints < 3:
		return fmt.Errorf("max_path_points must be at least 3")
	case g.RateLimit < 1:
		return fmt.Errorf("rate_limit must be at least 1")
	case g.RateWindow <= 0:
		return fmt.Errorf("rate_window must be positive")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
