package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchelldurbincs/NumberMunchers/internal/common"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/gridgen"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/rules"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Game        GameConfig        `mapstructure:"game"`
	Server      ServerConfig      `mapstructure:"server"`
	UI          UIConfig          `mapstructure:"ui"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	Development DevelopmentConfig `mapstructure:"development"`
}

// GameConfig holds game mechanics configuration
type GameConfig struct {
	Grid            GridConfig `mapstructure:"grid"`
	Lives           int        `mapstructure:"lives"`
	MaxAdversaries  int        `mapstructure:"max_adversaries"`
	TargetDensity   float64    `mapstructure:"target_density"`
	MaxDrawAttempts int        `mapstructure:"max_draw_attempts"`
	MunchPoints     int        `mapstructure:"munch_points"`
	LevelBonus      int        `mapstructure:"level_bonus"`
	Categories      []string   `mapstructure:"categories"`
	PlayerName      string     `mapstructure:"player_name"`
}

// GridConfig holds board dimensions
type GridConfig struct {
	Rows int `mapstructure:"rows"`
	Cols int `mapstructure:"cols"`
}

// ServerConfig holds gRPC session server configuration
type ServerConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	LogLevel              string `mapstructure:"log_level"`
	MaxSessions           int    `mapstructure:"max_sessions"`
	TickIntervalMs        int    `mapstructure:"tick_interval_ms"`
	AutoTick              bool   `mapstructure:"auto_tick"`
	SessionIdleTimeout    int    `mapstructure:"session_idle_timeout"`
	CleanupInterval       int    `mapstructure:"cleanup_interval"`
	EnableReflection      bool   `mapstructure:"enable_reflection"`
	GracefulShutdownDelay int    `mapstructure:"graceful_shutdown_delay"`
}

// UIConfig holds UI/client configuration
type UIConfig struct {
	Window WindowConfig `mapstructure:"window"`
	Game   UIGameConfig `mapstructure:"game"`
}

// WindowConfig holds window settings
type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

// UIGameConfig holds UI game settings
type UIGameConfig struct {
	TileSize       int `mapstructure:"tile_size"`
	TickIntervalMs int `mapstructure:"tick_interval_ms"`
}

// LeaderboardConfig selects where finished games are recorded
type LeaderboardConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
	Size    int    `mapstructure:"size"`
}

// DevelopmentConfig holds development/debug settings
type DevelopmentConfig struct {
	VerboseLogging bool `mapstructure:"verbose_logging"`
	RevealTargets  bool `mapstructure:"reveal_targets"`
}

// Leaderboard backends
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
	mu  sync.RWMutex
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Game defaults
	v.SetDefault("game.grid.rows", 5)
	v.SetDefault("game.grid.cols", 5)
	v.SetDefault("game.lives", 3)
	v.SetDefault("game.max_adversaries", 3)
	v.SetDefault("game.target_density", 0.4)
	v.SetDefault("game.max_draw_attempts", 32)
	v.SetDefault("game.munch_points", 10)
	v.SetDefault("game.level_bonus", 100)
	v.SetDefault("game.categories", rules.DefaultPoolSpecs())
	v.SetDefault("game.player_name", "Player")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 50051)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.max_sessions", 100)
	v.SetDefault("server.tick_interval_ms", 2000)
	v.SetDefault("server.auto_tick", true)
	v.SetDefault("server.session_idle_timeout", 1800)
	v.SetDefault("server.cleanup_interval", 60)
	v.SetDefault("server.enable_reflection", true)
	v.SetDefault("server.graceful_shutdown_delay", 5)

	// UI defaults
	v.SetDefault("ui.window.width", 640)
	v.SetDefault("ui.window.height", 560)
	v.SetDefault("ui.window.title", "Number Munchers")
	v.SetDefault("ui.game.tile_size", 96)
	v.SetDefault("ui.game.tick_interval_ms", 2000)

	// Leaderboard defaults
	v.SetDefault("leaderboard.backend", BackendFile)
	v.SetDefault("leaderboard.path", "leaderboard.json")
	v.SetDefault("leaderboard.size", 10)

	// Development defaults
	v.SetDefault("development.verbose_logging", false)
	v.SetDefault("development.reveal_targets", false)
}

// Init initializes the configuration
func Init(configPath string) error {
	nv := viper.New()
	setViperDefaults(nv)

	if configPath != "" {
		nv.SetConfigFile(configPath)
	} else {
		nv.SetConfigName("config")
		nv.SetConfigType("yaml")
		nv.AddConfigPath(".")
		nv.AddConfigPath("./config")
		nv.AddConfigPath("/etc/number-munchers")
	}

	nv.SetEnvPrefix("NMU")
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()

	if err := nv.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath == "" && !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Missing config file; defaults and environment apply
	}

	c := &Config{}
	if err := nv.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	mu.Lock()
	v, cfg = nv, c
	mu.Unlock()
	return nil
}

// BindFlags binds command-line flags to config keys. Flag names map to keys
// through the given table; flags the user did not set leave config values alone.
func BindFlags(fs *pflag.FlagSet, keys map[string]string) error {
	vp := GetViper()
	for flagName, key := range keys {
		f := fs.Lookup(flagName)
		if f == nil {
			return fmt.Errorf("unknown flag %q", flagName)
		}
		if err := vp.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %q: %w", flagName, err)
		}
	}
	return reload()
}

// Get returns the global config instance
func Get() *Config {
	mu.RLock()
	c := cfg
	mu.RUnlock()
	if c == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
		mu.RLock()
		c = cfg
		mu.RUnlock()
	}
	return c
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	mu.RLock()
	defer mu.RUnlock()
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig loads environment-specific config overlay
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	vp := GetViper()
	envFile := fmt.Sprintf("config.%s.yaml", env)
	vp.SetConfigFile(envFile)
	if err := vp.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}
	return reload()
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	GetViper().Set(key, value)
	if err := reload(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Config update rejected")
	}
}

// reload decodes and validates the viper state into a fresh Config, keeping
// the previous one when the new values are invalid.
func reload() error {
	vp := GetViper()
	c := &Config{}
	if err := vp.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	mu.Lock()
	cfg = c
	mu.Unlock()
	return nil
}

// GetString gets a string value from config
func GetString(key string) string {
	return GetViper().GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return GetViper().GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return GetViper().GetBool(key)
}

// GetFloat64 gets a float64 value from config
func GetFloat64(key string) float64 {
	return GetViper().GetFloat64(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return GetViper().ConfigFileUsed()
}

// WatchConfig enables hot-reloading of config file
func WatchConfig(onChange func(*Config)) {
	vp := GetViper()
	vp.OnConfigChange(func(e fsnotify.Event) {
		if err := reload(); err != nil {
			log.Warn().Err(err).Str("file", e.Name).Msg("Ignoring invalid config change")
			return
		}
		log.Info().Str("file", e.Name).Str("op", e.Op.String()).Msg("Config reloaded")
		if onChange != nil {
			onChange(Get())
		}
	})
	vp.WatchConfig()
}

// Pool parses the configured category list
func (g GameConfig) Pool() ([]rules.Category, error) {
	return rules.ParsePool(g.Categories)
}

// GeneratorConfig returns the grid generator settings
func (g GameConfig) GeneratorConfig() gridgen.Config {
	return gridgen.Config{
		TargetDensity:   g.TargetDensity,
		MaxDrawAttempts: g.MaxDrawAttempts,
	}
}

// Validate validates the configuration values
func Validate(c *Config) error {
	// Validate game mechanics
	if !common.IsValidGridSize(c.Game.Grid.Rows, c.Game.Grid.Cols) {
		return fmt.Errorf("game.grid rows and cols must be between 1 and %d", common.MaxGridSize)
	}
	if c.Game.Lives < 1 {
		return fmt.Errorf("game.lives must be at least 1")
	}
	if c.Game.MaxAdversaries < 0 {
		return fmt.Errorf("game.max_adversaries must be non-negative")
	}
	if err := c.Game.GeneratorConfig().Validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if c.Game.MunchPoints < 0 || c.Game.LevelBonus < 0 {
		return fmt.Errorf("game.munch_points and game.level_bonus must be non-negative")
	}
	if len(c.Game.Categories) == 0 {
		return fmt.Errorf("game.categories must list at least one category")
	}
	if _, err := c.Game.Pool(); err != nil {
		return fmt.Errorf("game.categories: %w", err)
	}

	// Validate server configuration
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.MaxSessions <= 0 {
		return fmt.Errorf("server.max_sessions must be positive")
	}
	if c.Server.TickIntervalMs <= 0 {
		return fmt.Errorf("server.tick_interval_ms must be positive")
	}
	if c.Server.SessionIdleTimeout < 0 {
		return fmt.Errorf("server.session_idle_timeout must be non-negative")
	}
	if c.Server.CleanupInterval <= 0 {
		return fmt.Errorf("server.cleanup_interval must be positive")
	}
	if c.Server.GracefulShutdownDelay < 0 {
		return fmt.Errorf("server.graceful_shutdown_delay must be non-negative")
	}

	// Validate UI configuration
	if c.UI.Window.Width <= 0 || c.UI.Window.Height <= 0 {
		return fmt.Errorf("ui.window dimensions must be positive")
	}
	if c.UI.Game.TileSize <= 0 {
		return fmt.Errorf("ui.game.tile_size must be positive")
	}
	if c.UI.Game.TickIntervalMs <= 0 {
		return fmt.Errorf("ui.game.tick_interval_ms must be positive")
	}

	// Validate leaderboard
	switch c.Leaderboard.Backend {
	case BackendMemory:
	case BackendFile, BackendSQLite:
		if strings.TrimSpace(c.Leaderboard.Path) == "" {
			return fmt.Errorf("leaderboard.path is required for the %s backend", c.Leaderboard.Backend)
		}
	default:
		return fmt.Errorf("leaderboard.backend must be one of memory, file, sqlite (got %q)", c.Leaderboard.Backend)
	}
	if c.Leaderboard.Size < 1 {
		return fmt.Errorf("leaderboard.size must be positive")
	}

	return nil
}
