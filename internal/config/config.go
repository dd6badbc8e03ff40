// Package config loads settings from an optional config file, NS2STATS_*
// environment variables and defaults, in that order of precedence below flags.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"

	"github.com/pable/go-ns2-stats/internal/aggregator"
	"github.com/pable/go-ns2-stats/internal/log"
)

// EnvPrefix is prepended to every environment variable, e.g. NS2STATS_HTTP_PORT.
const EnvPrefix = "ns2stats"

type HTTP struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release or test
}

// Addr returns host:port for net.Listen.
func (h HTTP) Addr() string {
	return net.JoinHostPort(h.Host, strconv.Itoa(h.Port))
}

type Stats struct {
	MinRoundLength float64 `mapstructure:"min_round_length"`
	MinTeamPlayers int     `mapstructure:"min_team_players"`
	GenuineOnly    bool    `mapstructure:"genuine_only"`
}

// Filter returns the genuine-game filter these settings describe.
func (s Stats) Filter() aggregator.Filter {
	return aggregator.Filter{MinRoundLength: s.MinRoundLength, MinTeamPlayers: s.MinTeamPlayers}
}

type Config struct {
	DB       string `mapstructure:"db"`
	DataDir  string `mapstructure:"data_dir"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
	HTTP     HTTP   `mapstructure:"http"`
	Stats    Stats  `mapstructure:"stats"`
}

// DefaultDBPath is ~/.ns2stats/ns2stats.db, or ./ns2stats.db without a home directory.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ns2stats.db"
	}
	return filepath.Join(home, ".ns2stats", "ns2stats.db")
}

// Listen address used when neither config nor flags set one.
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 8080
)

func defaults() map[string]any {
	return map[string]any{
		"db":                     DefaultDBPath(),
		"data_dir":               "",
		"log_level":              string(log.Info),
		"log_file":               "",
		"http.host":              DefaultHost,
		"http.port":              DefaultPort,
		"http.mode":              gin.ReleaseMode,
		"stats.min_round_length": aggregator.DefaultFilter.MinRoundLength,
		"stats.min_team_players": aggregator.DefaultFilter.MinTeamPlayers,
		"stats.genuine_only":     true,
	}
}

// NewViper returns a viper instance with defaults and environment binding set
// up. Callers may bind flags to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}
	return v
}

// Load reads path (when non-empty, or ns2stats.yml from the working directory
// and ~/.ns2stats when it exists) and decodes the result.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ns2stats")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".ns2stats"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no command can run with.
func (c Config) Validate() error {
	if c.DB == "" {
		return errors.New("config: db path is empty")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: http port %d out of range", c.HTTP.Port)
	}
	switch c.HTTP.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("config: unknown http mode %q", c.HTTP.Mode)
	}
	if c.Stats.MinRoundLength < 0 || c.Stats.MinTeamPlayers < 0 {
		return errors.New("config: stats filter thresholds must not be negative")
	}
	return nil
}
