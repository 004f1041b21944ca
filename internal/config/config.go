// Package config loads the canary command's settings from a YAML file and
// CANARY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/mmadhavan/canary"
	"github.com/mmadhavan/canary/joblog"
)

// DefaultSchedule is the drain schedule used when none is configured.
const DefaultSchedule = "@every 30s"

// Settings is the resolved command configuration.
type Settings struct {
	// Redis is the backing store endpoint.
	Redis canary.Config

	// Window selects how reads compute their lower bound.
	Window joblog.WindowMode

	// Schedule is the cron expression the drain command runs on.
	Schedule string
}

// Load reads settings from path, or from canary.yaml in the working
// directory, $HOME/.canary or /etc/canary when path is empty. A missing
// file is fine when searching; defaults and environment apply. Environment
// variables use the CANARY_ prefix with dots replaced by underscores, e.g.
// CANARY_REDIS_PORT. CANARY_REDIS_CLUSTER is a space-separated host list.
func Load(path string) (*Settings, error) {
	v := viper.New()

	def := canary.DefaultConfig()
	v.SetDefault("redis.cluster", def.Cluster)
	v.SetDefault("redis.port", def.Port)
	v.SetDefault("redis.db", def.DB)
	v.SetDefault("joblog.window", joblog.WindowSinceLastRead.String())
	v.SetDefault("joblog.schedule", DefaultSchedule)

	v.SetEnvPrefix("CANARY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("canary")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.canary")
		v.AddConfigPath("/etc/canary")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	s := &Settings{
		Redis: canary.Config{
			Cluster: v.GetStringSlice("redis.cluster"),
			Port:    v.GetInt("redis.port"),
			DB:      v.GetInt("redis.db"),
		},
		Schedule: v.GetString("joblog.schedule"),
	}
	if err := s.Redis.Validate(); err != nil {
		return nil, err
	}

	window, err := joblog.ParseWindowMode(v.GetString("joblog.window"))
	if err != nil {
		return nil, err
	}
	s.Window = window

	return s, nil
}
