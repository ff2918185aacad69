package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/vsinha/palletplan/pkg/domain/entities"
)

// EnvPrefix prefixes every environment override, e.g. PALLETPLAN_PLANNING_TARGET_DAYS
const EnvPrefix = "PALLETPLAN"

type Config struct {
	Planning PlanningConfig `mapstructure:"planning"`
	Log      LogConfig      `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
	Output   OutputConfig   `mapstructure:"output"`
}

type PlanningConfig struct {
	TargetDays          int    `mapstructure:"target_days"`
	NumArticlesForExtra int    `mapstructure:"num_articles_for_extra"`
	Rounding            string `mapstructure:"rounding"`
	StaleAfterDays      int    `mapstructure:"stale_after_days"`
	Workers             int    `mapstructure:"workers"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Output            string `mapstructure:"output"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type ServerConfig struct {
	Addr         string `mapstructure:"addr"`
	MaxUploadMB  int64  `mapstructure:"max_upload_mb"`
	PlanRetained int    `mapstructure:"plan_retained"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
	Dir    string `mapstructure:"dir"`
}

// Load reads configuration from the YAML file at path, then the environment.
// With envOnly the file is skipped and only defaults and environment apply.
func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("planning.target_days", entities.DefaultTargetDays)
	v.SetDefault("planning.num_articles_for_extra", entities.DefaultNumArticlesForExtra)
	v.SetDefault("planning.rounding", entities.RoundHalfUp.String())
	v.SetDefault("planning.stale_after_days", entities.DefaultStaleAfterDays)
	v.SetDefault("planning.workers", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("log.development", false)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", true)
	v.SetDefault("log.disable_stacktrace", true)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_mb", 32)
	v.SetDefault("server.plan_retained", 100)
	v.SetDefault("output.format", "text")
	v.SetDefault("output.dir", "")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, nil
}

// ToPlanningConfig converts the planning section into a validated domain configuration
func (c PlanningConfig) ToPlanningConfig() (entities.PlanningConfig, error) {
	rounding, err := entities.ParseRoundingMode(c.Rounding)
	if err != nil {
		return entities.PlanningConfig{}, err
	}

	planning := entities.DefaultPlanningConfig()
	planning.TargetDays = c.TargetDays
	planning.NumArticlesForExtra = c.NumArticlesForExtra
	planning.Rounding = rounding
	planning.StaleAfterDays = c.StaleAfterDays
	planning.Workers = c.Workers

	if err := planning.Validate(); err != nil {
		return entities.PlanningConfig{}, err
	}
	return planning, nil
}
