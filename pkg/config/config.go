// Package config loads service settings from the environment and an optional file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"narrator/pkg/inference"
)

type Config struct {
	Port        string
	LogLevel    string
	DataDir     string
	CatalogFile string
	PassDelay   time.Duration
	ProviderRPM int
	// AnalysisTTL is how long identical analysis requests share a result.
	AnalysisTTL time.Duration
	// InFlightTTL bounds how long a user counts as busy if a generation never reports back.
	InFlightTTL time.Duration
	TokenStats  bool

	// QueueSize bounds waiting generations, QueueWorkers running ones.
	QueueSize    int
	QueueWorkers int

	Keys   inference.Keys
	Models map[inference.Provider]string
}

// Load reads CONFIG_FILE when set, then lets environment variables override it.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("xai_api_key", "XAI_API_KEY", "GROK_API_KEY"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("xai_model", "XAI_MODEL", "GROK_MODEL"); err != nil {
		return nil, err
	}

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Port:         v.GetString("port"),
		LogLevel:     strings.ToLower(v.GetString("log_level")),
		DataDir:      v.GetString("data_dir"),
		CatalogFile:  v.GetString("catalog_file"),
		PassDelay:    v.GetDuration("pass_delay"),
		ProviderRPM:  v.GetInt("provider_rpm"),
		AnalysisTTL:  v.GetDuration("analysis_ttl"),
		InFlightTTL:  v.GetDuration("inflight_ttl"),
		TokenStats:   v.GetBool("token_stats"),
		QueueSize:    v.GetInt("queue_size"),
		QueueWorkers: v.GetInt("queue_workers"),
		Keys: inference.Keys{
			OpenAI:    v.GetString("openai_api_key"),
			Anthropic: v.GetString("anthropic_api_key"),
			XAI:       v.GetString("xai_api_key"),
			Google:    v.GetString("gemini_api_key"),
		},
		Models: map[inference.Provider]string{
			inference.OpenAI:    v.GetString("openai_model"),
			inference.Anthropic: v.GetString("anthropic_model"),
			inference.XAI:       v.GetString("xai_model"),
			inference.Google:    v.GetString("gemini_model"),
		},
	}
	if cfg.PassDelay < 0 {
		return nil, fmt.Errorf("invalid PASS_DELAY %s", cfg.PassDelay)
	}
	return cfg, nil
}

// Model returns the configured default model for p.
func (c *Config) Model(p inference.Provider) string {
	if m := c.Models[p]; m != "" {
		return m
	}
	return p.DefaultModel()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("config_file", "")
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("data_dir", ".")
	v.SetDefault("catalog_file", "")
	v.SetDefault("pass_delay", "2s")
	v.SetDefault("provider_rpm", 60)
	v.SetDefault("analysis_ttl", "30m")
	v.SetDefault("inflight_ttl", "30m")
	v.SetDefault("token_stats", false)
	v.SetDefault("queue_size", 100)
	v.SetDefault("queue_workers", 4)

	v.SetDefault("openai_api_key", "")
	v.SetDefault("anthropic_api_key", "")
	v.SetDefault("xai_api_key", "")
	v.SetDefault("gemini_api_key", "")

	for _, p := range inference.Providers() {
		v.SetDefault(modelKey(p), p.DefaultModel())
	}
}

func modelKey(p inference.Provider) string {
	if p == inference.Google {
		return "gemini_model"
	}
	return string(p) + "_model"
}
