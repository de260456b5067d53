package config

import "time"

// LogLevel selects the minimum zap level written by the process logger.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// Config is the top-level opsdash configuration, corresponding to .opsdash.yml.
type Config struct {
	Port            int             `yaml:"port" koanf:"port"`
	DataDir         string          `yaml:"data_dir" koanf:"data_dir"`
	LogLevel        LogLevel        `yaml:"log_level" koanf:"log_level"`
	LogFile         string          `yaml:"log_file" koanf:"log_file"`
	AllowAllOrigins bool            `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	SessionTTL      time.Duration   `yaml:"session_ttl" koanf:"session_ttl"`
	Assistant       AssistantConfig `yaml:"assistant" koanf:"assistant"`
}

// AssistantConfig tunes the scripted workspace assistant.
type AssistantConfig struct {
	// Pacing multiplies every scripted delay. 1 keeps the demo timings, 0 fires steps immediately.
	Pacing float64 `yaml:"pacing" koanf:"pacing"`
	// Supersede cancels the pending steps of the previous flow when new input arrives.
	Supersede bool `yaml:"supersede" koanf:"supersede"`
}
