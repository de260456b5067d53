package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and saves the
// resulting Config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to opsdash! Let's configure the dashboard server.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("port must be between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 2. Assistant pacing.
	labels := make([]string, len(PacingPresets))
	for i, p := range PacingPresets {
		labels[i] = p.Label
	}
	pacingPrompt := promptui.Select{
		Label: "Assistant pacing",
		Items: labels,
	}
	pacingIdx, _, err := pacingPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("pacing selection: %w", err)
	}
	cfg.Assistant.Pacing = PacingPresets[pacingIdx].Pacing

	// 3. Log level.
	levelPrompt := promptui.Select{
		Label: "Log level",
		Items: []string{string(LogInfo), string(LogDebug), string(LogWarn), string(LogError)},
	}
	_, level, err := levelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("log level selection: %w", err)
	}
	cfg.LogLevel = LogLevel(level)

	// 4. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory",
		Default: cfg.DataDir,
	}
	cfg.DataDir, err = dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
