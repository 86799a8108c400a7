// Package settings loads the shared environment configuration used across
// the geep services. Every value maps to a single environment variable and
// unset variables fall back to their zero value, so a service only has to
// define the subset it actually uses.
package settings

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Settings is the process-wide configuration shared by all geep services.
type Settings struct {
	AWSRegion string `mapstructure:"aws_region"`

	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBHost     string `mapstructure:"db_host"`
	DBName     string `mapstructure:"db_name"`
	DBPort     int    `mapstructure:"db_port"`

	Environment string `mapstructure:"environment"`

	LogLevel      string `mapstructure:"log_level"`
	LogUseColors  bool   `mapstructure:"log_use_colors"`
	EnableMetrics bool   `mapstructure:"enable_metrics"`

	// OverrideLocalExport forces remote log export and tracing even when
	// Environment is "local".
	OverrideLocalExport bool `mapstructure:"override_local_export"`

	GelfAddress string `mapstructure:"gelf_address"`
	TracingURL  string `mapstructure:"tracing_url"`

	DialogueServiceHost string `mapstructure:"dialogue_service_host"`
	DialogueServicePort int    `mapstructure:"dialogue_service_port"`
	LLMServiceHost      string `mapstructure:"llm_service_host"`
	LLMServicePort      int    `mapstructure:"llm_service_port"`
	TaskServiceHost     string `mapstructure:"task_service_host"`
	TaskServicePort     int    `mapstructure:"task_service_port"`
	PromptServiceHost   string `mapstructure:"prompt_service_host"`
	PromptServicePort   int    `mapstructure:"prompt_service_port"`
}

// IsLocal reports whether the process runs in a local or CI environment,
// where direct database credentials and console logging are used.
func (s Settings) IsLocal() bool {
	return s.Environment == "local" || s.Environment == "ci"
}

var defaults = map[string]any{
	"aws_region":            "",
	"db_user":               "",
	"db_password":           "",
	"db_host":               "",
	"db_name":               "",
	"db_port":               0,
	"environment":           "",
	"log_level":             "info",
	"log_use_colors":        true,
	"enable_metrics":        false,
	"override_local_export": false,
	"gelf_address":          "",
	"tracing_url":           "",
	"dialogue_service_host": "",
	"dialogue_service_port": 0,
	"llm_service_host":      "",
	"llm_service_port":      0,
	"task_service_host":     "",
	"task_service_port":     0,
	"prompt_service_host":   "",
	"prompt_service_port":   0,
}

// Load reads the settings from the environment.
func Load() (Settings, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Registering defaults makes AutomaticEnv pick the keys up during
	// Unmarshal and doubles as the unset-means-zero contract.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var s Settings
	err := v.Unmarshal(&s)
	if err != nil {
		return Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}

	return s, nil
}
