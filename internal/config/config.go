package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// AnalysisConfig controls which data is analyzed and how
type AnalysisConfig struct {
	InputFile          string   `yaml:"input_file" envconfig:"INPUT_FILE" default:"owid-covid-data.csv" validate:"required"`
	Countries          []string `yaml:"countries" envconfig:"COUNTRIES" default:"United States,India,Brazil,Kenya,United Kingdom,Germany" validate:"min=1,dive,required"`
	FocusCountry       string   `yaml:"focus_country" envconfig:"FOCUS_COUNTRY" default:"United States" validate:"required"`
	TrailingWindowDays int      `yaml:"trailing_window_days" envconfig:"TRAILING_WINDOW_DAYS" default:"30" validate:"min=1"`
	ChartWidth         int      `yaml:"chart_width" envconfig:"CHART_WIDTH" default:"1280" validate:"min=320"`
	ChartHeight        int      `yaml:"chart_height" envconfig:"CHART_HEIGHT" default:"720" validate:"min=240"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/tracker.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	BaseDir    string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports"`
	ChartsDir  string `yaml:"charts_dir" envconfig:"CHARTS_DIR" default:"data/reports/charts"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// Load loads configuration from environment variables and an optional YAML
// file. Values from the YAML file override environment values, which override
// the struct defaults. Pass an empty configFile to use only the environment.
func Load(configFile string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process("COVID", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration against its struct constraints
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
