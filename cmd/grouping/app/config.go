// Package app holds the application configuration and logger wiring for
// the grouping CLI.
package app

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/auw2025/grouping/pkg/records"
)

// Config holds the application configuration loaded from config files,
// environment variables, and .env files. It is a flat settings object:
// it names each input/output artifact and carries nothing the core logic
// consumes beyond artifact identity.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool

	// Config file
	ConfigFile string

	// Input artifacts
	WorkloadFile  string
	ReferenceFile string
	ClassListFile string
	TablesFile    string

	// Output artifacts
	OutputFile      string
	DiagnosticsFile string

	// Constant record fields
	AcademicYear string
	Term         string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (.grouping.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	// Set up Viper for environment variables
	viper.SetEnvPrefix("GROUPING")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Try to read config file if it exists
	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".grouping")
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),

		ConfigFile: viper.ConfigFileUsed(),

		WorkloadFile:  viper.GetString("workload_file"),
		ReferenceFile: viper.GetString("reference_file"),
		ClassListFile: viper.GetString("class_list_file"),
		TablesFile:    viper.GetString("tables_file"),

		OutputFile:      viper.GetString("output_file"),
		DiagnosticsFile: viper.GetString("diagnostics_file"),

		AcademicYear: viper.GetString("academic_year"),
		Term:         viper.GetString("term"),

		LogLevel:  viper.GetString("log_level"),
		LogFormat: viper.GetString("log_format"),
		LogOutput: viper.GetString("log_output"),
	}

	applyDefaults(config)
	return config, nil
}

// applyDefaults fills unset values.
func applyDefaults(config *Config) {
	if config.OutputFile == "" {
		config.OutputFile = "groupings_out.csv"
	}
	if config.DiagnosticsFile == "" {
		config.DiagnosticsFile = "unprocessed.csv"
	}
	if config.AcademicYear == "" {
		config.AcademicYear = records.DefaultAcademicYear
	}
	if config.Term == "" {
		config.Term = records.DefaultTerm
	}
	if config.LogFormat == "" {
		config.LogFormat = "auto"
	}
	if config.LogOutput == "" {
		config.LogOutput = "stderr"
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}
	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}
