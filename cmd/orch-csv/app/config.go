package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from flags, environment
// variables, .env files, and an optional config file.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Default paths, overridable per command
	MappingFile string
	VaultPath   string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// command-line flags (applied by cobra later), environment variables,
// .env files, the config file, and defaults.
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".orch-csv")
		}
	}

	// A missing config file is fine; flags and defaults cover everything.
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),

		ConfigFile: viper.ConfigFileUsed(),

		MappingFile: viper.GetString("mapping_file"),
		VaultPath:   viper.GetString("vault_path"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}
	return config, nil
}

// UpdateFromFlags applies parsed global flag values so they take precedence
// over config file and environment values.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
