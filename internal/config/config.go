package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"worldstats/domain/world"
	"worldstats/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data    DataConfig
	Policy  world.Policy
	Report  ReportConfig
	Email   EmailConfig
	Logging LoggingConfig
}

// DataConfig holds snapshot source settings
type DataConfig struct {
	Dir     string
	Pattern string
}

// ReportConfig holds report output settings
type ReportConfig struct {
	CSVFile  string
	XLSXFile string
	TopN     int
}

// EmailConfig holds SMTP and scheduling settings for the report email
type EmailConfig struct {
	SMTPServer    string
	SMTPPort      int
	Username      string
	Password      string
	To            string
	From          string
	LastSentFile  string
	Interval      time.Duration
	SubjectPrefix string
	DigestTop     int
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it. Email credentials
// are not required here; they are only checked when a send is attempted.
func Load() (*Config, error) {
	config := &Config{
		Data:    *loadDataConfig(),
		Report:  *loadReportConfig(),
		Email:   *loadEmailConfig(),
		Logging: LoggingConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
	}

	policy, err := loadPolicy()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load policy configuration")
	}
	config.Policy = policy

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		Dir:     getEnvOrDefault("DATA_DIR", "data"),
		Pattern: getEnvOrDefault("DATA_PATTERN", "*.json"),
	}
}

func loadReportConfig() *ReportConfig {
	return &ReportConfig{
		CSVFile:  getEnvOrDefault("REPORT_CSV", "worlds_aggregated.csv"),
		XLSXFile: getEnvOrDefault("REPORT_XLSX", ""),
		TopN:     getEnvIntOrDefault("TOP_N", 5),
	}
}

func loadEmailConfig() *EmailConfig {
	return &EmailConfig{
		SMTPServer:    getEnvOrDefault("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:      getEnvIntOrDefault("SMTP_PORT", 587),
		Username:      getEnvOrDefault("EMAIL_USERNAME", ""),
		Password:      getEnvOrDefault("EMAIL_PASSWORD", ""),
		To:            getEnvOrDefault("TO_EMAIL", ""),
		From:          getEnvOrDefault("FROM_EMAIL", ""),
		LastSentFile:  getEnvOrDefault("LAST_EMAIL_FILE", ".last_email_sent"),
		Interval:      time.Duration(getEnvIntOrDefault("EMAIL_INTERVAL_HOURS", 24)) * time.Hour,
		SubjectPrefix: getEnvOrDefault("EMAIL_SUBJECT_PREFIX", "PROD"),
		DigestTop:     getEnvIntOrDefault("EMAIL_DIGEST_TOP", 3),
	}
}

// loadPolicy starts from the defaults, overlays POLICY_FILE if set, then individual env vars
func loadPolicy() (world.Policy, error) {
	policy := world.DefaultPolicy()

	if path := os.Getenv("POLICY_FILE"); path != "" {
		var err error
		policy, err = LoadPolicyFile(path, policy)
		if err != nil {
			return policy, err
		}
	}

	policy.MinOccurrences = getEnvIntOrDefault("MIN_OCCURRENCES", policy.MinOccurrences)
	policy.MinMarketingSpend = getEnvFloatOrDefault("MIN_MARKETING_SPEND", policy.MinMarketingSpend)
	policy.HeatPopularityFactor = getEnvFloatOrDefault("HEAT_POPULARITY_FACTOR", policy.HeatPopularityFactor)
	if mode := os.Getenv("FACTOR_MODE"); mode != "" {
		policy.FactorMode = world.FactorMode(strings.ToLower(strings.TrimSpace(mode)))
	}
	return policy, nil
}

func validateConfig(config *Config) error {
	if config.Data.Dir == "" {
		return errors.ConfigInvalid("data directory is required")
	}
	if err := config.Policy.Validate(); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if config.Email.Interval < 0 {
		return errors.ConfigInvalid("email interval must not be negative")
	}
	return nil
}

// MissingEmailFields lists the credentials and addresses a send needs but does not have
func (c EmailConfig) MissingEmailFields() []string {
	var missing []string
	if c.Username == "" {
		missing = append(missing, "EMAIL_USERNAME")
	}
	if c.Password == "" {
		missing = append(missing, "EMAIL_PASSWORD")
	}
	if c.To == "" {
		missing = append(missing, "TO_EMAIL")
	}
	if c.From == "" {
		missing = append(missing, "FROM_EMAIL")
	}
	return missing
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
