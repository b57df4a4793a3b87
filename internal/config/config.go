package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment. It is built once at
// startup and handed to each component; nothing mutates it afterwards.
type Config struct {
	Jira    JiraConfig
	Report  ReportConfig
	Debug   bool
	Verbose bool
}

type JiraConfig struct {
	Server           string
	Token            string
	Username         string
	TimelineDays     int
	ProjectFilter    []string
	TrackedFields    []string
	ListCustomFields bool
}

type ReportConfig struct {
	LineLength int
	Formats    []string // json, csv, xlsx, details
	OutputDir  string
}

var exportFormats = map[string]bool{
	"json":    true,
	"csv":     true,
	"xlsx":    true,
	"details": true,
}

// LoadFromEnv reads a .env file if present, then the process environment.
func LoadFromEnv() (*Config, error) {
	_ = godotenv.Load()

	timeline, err := getEnvInt("WRAPPED_TIMELINE", 365)
	if err != nil {
		return nil, err
	}
	lineLength, err := getEnvInt("FILE_LOG_LINE_LENGTH", 120)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Jira: JiraConfig{
			Server:           os.Getenv("JIRA_SERVER"),
			Token:            os.Getenv("JIRA_TOKEN"),
			Username:         os.Getenv("WHOAMI"),
			TimelineDays:     timeline,
			ProjectFilter:    splitList(os.Getenv("PROJECT_FILTER")),
			TrackedFields:    splitList(os.Getenv("IMPORTANT_CUSTOM_FIELDS")),
			ListCustomFields: getEnvBool("LIST_CUSTOM_FIELDS", false),
		},
		Report: ReportConfig{
			LineLength: lineLength,
			Formats:    splitList(os.Getenv("WRAPPED_EXPORT")),
			OutputDir:  getEnvOrDefault("OUTPUT_DIR", "reports"),
		},
		Debug:   getEnvBool("DEBUG", false),
		Verbose: getEnvBool("VERBOSE", false),
	}

	return cfg, nil
}

// ValidateConnection checks just what is needed to talk to the instance,
// which is all the fields subcommand requires.
func (c *Config) ValidateConnection() error {
	if c.Jira.Token == "" {
		return fmt.Errorf("JIRA_TOKEN environment variable not set")
	}
	if c.Jira.Server == "" {
		return fmt.Errorf("JIRA_SERVER environment variable not set")
	}
	return nil
}

// Validate fails fast before any network call is made.
func (c *Config) Validate() error {
	if err := c.ValidateConnection(); err != nil {
		return err
	}
	if c.Jira.Username == "" {
		return fmt.Errorf("WHOAMI environment variable not set")
	}
	if c.Jira.TimelineDays <= 0 {
		return fmt.Errorf("WRAPPED_TIMELINE must be a positive number of days, got %d", c.Jira.TimelineDays)
	}
	if c.Report.LineLength <= 0 {
		return fmt.Errorf("FILE_LOG_LINE_LENGTH must be positive, got %d", c.Report.LineLength)
	}
	for _, format := range c.Report.Formats {
		if !exportFormats[format] {
			return fmt.Errorf("unknown export format %q in WRAPPED_EXPORT (valid: json, csv, xlsx, details)", format)
		}
	}
	return nil
}

// truthy values accepted for the boolean settings
var truthy = map[string]bool{
	"true": true, "1": true, "t": true, "y": true, "yes": true,
	"yeah": true, "yup": true, "certainly": true, "uh-huh": true,
	"alright": true, "okay": true,
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return truthy[strings.ToLower(strings.TrimSpace(value))]
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return n, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(input string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
