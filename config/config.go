package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Detect    DetectConfig
	Dashboard DashboardConfig

	PostgresURL        string
	PostgresSecretPath string

	LogLevel        log.Level
	LogFormat       LogFormat
	TestModeEnabled bool
}

type DetectConfig struct {
	ApiURL     url.URL
	APIKey     string
	SecretPath string
	Timeout    time.Duration
}

type DashboardConfig struct {
	Port          int
	Username      string
	Password      string
	PasswordHash  string
	MaxImageBytes int64
	MaxVideoBytes int64
}

type LogFormat string

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

type EnvfileKey string

const (
	// Base URL to the detection API (e.g. "http://localhost:8000")
	EnvfileKeyDetectAPI = "DETECT_API"
	// API key sent as X-API-KEY on detection calls; optional for local backends
	EnvfileKeyDetectAPIKey = "DETECT_API_KEY"
	// AWS Secrets Manager path where the detection API key can be found
	EnvfileKeyDetectSecretPath = "DETECT_SECRETS_PATH"
	// Per-request timeout for detection calls, in seconds (videos take a while)
	EnvfileKeyDetectTimeout = "DETECT_TIMEOUT"

	// Port the dashboard bridge listens on
	EnvfileKeyDashboardPort = "DASHBOARD_PORT"
	// Username for the dashboard login
	EnvfileKeyDashboardUsername = "DASHBOARD_USERNAME"
	// Plaintext password for the dashboard login (stub check, local use)
	EnvfileKeyDashboardPassword = "DASHBOARD_PASSWORD"
	// bcrypt hash of the dashboard password; takes precedence over the plaintext
	EnvfileKeyDashboardPasswordHash = "DASHBOARD_PASSWORD_HASH"
	// Advisory upload size hints surfaced to the UI, in megabytes
	EnvfileKeyMaxImageMB = "MAX_IMAGE_MB"
	EnvfileKeyMaxVideoMB = "MAX_VIDEO_MB"

	// Postgres connection string for the detection history store (optional)
	EnvfileKeyPostgresURL = "POSTGRES_URL"
	// AWS Secrets Manager path where the Postgres connection string can be found
	EnvfileKeyPostgresSecretsPath = "POSTGRES_SECRETS_PATH"

	// Log level (e.g. "debug", "info", "warn", "error")
	EnvfileKeyLogLevel = "LOG_LEVEL"
	// Log output format (e.g. "text", "json")
	EnvfileKeyLogFormat = "LOG_FORMAT"
	// Enables "test mode" (canned detection results, no backend required)
	EnvfileKeyTestMode = "TEST_MODE"
)

func FromEnvfile() Config {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("dotenv")

	if err := viper.ReadInConfig(); err != nil {
		// Plain env vars are enough to run; the .env file is a convenience
		log.Warnf("no usable .env file, relying on environment: %v", err)
	}

	detectURL, err := url.Parse(getConfigString(EnvfileKeyDetectAPI))
	if err != nil {
		log.Fatalf("error parsing detection API URL: %v", err)
	}
	if detectURL.Host == "" {
		log.Fatalf("must supply a detection API URL via %s", EnvfileKeyDetectAPI)
	}

	detectTimeout := getConfigInt(EnvfileKeyDetectTimeout)
	if detectTimeout == 0 {
		// Video uploads are slow to analyze; default generously
		detectTimeout = 120
	}

	port := getConfigInt(EnvfileKeyDashboardPort)
	if port == 0 {
		port = 8080
	}

	username := getConfigString(EnvfileKeyDashboardUsername)
	password := getConfigString(EnvfileKeyDashboardPassword)
	passwordHash := getConfigString(EnvfileKeyDashboardPasswordHash)
	if username == "" {
		username = "operator"
	}
	if password == "" && passwordHash == "" {
		log.Warn("no dashboard credentials configured, using the default password")
		password = "operator"
	}

	maxImageMB := getConfigInt(EnvfileKeyMaxImageMB)
	if maxImageMB == 0 {
		maxImageMB = 10
	}
	maxVideoMB := getConfigInt(EnvfileKeyMaxVideoMB)
	if maxVideoMB == 0 {
		maxVideoMB = 50
	}

	logLevel, err := log.ParseLevel(getConfigString(EnvfileKeyLogLevel))
	if err != nil {
		// Default to info level but log a warning
		log.Warnf("unable to parse log level: %v", err)
		logLevel = log.InfoLevel
	}

	logFormat, err := parseLogFormat(getConfigString(EnvfileKeyLogFormat))
	if err != nil {
		// Default to text formatter but log a warning
		log.Warnf("unable to parse log format: %v", err)
		logFormat = LogFormatText
	}

	isTestMode := viper.GetBool(EnvfileKeyTestMode)

	return Config{
		Detect: DetectConfig{
			ApiURL:     *detectURL,
			APIKey:     getConfigString(EnvfileKeyDetectAPIKey),
			SecretPath: getConfigString(EnvfileKeyDetectSecretPath),
			Timeout:    time.Duration(detectTimeout) * time.Second,
		},
		Dashboard: DashboardConfig{
			Port:          port,
			Username:      username,
			Password:      password,
			PasswordHash:  passwordHash,
			MaxImageBytes: int64(maxImageMB) * 1024 * 1024,
			MaxVideoBytes: int64(maxVideoMB) * 1024 * 1024,
		},
		PostgresURL:        getConfigString(EnvfileKeyPostgresURL),
		PostgresSecretPath: getConfigString(EnvfileKeyPostgresSecretsPath),
		LogLevel:           logLevel,
		LogFormat:          logFormat,
		TestModeEnabled:    isTestMode,
	}
}

func parseLogFormat(raw string) (LogFormat, error) {
	switch strings.ToLower(raw) {
	case LogFormatJSON:
		return LogFormatJSON, nil
	case LogFormatText:
		return LogFormatText, nil
	default:
		return "", fmt.Errorf("unidentified log format: %s", raw)
	}
}

// Gets a config value as a string from env vars or a .env file
func getConfigString(key string) string {
	value := os.Getenv(key)
	if value == "" {
		value = viper.GetString(key)
	}
	return value
}

// Gets a config value as an int from env vars or a .env file
func getConfigInt(key string) int {
	envVarValue := os.Getenv(key)
	if envVarValue == "" {
		return viper.GetInt(key)
	}
	value, err := strconv.Atoi(envVarValue)
	if err != nil {
		return 0
	}
	return value
}
