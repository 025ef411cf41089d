package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	appNameVar        = "APP_NAME"
	folderEnvVar      = "TODO_DATA_FOLDER"
	logLevelEnvVar    = "TODO_LOG_LEVEL"
	apiBaseURLEnvVar  = "TODO_API_BASE_URL"
	timeoutEnvVar     = "TODO_REQUEST_TIMEOUT"
	storageKeyEnvVar  = "TODO_STORAGE_KEY"
	portEnvVar        = "PORT"
	serverSecretVar   = "TODO_SERVER_SECRET"
	tokenExpiryEnvVar = "TODO_SERVER_TOKEN_EXPIRY"
	seedEmailEnvVar   = "TODO_SEED_EMAIL"
	seedPassEnvVar    = "TODO_SEED_PASSWORD"

	// DefaultAPIBaseURL is used when TODO_API_BASE_URL is not set.
	DefaultAPIBaseURL = "https://todo-app.pioneeralpha.com"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Todo")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelEnvVar, "info")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

type Client struct{}

var _ ClientConfig = Client{}

// GetAPIBaseURL returns the remote API root without a trailing slash.
func (Client) GetAPIBaseURL() string {
	return strings.TrimRight(GetEnv(apiBaseURLEnvVar, DefaultAPIBaseURL), "/")
}

func (Client) GetRequestTimeout() time.Duration {
	return GetDuration(timeoutEnvVar, 15*time.Second)
}

func (Client) GetDatabasePath() string {
	return filepath.Join(EnvVars{}.GetDataFolder(), "todo-client.db")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetDuration parses envVar as a time.Duration, falling back to defaultValue when
// the variable is unset or malformed.
func GetDuration(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
