package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	ClientConfig
	ServerConfig
	SecurityConfig
	CorsConfig
}

type EnvConfig interface {
	GetAppName() string
	GetDataFolder() string
	GetLogLevel() string
	GetEnv() string
}

// ClientConfig covers the API client and the session storage.
type ClientConfig interface {
	GetAPIBaseURL() string
	GetRequestTimeout() time.Duration
	GetDatabasePath() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Client
	Server
	Security
	Cors
}

func New() Config {
	return mainConfig{}
}

// Load reads the given dotenv files (".env" when none are given) into the process
// environment and returns the env-backed Config. Missing files are skipped and
// variables already set in the environment win.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) > 0 {
		if err := godotenv.Load(present...); err != nil {
			return nil, err
		}
	}
	return New(), nil
}
