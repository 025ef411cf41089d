package config

import (
	"fmt"
	"time"
)

// ServerConfig configures the local mock of the todo API.
type ServerConfig interface {
	GetPort() string
	GetServerSecret() string
	GetAccessTokenExpiry() time.Duration
	GetSeedAccount() (email, password string)
}

type Server struct{}

var _ ServerConfig = Server{}

func (Server) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (Server) GetServerSecret() string {
	return GetEnv(serverSecretVar, "dev-secret-change-me")
}

func (Server) GetAccessTokenExpiry() time.Duration {
	return GetDuration(tokenExpiryEnvVar, 1*time.Hour)
}

// GetSeedAccount returns the demo account created at startup. Both are empty when
// seeding is disabled.
func (Server) GetSeedAccount() (email, password string) {
	email, password = GetEnv(seedEmailEnvVar, ""), GetEnv(seedPassEnvVar, "")
	if email == "" || password == "" {
		return "", ""
	}
	return email, password
}
