package config

type SecurityConfig interface {
	// GetStorageKey returns the passphrase used to seal the persisted token.
	// Empty disables sealing.
	GetStorageKey() string
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetStorageKey() string {
	return GetEnv(storageKeyEnvVar, "")
}
