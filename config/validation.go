package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	supportedDrivers  = []string{"postgres", "sqlite", "mysql"}
	supportedBackends = []string{"local", "s3", "minio"}
)

// ValidateConfig checks the configuration for the current environment and
// reports every problem found, not just the first.
func ValidateConfig(cfg *Config) error {
	var errs []ValidationError
	require := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"})
		}
	}

	require("server.port", cfg.Server.Port)

	if !contains(supportedDrivers, cfg.DB.Driver) {
		errs = append(errs, ValidationError{Field: "db.driver", Message: fmt.Sprintf("must be one of %v", supportedDrivers)})
	} else if cfg.DB.Driver != "sqlite" && cfg.DB.DSN == "" {
		require("db.host", cfg.DB.Host)
		require("db.port", cfg.DB.Port)
		require("db.user", cfg.DB.User)
		require("db.name", cfg.DB.Name)
	} else if cfg.DB.Driver == "sqlite" && cfg.DB.DSN == "" {
		require("db.name", cfg.DB.Name)
	}

	require("jwt.secret", cfg.JWT.Secret)
	if cfg.JWT.TTL <= 0 {
		errs = append(errs, ValidationError{Field: "jwt.ttl", Message: "must be positive"})
	}
	if GetEnvironment() == Production {
		if cfg.JWT.Secret == DefaultJWTSecret {
			errs = append(errs, ValidationError{Field: "jwt.secret", Message: "must not use the default value in production"})
		}
		require("db.password", cfg.DB.Password)
	}

	switch cfg.Storage.Backend {
	case "local":
		require("storage.local_dir", cfg.Storage.LocalDir)
	case "s3":
		require("storage.bucket", cfg.Storage.Bucket)
	case "minio":
		require("storage.bucket", cfg.Storage.Bucket)
		require("storage.endpoint", cfg.Storage.Endpoint)
		require("storage.access_key", cfg.Storage.AccessKey)
		require("storage.secret_key", cfg.Storage.SecretKey)
	default:
		errs = append(errs, ValidationError{Field: "storage.backend", Message: fmt.Sprintf("must be one of %v", supportedBackends)})
	}

	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
