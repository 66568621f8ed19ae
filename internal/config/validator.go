package config

import (
	"fmt"
	"os"
	"strings"
)

// ExpectedEnvSchemaVersion is the .env layout this build reads
const ExpectedEnvSchemaVersion = "1.0"

// RequiredEnvVars must be set for `serve`
var RequiredEnvVars = []string{
	"ENV_SCHEMA_VERSION",
	"DB_USER",
	"DB_PASSWORD",
	"DB_HOST",
	"DB_PORT",
	"DB_NAME",
}

// insecurePasswords are the defaults and sample values that must not reach production
var insecurePasswords = map[string]bool{
	"postgres":                    true,
	"change_this_secure_password": true,
}

// ValidateEnv checks that all required environment variables are set
// and that the schema version matches expectations
func ValidateEnv() error {
	schemaVersion := os.Getenv("ENV_SCHEMA_VERSION")
	if schemaVersion == "" {
		return fmt.Errorf(ErrMsgSchemaVersionUnset, ExpectedEnvSchemaVersion)
	}
	if schemaVersion != ExpectedEnvSchemaVersion {
		return fmt.Errorf(ErrMsgSchemaVersionMismatch, ExpectedEnvSchemaVersion, schemaVersion)
	}

	var missing []string
	for _, envVar := range RequiredEnvVars {
		if os.Getenv(envVar) == "" {
			missing = append(missing, envVar)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf(ErrMsgMissingEnvVars, strings.Join(missing, ", "))
	}

	return nil
}

// ValidateEnvWithWarnings runs ValidateEnv and reports settings that work
// but degrade the deployment
func ValidateEnvWithWarnings() ([]string, error) {
	if err := ValidateEnv(); err != nil {
		return nil, err
	}

	var warnings []string
	if insecurePasswords[os.Getenv("DB_PASSWORD")] {
		warnings = append(warnings, WarnInsecurePassword)
	}
	if os.Getenv("REDIS_ADDR") == "" {
		warnings = append(warnings, WarnNoRedis)
	}
	if os.Getenv("API_KEY") == "" {
		warnings = append(warnings, WarnNoAPIKey)
	}
	if os.Getenv("CATALOG_RELOAD_INTERVAL") != "" && os.Getenv("CATALOG_DIR") == "" {
		warnings = append(warnings, WarnReloadWithoutDir)
	}

	return warnings, nil
}
