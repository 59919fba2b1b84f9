package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envConfig is the environment overlay. Every field is a pointer so that an
// unset variable leaves the current value untouched.
type envConfig struct {
	EndpointAddrHTTP            *string        `env:"RUN_ADDRESS"`
	DatabaseDSN                 *string        `env:"DATABASE_URL"`
	RedisURL                    *string        `env:"REDIS_URL"`
	SecretKey                   *string        `env:"ACCESS_SECRET"`
	MachineID                   *int64         `env:"MACHINE_ID"`
	AccessTokenValidityDuration *time.Duration `env:"ACCESS_TOKEN_TTL"`
	StrictRevocation            *bool          `env:"STRICT_REVOCATION"`
	S3RootUser                  *string        `env:"S3_ROOT_USER"`
	S3RootPassword              *string        `env:"S3_ROOT_PASSWORD"`
	S3Bucket                    *string        `env:"S3_BUCKET"`
	S3Region                    *string        `env:"S3_REGION"`
	S3BaseEndpoint              *string        `env:"S3_BASE_ENDPOINT"`
}

// parseEnv overlays configuration from the process environment, loading an
// optional .env file first. A missing .env file is fine; an unparsable
// variable is a fatal configuration error.
func parseEnv(config *Config) error {
	_ = godotenv.Load()

	e := envConfig{}
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("env parse error: %w", err)
	}

	if e.EndpointAddrHTTP != nil {
		config.EndpointAddrHTTP = *e.EndpointAddrHTTP
	}
	if e.DatabaseDSN != nil {
		config.DatabaseDSN = *e.DatabaseDSN
	}
	if e.RedisURL != nil {
		config.RedisURL = *e.RedisURL
	}
	if e.SecretKey != nil {
		config.SecretKey = *e.SecretKey
	}
	if e.MachineID != nil {
		config.MachineID = *e.MachineID
	}
	if e.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = *e.AccessTokenValidityDuration
	}
	if e.StrictRevocation != nil {
		config.StrictRevocation = *e.StrictRevocation
	}
	if e.S3RootUser != nil {
		config.S3RootUser = *e.S3RootUser
	}
	if e.S3RootPassword != nil {
		config.S3RootPassword = *e.S3RootPassword
	}
	if e.S3Bucket != nil {
		config.S3Bucket = *e.S3Bucket
	}
	if e.S3Region != nil {
		config.S3Region = *e.S3Region
	}
	if e.S3BaseEndpoint != nil {
		config.S3BaseEndpoint = *e.S3BaseEndpoint
	}

	return nil
}
