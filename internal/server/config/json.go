package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/profilekeeper/internal/flagx"
	"github.com/dmitrijs2005/profilekeeper/internal/timex"
)

// JsonConfig mirrors Config for JSON unmarshalling. It uses timex.Duration
// for the token lifetime, which accepts both strings such as "15m" and
// integer nanoseconds. After unmarshalling its fields are copied into the
// runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	RedisURL                    string         `json:"redis_url"`
	SecretKey                   string         `json:"secret_key"`
	MachineID                   int64          `json:"machine_id"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	StrictRevocation            bool           `json:"strict_revocation"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded. A file that cannot be
// read or parsed is a fatal startup error.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.RedisURL = c.RedisURL
	config.SecretKey = c.SecretKey
	config.MachineID = c.MachineID
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	config.StrictRevocation = c.StrictRevocation
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
