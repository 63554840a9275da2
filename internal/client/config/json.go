package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/teamdeck/internal/flagx"
	"github.com/dmitrijs2005/teamdeck/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "8s" or as integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	StoragePath        string         `json:"storage_path"`
	RosterFile         string         `json:"roster_file"`
	RotationInterval   timex.Duration `json:"rotation_interval"`
	ImageRetryDelay    timex.Duration `json:"image_retry_delay"`
	ImageMaxRetries    *int           `json:"image_max_retries"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	S3Region           string         `json:"s3_region"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint"`
	S3AccessKey        string         `json:"s3_access_key"`
	S3SecretKey        string         `json:"s3_secret_key"`
	LogLevel           string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Keys absent from the file keep their current value.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.StoragePath, jc.StoragePath)
	setString(&cfg.RosterFile, jc.RosterFile)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.RotationInterval.Duration > 0 {
		cfg.RotationInterval = jc.RotationInterval.Duration
	}
	if jc.ImageRetryDelay.Duration > 0 {
		cfg.ImageRetryDelay = jc.ImageRetryDelay.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.ImageMaxRetries != nil {
		cfg.ImageMaxRetries = *jc.ImageMaxRetries
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
