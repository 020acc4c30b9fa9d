package config

import (
	"encoding/json"
	"fmt"

	_ "github.com/expki/go-covariance/env"
)

// ParseConfig parses the raw JSON configuration.
func ParseConfig(raw []byte) (config Config, err error) {
	err = json.Unmarshal(raw, &config)
	if err != nil {
		return config, fmt.Errorf("unmarshal config: %v", err)
	}
	config.Covariance = config.Covariance.Normalized()
	return config, nil
}

type Config struct {
	Covariance Covariance `json:"covariance"`
	Archive    Archive    `json:"archive"`
	LogLevel   LogLevel   `json:"log_level"`
}
