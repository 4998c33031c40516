// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"

	"github.com/mbeaufils/patrimoine/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for patrimoine.
type Configuration struct {
	Server   ServerConfig  `yaml:"server,omitempty"`
	Logging  LoggingConfig `yaml:"logging,omitempty"`
	Cache    CacheConfig   `yaml:"cache,omitempty"`
	Defaults Defaults      `yaml:"defaults,omitempty"`
}

// ServerConfig holds runtime parameters for the HTTP API.
type ServerConfig struct {
	Address      string `yaml:"address,omitempty"`
	MaxBodyBytes int64  `yaml:"maxBodyBytes,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// CacheConfig holds the optional Redis response cache settings. The cache
// is disabled when no address is configured.
type CacheConfig struct {
	RedisAddress string `yaml:"redisAddress,omitempty"`
	TTLSeconds   int    `yaml:"ttlSeconds,omitempty"`
}

// Defaults is the global default-settings store feeding initial values to
// callers. The core calculation functions always take fully-specified
// parameters; these defaults never leak into them implicitly.
type Defaults struct {
	TargetRatio   float64     `yaml:"targetRatio,omitempty"`
	RentRetention float64     `yaml:"rentRetention,omitempty"`
	TMI           float64     `yaml:"tmi,omitempty"`
	PS            float64     `yaml:"ps,omitempty"`
	Loan          LoanDefault `yaml:"loan,omitempty"`
}

// LoanDefault holds the default prospective loan terms.
type LoanDefault struct {
	Principal  float64 `yaml:"principal,omitempty"`
	AnnualRate float64 `yaml:"annualRate,omitempty"`
	Years      int     `yaml:"years,omitempty"`
}

// DefaultConfiguration returns the configuration used when no file is
// provided.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Server: ServerConfig{
			Address:      constants.DefaultServerAddress,
			MaxBodyBytes: constants.DefaultMaxBodyBytes,
		},
		Defaults: Defaults{
			TargetRatio:   0.35,
			RentRetention: constants.DefaultRentRetention,
			TMI:           0.30,
			PS:            0.172,
			Loan: LoanDefault{
				Principal:  200000,
				AnnualRate: 0.03,
				Years:      20,
			},
		},
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. An empty path returns the defaults.
func LoadConfiguration(configPath string) (*Configuration, error) {
	configuration := DefaultConfiguration()
	if configPath == "" {
		return configuration, nil
	}

	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	if err := viper.Unmarshal(configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.normalize()
	return configuration, nil
}

func (conf *Configuration) normalize() {
	if conf.Server.Address == "" {
		conf.Server.Address = constants.DefaultServerAddress
	}
	if conf.Server.MaxBodyBytes <= 0 {
		conf.Server.MaxBodyBytes = constants.DefaultMaxBodyBytes
	}
	if conf.Defaults.RentRetention <= 0 || conf.Defaults.RentRetention > 1 {
		conf.Defaults.RentRetention = constants.DefaultRentRetention
	}
	if conf.Cache.TTLSeconds < 0 {
		conf.Cache.TTLSeconds = 0
	}
}

// Validate performs general validation of the configuration and returns
// warnings for suspicious but usable values.
func (conf *Configuration) Validate() []string {
	var warnings []string
	if conf.Defaults.TargetRatio > 0.5 {
		warnings = append(warnings, fmt.Sprintf("default target debt ratio %.2f exceeds 50%% of income", conf.Defaults.TargetRatio))
	}
	if conf.Defaults.TMI+conf.Defaults.PS >= 1 {
		warnings = append(warnings, fmt.Sprintf("combined default tax rates %.3f reach or exceed 100%%", conf.Defaults.TMI+conf.Defaults.PS))
	}
	if conf.Defaults.Loan.Years > 35 {
		warnings = append(warnings, fmt.Sprintf("default loan term of %d years is unusually long", conf.Defaults.Loan.Years))
	}
	if conf.Cache.RedisAddress == "" && conf.Cache.TTLSeconds > 0 {
		warnings = append(warnings, "cache TTL configured without a Redis address; cache stays disabled")
	}
	return warnings
}
