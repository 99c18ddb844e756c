package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	Storage StorageConfig
	JWT     JWTConfig
	Auth    AuthConfig
	Chain   ChainConfig
	FundMe  FundMeConfig
	Raffle  RaffleConfig
	Oracle  OracleConfig
	Log     LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
	Mode         string // gin mode: debug, release, test
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// StorageConfig selects the repository implementation: "mongodb" or "memory"
type StorageConfig struct {
	Driver string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// AuthConfig holds sign-in challenge configuration
type AuthConfig struct {
	ChallengeTTL int // seconds
}

// ChainConfig identifies the network contracts are deployed against
type ChainConfig struct {
	ChainID int64
}

// FundMeConfig holds FundMe deployment parameters
type FundMeConfig struct {
	MinimumUSD string // 18 decimals
}

// RaffleConfig holds Raffle deployment parameters
type RaffleConfig struct {
	EntranceFee string // accepts units, e.g. "0.01 ether"
}

// OracleConfig controls the feeds served at real network addresses.
// ServeNetworkFeeds backs every network in the chain table with a mock at the
// default answer; StaticFeeds then override individual addresses.
type OracleConfig struct {
	ServeNetworkFeeds bool
	StaticFeeds       []StaticFeedConfig
}

// StaticFeedConfig binds a mock aggregator to a real feed address
type StaticFeedConfig struct {
	Address  string
	Answer   string
	Decimals uint8
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level      string
	Format     string // json or console
	File       string // empty logs to stderr only
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// It's okay if config file is not found, we'll use environment variables
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "4000")
	v.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	v.SetDefault("Server.Mode", "release")
	v.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	v.SetDefault("MongoDB.Database", "fundme")
	v.SetDefault("Storage.Driver", "mongodb")
	v.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	v.SetDefault("Auth.ChallengeTTL", 5*60)
	v.SetDefault("Chain.ChainID", 31337) // local anvil
	v.SetDefault("FundMe.MinimumUSD", "5000000000000000000")
	v.SetDefault("Raffle.EntranceFee", "0.01 ether")
	v.SetDefault("Oracle.ServeNetworkFeeds", true)
	v.SetDefault("Log.Level", "info")
	v.SetDefault("Log.Format", "json")
	v.SetDefault("Log.MaxSizeMB", 100)
	v.SetDefault("Log.MaxBackups", 5)
	v.SetDefault("Log.MaxAgeDays", 30)
}
