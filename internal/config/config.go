package config

import (
	"github.com/spf13/viper"
)

// Config holds the configuration for the application.
type Config struct {
	DB struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"db"`
	Generator struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"generator"`
	Publisher struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"publisher"`
	Pipeline struct {
		MinRelevance float64 `mapstructure:"min_relevance"`
		MinCoeff     float64 `mapstructure:"min_coefficient"`
		DefaultLimit int     `mapstructure:"default_limit"`
		RunTimeoutS  int     `mapstructure:"run_timeout_seconds"`
	} `mapstructure:"pipeline"`
	TLS struct {
		Enable    bool     `mapstructure:"enable"`
		CertFile  string   `mapstructure:"cert_file"`
		KeyFile   string   `mapstructure:"key_file"`
		Hostnames []string `mapstructure:"hostnames"`
	} `mapstructure:"tls"`
}

// LoadConfig loads the configuration from a file and the environment.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", 5432)
	viper.SetDefault("db.sslmode", "disable")
	viper.SetDefault("pipeline.default_limit", 10)
	viper.SetDefault("pipeline.run_timeout_seconds", 300)

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine; env and defaults cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
