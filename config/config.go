package config

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	Player  PlayerConfig  `mapstructure:"player"`
	Peers   PeersConfig   `mapstructure:"peers"`
	Monitor MonitorConfig `mapstructure:"monitor"`
}

type PlayerConfig struct {
	ListenAddress  string `mapstructure:"listen_address"`
	Nickname       string `mapstructure:"nickname"`
	InitialCapital int    `mapstructure:"initial_capital"`
}

type PeersConfig struct {
	ArbiterAddress string `mapstructure:"arbiter_address"`
	AdvisorAddress string `mapstructure:"advisor_address"`
}

type MonitorConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("player.listen_address", "127.0.0.1:9101")
	viper.SetDefault("player.initial_capital", 100)
	viper.SetDefault("peers.arbiter_address", "127.0.0.1:9000")
	viper.SetDefault("peers.advisor_address", "127.0.0.1:9001")
	viper.SetDefault("monitor.enabled", false)
	viper.SetDefault("monitor.address", ":2112")

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		// A missing config file is fine, the defaults above carry the client.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	err = viper.Unmarshal(&config)
	return
}
