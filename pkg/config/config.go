// Package config resolves settings from config file, environment and flags,
// in increasing order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	DataDir      string `mapstructure:"data_dir"`
	ClientsFile  string `mapstructure:"clients_file"`
	AccountsFile string `mapstructure:"accounts_file"`
	LogLevel     string `mapstructure:"log_level"`
}

// Build loads configuration. cfgFile overrides the default config.yaml
// lookup; flags, when bound, override everything. A missing config file is
// fine, the defaults stand.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("data_dir", "data")
	v.SetDefault("clients_file", "clients.csv")
	v.SetDefault("accounts_file", "accounts.csv")
	v.SetDefault("log_level", "info")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("BANKBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if f := flags.Lookup("data-dir"); f != nil {
			if err := v.BindPFlag("data_dir", f); err != nil {
				return nil, err
			}
		}
		if f := flags.Lookup("log-level"); f != nil {
			if err := v.BindPFlag("log_level", f); err != nil {
				return nil, err
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
