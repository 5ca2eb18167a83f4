package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/Septrum101/cfddns/common/ddns"
	"github.com/Septrum101/cfddns/helper"
)

const TokenEnv = "CLOUDFLARE_API_TOKEN"

var (
	viperOnce  sync.Once
	v          *viper.Viper
	configFile string
)

// SetConfigFile makes GetConfig read path instead of searching the default
// locations. It has no effect once GetConfig was called.
func SetConfigFile(path string) {
	configFile = path
}

func GetConfig() *viper.Viper {
	viperOnce.Do(func() {
		var err error
		if v, err = New(configFile); err != nil {
			log.Panic(err)
		}
	})

	return v
}

// New reads the config file at path, or config.yml from the default
// locations when path is empty.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/" + strings.ToLower(AppName))
		v.AddConfigPath("$HOME/." + strings.ToLower(AppName))
	}

	v.SetDefault("LogLevel", "info")
	v.SetDefault("Interval", 300)
	v.SetDefault("Timeout", 15)
	v.SetDefault("CacheFile", "cfddns_cache.yml")
	if err := v.BindEnv("DDNS.Token", TokenEnv); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return v, nil
}

// Unmarshal decodes and validates the config held by v.
func Unmarshal(v *viper.Viper) (*Config, error) {
	c := new(Config)
	if err := v.Unmarshal(c); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %d", c.Interval)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %d", c.Timeout)
	}
	if c.CacheFile == "" {
		return errors.New("cache file is empty")
	}
	if c.DDNS == nil || c.DDNS.Token == "" {
		return fmt.Errorf("cloudflare api token is empty, set DDNS.Token or %s", TokenEnv)
	}
	if c.Notify != nil && c.Notify.Enable && c.Notify.Provider == "" {
		return errors.New("notify is enabled without a provider")
	}

	seen := make(map[string]bool, len(c.Records))
	for i, r := range c.Records {
		if r == nil {
			return fmt.Errorf("record %d is empty", i)
		}
		name, err := helper.NormalizeName(r.Name)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if r.ZoneID == "" {
			return fmt.Errorf("[%s] zone id is empty", name)
		}
		if seen[name] {
			return fmt.Errorf("[%s] duplicate record", name)
		}
		seen[name] = true
		r.Name = name
	}

	return nil
}

// Targets returns the configured records.
func (c *Config) Targets() []ddns.Target {
	targets := make([]ddns.Target, 0, len(c.Records))
	for _, r := range c.Records {
		targets = append(targets, ddns.Target{Name: r.Name, ZoneID: r.ZoneID})
	}
	return targets
}

// Services returns the resolver services, empty when none are configured.
func (c *Config) Services() []string {
	if c.Resolver == nil {
		return nil
	}
	return c.Resolver.Services
}
