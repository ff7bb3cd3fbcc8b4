package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrEmptyAccessToken = errors.New("error getting SCRAPER_ACCESS_TOKEN: variable not specified or contains an empty string")
	ErrEmptySecretKey   = errors.New("error getting SCRAPER_SECRET_KEY: variable not specified or contains an empty string")
)

type Config struct {
	Port        string        // Port is the HTTP listen port.
	LogLevel    string        // LogLevel is one of: debug, info, warn, error.
	SecretKey   string        // SecretKey is an opaque signing key, accepted as-is.
	AccessToken string        // AccessToken is the bearer token required on /product.
	Marketplace string        // Marketplace is the Amazon domain to fetch from.
	FetchMode   string        // FetchMode selects the fetcher: "http" or "browser".
	Timeout     time.Duration // Timeout bounds a single page fetch.
	MaxDelay    time.Duration // MaxDelay is the upper bound of the random politeness delay.
	Proxies     []string      // Proxies is an optional rotation list of proxy URLs.
}

// MustLoad loads the configuration from environment variables and returns a Config struct.
func MustLoad() *Config {
	// Automatically binds environment variables to config keys
	viper.SetEnvPrefix("SCRAPER")
	viper.AutomaticEnv()

	// optional args
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MARKETPLACE", "www.amazon.in")
	viper.SetDefault("FETCH_MODE", "http")
	viper.SetDefault("FETCH_TIMEOUT", "30s")
	viper.SetDefault("MAX_DELAY", "2s")

	if viper.GetString("ACCESS_TOKEN") == "" {
		panic(ErrEmptyAccessToken)
	}
	if viper.GetString("SECRET_KEY") == "" {
		panic(ErrEmptySecretKey)
	}

	return &Config{
		Port:        viper.GetString("PORT"),
		LogLevel:    viper.GetString("LOG_LEVEL"),
		SecretKey:   viper.GetString("SECRET_KEY"),
		AccessToken: viper.GetString("ACCESS_TOKEN"),
		Marketplace: viper.GetString("MARKETPLACE"),
		FetchMode:   viper.GetString("FETCH_MODE"),
		Timeout:     viper.GetDuration("FETCH_TIMEOUT"),
		MaxDelay:    viper.GetDuration("MAX_DELAY"),
		Proxies:     splitProxyList(viper.GetString("PROXY_LIST")),
	}
}

// splitProxyList parses the comma-separated PROXY_LIST value, dropping
// empty entries so a trailing comma does not produce a broken proxy.
func splitProxyList(raw string) []string {
	if raw == "" {
		return nil
	}

	var proxies []string
	for _, p := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			proxies = append(proxies, trimmed)
		}
	}

	return proxies
}
