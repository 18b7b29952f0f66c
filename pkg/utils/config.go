package utils

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the servers and CLI need. Values come from an
// optional artefacthub.yaml next to the binary, overridden by environment
// variables with the ARTEFACTHUB_ prefix (e.g. ARTEFACTHUB_EUROPEANA_API_KEY).
type Config struct {
	ListenAddr string
	DBPath     string

	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration

	EuropeanaAPIKey      string
	DigitaltMuseumAPIKey string
	SOCHAPIKey           string
	AllowExperimental    bool
}

func Load() Config {
	v := viper.New()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("db_path", "")
	v.SetDefault("jwt.secret", "dev-secret-change-me")
	v.SetDefault("jwt.issuer", "artefacthub")
	v.SetDefault("jwt.ttl_hours", 24)
	v.SetDefault("europeana.api_key", "")
	v.SetDefault("digitaltmuseum.api_key", "demo")
	v.SetDefault("soch.api_key", "demo")
	v.SetDefault("search.allow_experimental", false)

	v.SetConfigName("artefacthub")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.artefacthub")

	v.SetEnvPrefix("ARTEFACTHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("[config] read config file: %v", err)
		}
	}

	ttl := v.GetInt("jwt.ttl_hours")
	if ttl <= 0 {
		ttl = 24
	}

	return Config{
		ListenAddr:           v.GetString("listen_addr"),
		DBPath:               v.GetString("db_path"),
		JWTSecret:            v.GetString("jwt.secret"),
		JWTIssuer:            v.GetString("jwt.issuer"),
		JWTDuration:          time.Duration(ttl) * time.Hour,
		EuropeanaAPIKey:      v.GetString("europeana.api_key"),
		DigitaltMuseumAPIKey: v.GetString("digitaltmuseum.api_key"),
		SOCHAPIKey:           v.GetString("soch.api_key"),
		AllowExperimental:    v.GetBool("search.allow_experimental"),
	}
}
