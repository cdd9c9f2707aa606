package utils

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries everything the api-server needs. Values come from an
// optional YAML file (FILMORA_CONFIG) with environment variables taking
// precedence over the file.
type Config struct {
	Addr string `yaml:"addr"`

	// Firebase: project + service-account credentials for Firestore and
	// ID-token verification, web API key for the credential endpoints.
	FirebaseProjectID   string `yaml:"firebase_project_id"`
	FirebaseCredentials string `yaml:"firebase_credentials"`
	FirebaseAPIKey      string `yaml:"firebase_api_key"`

	// TMDB catalog API.
	TMDBBaseURL     string `yaml:"tmdb_base_url"`
	TMDBAccessToken string `yaml:"tmdb_access_token"`

	// App session tokens.
	JWTSecret   string        `yaml:"jwt_secret"`
	JWTIssuer   string        `yaml:"jwt_issuer"`
	JWTDuration time.Duration `yaml:"jwt_duration"`

	CORSOrigin string `yaml:"cors_origin"`
}

func defaults() Config {
	return Config{
		Addr:        ":8080",
		TMDBBaseURL: "https://api.themoviedb.org/3",
		JWTSecret:   "dev-secret-change-me",
		JWTIssuer:   "filmora",
		JWTDuration: 24 * time.Hour,
		CORSOrigin:  "*",
	}
}

// LoadConfig reads the optional config file, then applies env overrides.
func LoadConfig() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("FILMORA_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	overrideString(&cfg.Addr, "FILMORA_ADDR")
	overrideString(&cfg.FirebaseProjectID, "FILMORA_FIREBASE_PROJECT_ID")
	overrideString(&cfg.FirebaseCredentials, "FILMORA_FIREBASE_CREDENTIALS")
	overrideString(&cfg.FirebaseAPIKey, "FILMORA_FIREBASE_API_KEY")
	overrideString(&cfg.TMDBBaseURL, "FILMORA_TMDB_BASE_URL")
	overrideString(&cfg.TMDBAccessToken, "FILMORA_TMDB_ACCESS_TOKEN")
	overrideString(&cfg.JWTSecret, "FILMORA_JWT_SECRET")
	overrideString(&cfg.JWTIssuer, "FILMORA_JWT_ISSUER")
	overrideString(&cfg.CORSOrigin, "FILMORA_CORS_ORIGIN")

	if ttl := os.Getenv("FILMORA_JWT_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return cfg, fmt.Errorf("parse FILMORA_JWT_TTL: %w", err)
		}
		cfg.JWTDuration = d
	}

	return cfg, nil
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
