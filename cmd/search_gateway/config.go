package main

import (
	"errors"
	"os"

	"github.com/openimpact/search-gateway/pkg/config/env"
)

const defaultSourcesPath = "configs/sources.yaml"

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type GatewayConfig struct {
	DatabaseURL string
	SourcesPath string
}

func (ac *AppConfig) Load() (*GatewayConfig, error) {
	// missing .env outside local mode is fine, the environment may already
	// carry everything
	_ = env.LoadDotEnv(ac.ENV, "cmd/search_gateway/.env")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	sourcesPath := os.Getenv("SOURCES_PATH")
	if sourcesPath == "" {
		sourcesPath = defaultSourcesPath
	}

	return &GatewayConfig{
		DatabaseURL: dbURL,
		SourcesPath: sourcesPath,
	}, nil
}
