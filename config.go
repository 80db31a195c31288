package main

import (
	"log"

	"github.com/spf13/viper"
)

// Config carries everything read from .env / the environment.
type Config struct {
	Port        string
	DBDSN       string
	AutoMigrate bool
	DataDir     string // per-user inventory JSON files
	UploadDir   string // raw label images
	JWTSecret   string
	LLMBaseURL  string
	LLMModel    string
}

func loadConfig() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8081")
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("LLM_BASE_URL", "http://localhost:11434")
	viper.SetDefault("LLM_MODEL", "llama3")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("config: no .env file (%v), using environment only", err)
	}

	secret := viper.GetString("JWT_SECRET")
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}

	return &Config{
		Port:        viper.GetString("PORT"),
		DBDSN:       viper.GetString("DB_DSN"),
		AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		DataDir:     viper.GetString("DATA_DIR"),
		UploadDir:   viper.GetString("UPLOAD_DIR"),
		JWTSecret:   secret,
		LLMBaseURL:  viper.GetString("LLM_BASE_URL"),
		LLMModel:    viper.GetString("LLM_MODEL"),
	}
}
