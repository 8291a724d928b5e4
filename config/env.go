package config

import (
	"os"

	log15 "github.com/inconshreveable/log15/v3"
	"github.com/joho/godotenv"
)

var log = log15.New("module", "config")

func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Warn(".env file not loaded")
		}
	}
}
