package db

import (
	"os"

	log15 "github.com/inconshreveable/log15/v3"
	"github.com/oklog/ulid/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB  *gorm.DB
	log = log15.New("module", "db")
)

func Init() error {
	dsn := os.Getenv("DATABASE_URL")
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return err
	}

	if err := DB.AutoMigrate(&Account{}, &Rule{}, &Meeting{}); err != nil {
		return err
	}

	log.Info("connected to database")
	return nil
}

func newID() string {
	return ulid.Make().String()
}
