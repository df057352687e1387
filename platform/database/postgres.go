package database

import (
	"os"

	"github.com/go-pg/pg/v10"
	_ "github.com/joho/godotenv/autoload"
)

// PostgreSQLConnection opens a connection to the accounts/results database.
// Returns nil when DB_ADDR is unset; callers treat a nil handle as
// persistence disabled.
func PostgreSQLConnection() *pg.DB {
	if os.Getenv("DB_ADDR") == "" {
		return nil
	}
	return pg.Connect(&pg.Options{
		User:     os.Getenv("DB_USER"),
		Addr:     os.Getenv("DB_ADDR"),
		Password: os.Getenv("DB_PASSWORD"),
		Database: os.Getenv("DB_NAME"),
	})
}
