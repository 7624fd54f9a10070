package database

import (
	"os"

	"github.com/go-pg/pg/v10"
	_ "github.com/go-pg/pg/v10/orm"
	_ "github.com/joho/godotenv/autoload"
)

// PostgreSQLConnection opens a connection to the lobby database. Only user
// accounts and game records live there; live game state never touches it.
func PostgreSQLConnection() *pg.DB {
	addr := os.Getenv("DB_ADDR")
	if addr == "" {
		addr = "localhost:5432"
	}
	return pg.Connect(&pg.Options{
		User:     os.Getenv("DB_USER"),
		Addr:     addr,
		Password: os.Getenv("DB_PASSWORD"),
		Database: os.Getenv("DB_NAME"),
	})
}
