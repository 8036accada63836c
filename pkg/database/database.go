package database

import (
	"fmt"
	"time"

	"taskflow-backend/configs"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect membuka koneksi Postgres dengan pool terbatas.
func Connect(cfg configs.Config) (*sqlx.DB, error) {
	psqlconn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	db, err := sqlx.Open("postgres", psqlconn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
