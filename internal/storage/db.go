package storage

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

type DB struct {
	connection *sql.DB
}

func NewDB(dataSourceName string) (*DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, eris.Wrap(err, "open database")
	}

	// Connection pool tuning
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, eris.Wrap(err, "ping database")
	}

	return &DB{connection: db}, nil
}

func (db *DB) Close() {
	if err := db.connection.Close(); err != nil {
		zap.L().Error("closing database connection", zap.Error(err))
	}
}

// GetConnection returns the underlying database connection for maintenance tooling.
func (db *DB) GetConnection() *sql.DB {
	return db.connection
}
