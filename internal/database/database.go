package database

import (
	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		birthday DATE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS movies (
		id TEXT NOT NULL PRIMARY KEY,
		title TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL,
		release_year TEXT,
		genre_name TEXT,
		genre_description TEXT,
		director_name TEXT,
		director_bio TEXT,
		director_birth TEXT,
		director_death TEXT,
		image_path TEXT,
		critic_rating TEXT,
		audience_rating TEXT,
		-- Store the actor list as JSON text
		actors_json TEXT,
		featured INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS favorites (
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		movie_id TEXT NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
		PRIMARY KEY (user_id, movie_id)
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT NOT NULL PRIMARY KEY,
		type TEXT NOT NULL,
		level TEXT NOT NULL,
		message TEXT NOT NULL,
		username TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
