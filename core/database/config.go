package database

// Config holds Postgres connection settings for the ping registry backend.
// The YAML/env plumbing lives in core/config; bootstrap converts its
// DatabaseConfig into this struct.
type Config struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxConnections int
}
