package config

import (
	"fmt"
)

// PostgresConfig holds configuration for PostgreSQL database connection
type PostgresConfig struct {
	User     string `env:"POSTGRES_USER,required,notEmpty"`
	Password string `env:"POSTGRES_PASSWORD,required,notEmpty"`
	Database string `env:"POSTGRES_DB,required,notEmpty"`
	Host     string `env:"POSTGRES_HOSTNAME,required,notEmpty"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
}

// LoadPostgresConfig loads PostgreSQL configuration from environment variables
func LoadPostgresConfig(environ map[string]string) (*PostgresConfig, error) {
	cfg, err := parse[PostgresConfig](environ)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConnectionString returns a PostgreSQL connection string
func (c *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Database, c.SSLMode)
}
