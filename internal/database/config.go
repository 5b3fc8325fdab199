package database

import "fmt"

// Config holds database connection settings.
type Config struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// Validate reports an error when required connection settings are missing.
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	return nil
}
