// Package config loads and validates application configuration.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"   validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth"       validate:"required"`
	Curriculum CurriculumConfig `mapstructure:"curriculum" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeHours is the session token lifetime for a normal login.
	TokenLifetimeHours int `mapstructure:"token_lifetime_hours" validate:"required,gt=0"`

	// RememberMeLifetimeHours is the session token lifetime when the
	// client asks to be remembered.
	RememberMeLifetimeHours int `mapstructure:"remember_me_lifetime_hours" validate:"required,gt=0"`
}

// CurriculumConfig contains curriculum-related settings.
type CurriculumConfig struct {
	// DefaultSlug is the curriculum whose progress is seeded for every new
	// account at registration.
	DefaultSlug string `mapstructure:"default_slug" validate:"required"`
}
