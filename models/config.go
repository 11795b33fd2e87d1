package models

import "time"

// Config holds all configuration for the application
type Config struct {
	// Application
	AppName    string `mapstructure:"app_name"`
	AppVersion string `mapstructure:"app_version"`
	AppEnv     string `mapstructure:"app_env"`
	AppHost    string `mapstructure:"app_host"`
	AppPort    string `mapstructure:"app_port"`

	// JWT
	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTExpiresIn time.Duration `mapstructure:"jwt_expires_in"`

	// Database
	DatabaseDriver     string `mapstructure:"database_driver"`
	DatabaseDataSource string `mapstructure:"database_data_source"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// CORS
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Base Path
	BasePath string `mapstructure:"basePath"`

	// Validation
	RequireEnterpriseLists bool `mapstructure:"require_enterprise_lists"`

	// Workers
	ExpirySweepSchedule string `mapstructure:"expiry_sweep_schedule"`

	// Wizard sessions kept in memory
	WizardSessionCapacity int `mapstructure:"wizard_session_capacity"`
}
