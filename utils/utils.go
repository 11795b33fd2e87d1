package utils

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"agrihire-backend/models"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// GetConfig read the configuration from environment variables or config files
func GetConfig() (*models.Config, error) {
	config, err := Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return config, nil
}

// Load initializes and returns the application configuration using Viper.
// Variables from a .env file in the working directory are exported first;
// variables already set in the environment win.
func Load() (*models.Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// Set configuration file details
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../")
	v.AddConfigPath("../../")

	// Set default values
	setDefaults(v)

	// Enable environment variable support
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		// Config file not found, continue with defaults and env vars
		fmt.Printf("Config file not found (%v), using defaults and environment variables\n", err)
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	// Handle nested JSON structure from config.json
	if v.IsSet("app") {
		// Flatten nested structure for easier mapping
		flattenNestedConfig(v)
	}

	var config models.Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Parse JWT expiration if it's a string
	if v.IsSet("jwt.expires_in") {
		expiresStr := v.GetString("jwt.expires_in")
		if expiresStr != "" {
			if expires, err := time.ParseDuration(expiresStr); err != nil {
				return nil, fmt.Errorf("invalid JWT expires_in format: %w", err)
			} else {
				config.JWTExpiresIn = expires
			}
		}
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Application defaults
	v.SetDefault("app_name", "AgriHire Backend")
	v.SetDefault("app_version", "1.0.0")
	v.SetDefault("app_env", "development")
	v.SetDefault("app_host", "0.0.0.0")
	v.SetDefault("app_port", "8081")

	// JWT defaults
	v.SetDefault("jwt_secret", defaultJWTSecret)
	v.SetDefault("jwt_expires_in", 30*time.Minute)

	// Database defaults
	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_data_source", "agrihire.db")

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	// CORS defaults
	v.SetDefault("cors_origins", []string{"*"})

	// Base Path default
	v.SetDefault("basePath", "/api/v1")

	// Validation defaults
	v.SetDefault("require_enterprise_lists", false)

	// Worker defaults
	v.SetDefault("expiry_sweep_schedule", "@every 1h")

	// Wizard defaults
	v.SetDefault("wizard_session_capacity", 1024)
}

const defaultJWTSecret = "your-super-secret-jwt-key-change-this-in-production"

// validate checks if all required configuration is provided
func validate(c *models.Config) error {
	if c.JWTSecret == defaultJWTSecret && c.AppEnv == "production" {
		return fmt.Errorf("JWT_SECRET must be set in production environment")
	}

	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
	if c.DatabaseDataSource == "" {
		return fmt.Errorf("DATABASE_DATA_SOURCE must be set")
	}

	if c.WizardSessionCapacity <= 0 {
		return fmt.Errorf("wizard_session_capacity must be positive, got %d", c.WizardSessionCapacity)
	}

	return nil
}

// flattenNestedConfig flattens the nested JSON structure to flat keys for easier mapping
func flattenNestedConfig(v *viper.Viper) {
	nested := [][2]string{
		{"app.name", "app_name"},
		{"app.version", "app_version"},
		{"app.env", "app_env"},
		{"app.host", "app_host"},
		{"app.port", "app_port"},
		{"jwt.secret", "jwt_secret"},
		{"database.driver", "database_driver"},
		{"database.data_source", "database_data_source"},
		{"logging.level", "log_level"},
		{"logging.format", "log_format"},
		{"validation.require_enterprise_lists", "require_enterprise_lists"},
		{"workers.expiry_sweep_schedule", "expiry_sweep_schedule"},
		{"wizard.session_capacity", "wizard_session_capacity"},
	}
	for _, key := range nested {
		if v.IsSet(key[0]) {
			v.Set(key[1], v.Get(key[0]))
		}
	}

	// CORS section
	if v.IsSet("cors.origins") {
		v.Set("cors_origins", v.GetStringSlice("cors.origins"))
	}
}

// PrintPrettyJSON takes any struct or map and prints it as pretty JSON
func PrintPrettyJSON(data interface{}) string {
	prettyJSON, err := json.MarshalIndent(data, "", "    ") // 4 spaces indent
	if err != nil {
		fmt.Println("Failed to generate JSON:", err)
		return ""
	}
	return string(prettyJSON)
}

// GenerateUUID returns a new UUID string
func GenerateUUID() string {
	return uuid.New().String()
}

// HashPassword hashes a plain text password using bcrypt.
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPassword compares a hashed password with a plain text password.
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
