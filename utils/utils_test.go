package utils

import (
	"os"
	"strings"
	"testing"
	"time"

	"agrihire-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// UtilsTestSuite defines a test suite for utils functions
type UtilsTestSuite struct {
	suite.Suite
	originalEnv map[string]string
}

var configEnvVars = []string{
	"APP_NAME", "APP_VERSION", "APP_ENV", "APP_HOST", "APP_PORT",
	"JWT_SECRET", "JWT_EXPIRES_IN",
	"DATABASE_DRIVER", "DATABASE_DATA_SOURCE",
	"LOG_LEVEL", "LOG_FORMAT",
	"CORS_ORIGINS", "BASEPATH",
	"REQUIRE_ENTERPRISE_LISTS", "EXPIRY_SWEEP_SCHEDULE", "WIZARD_SESSION_CAPACITY",
}

// SetupTest runs before each test
func (suite *UtilsTestSuite) SetupTest() {
	suite.originalEnv = make(map[string]string)
	for _, envVar := range configEnvVars {
		suite.originalEnv[envVar] = os.Getenv(envVar)
		os.Unsetenv(envVar)
	}
}

// TearDownTest runs after each test
func (suite *UtilsTestSuite) TearDownTest() {
	for envVar, value := range suite.originalEnv {
		if value != "" {
			os.Setenv(envVar, value)
		} else {
			os.Unsetenv(envVar)
		}
	}
}

func (suite *UtilsTestSuite) TestLoadDefaults() {
	config, err := Load()
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "AgriHire Backend", config.AppName)
	assert.Equal(suite.T(), "development", config.AppEnv)
	assert.Equal(suite.T(), "8081", config.AppPort)
	assert.Equal(suite.T(), 30*time.Minute, config.JWTExpiresIn)
	assert.Equal(suite.T(), "sqlite", config.DatabaseDriver)
	assert.Equal(suite.T(), "agrihire.db", config.DatabaseDataSource)
	assert.Equal(suite.T(), "/api/v1", config.BasePath)
	assert.False(suite.T(), config.RequireEnterpriseLists)
	assert.Equal(suite.T(), "@every 1h", config.ExpirySweepSchedule)
	assert.Equal(suite.T(), 1024, config.WizardSessionCapacity)
}

func (suite *UtilsTestSuite) TestGetConfigWithEnvironmentVariables() {
	os.Setenv("APP_NAME", "Test App")
	os.Setenv("APP_ENV", "production")
	os.Setenv("JWT_SECRET", "production-secret")
	os.Setenv("DATABASE_DRIVER", "postgres")
	os.Setenv("DATABASE_DATA_SOURCE", "postgres://agrihire@localhost/agrihire?sslmode=disable")
	os.Setenv("REQUIRE_ENTERPRISE_LISTS", "true")
	os.Setenv("WIZARD_SESSION_CAPACITY", "16")

	config, err := GetConfig()
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "Test App", config.AppName)
	assert.Equal(suite.T(), "production", config.AppEnv)
	assert.Equal(suite.T(), "production-secret", config.JWTSecret)
	assert.Equal(suite.T(), "postgres", config.DatabaseDriver)
	assert.True(suite.T(), config.RequireEnterpriseLists)
	assert.Equal(suite.T(), 16, config.WizardSessionCapacity)
}

func (suite *UtilsTestSuite) TestLoadWithJWTExpirationString() {
	os.Setenv("JWT_EXPIRES_IN", "24h")

	config, err := Load()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 24*time.Hour, config.JWTExpiresIn)
}

func (suite *UtilsTestSuite) TestLoadWithInvalidJWTExpiration() {
	os.Setenv("JWT_EXPIRES_IN", "invalid-duration")

	config, err := Load()
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), config)
	assert.True(suite.T(), strings.Contains(err.Error(), "invalid") || strings.Contains(err.Error(), "failed"))
}

func (suite *UtilsTestSuite) TestLoadWithProductionValidation() {
	os.Setenv("APP_ENV", "production")

	config, err := Load()
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), config)
	assert.Contains(suite.T(), err.Error(), "JWT_SECRET must be set in production environment")
}

func (suite *UtilsTestSuite) TestLoadWithUnknownDriver() {
	os.Setenv("DATABASE_DRIVER", "mysql")

	_, err := Load()
	require.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "unsupported database driver")
}

func (suite *UtilsTestSuite) TestValidate() {
	valid := models.Config{
		AppEnv:                "development",
		JWTSecret:             defaultJWTSecret,
		DatabaseDriver:        "sqlite",
		DatabaseDataSource:    "agrihire.db",
		WizardSessionCapacity: 10,
	}
	assert.NoError(suite.T(), validate(&valid))

	prod := valid
	prod.AppEnv = "production"
	assert.Error(suite.T(), validate(&prod))
	prod.JWTSecret = "production-secret"
	assert.NoError(suite.T(), validate(&prod))

	noSource := valid
	noSource.DatabaseDataSource = ""
	assert.Error(suite.T(), validate(&noSource))

	noCapacity := valid
	noCapacity.WizardSessionCapacity = 0
	assert.Error(suite.T(), validate(&noCapacity))
}

func (suite *UtilsTestSuite) TestPrintPrettyJSON() {
	out := PrintPrettyJSON(map[string]interface{}{"status": "approved"})
	assert.Equal(suite.T(), "{\n    \"status\": \"approved\"\n}", out)

	assert.Equal(suite.T(), "", PrintPrettyJSON(make(chan int)))
}

func (suite *UtilsTestSuite) TestGenerateUUID() {
	id := GenerateUUID()
	_, err := uuid.Parse(id)
	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), id, GenerateUUID())
}

func (suite *UtilsTestSuite) TestHashAndCheckPassword() {
	hash, err := HashPassword("s3cret-pass!")
	require.NoError(suite.T(), err)

	assert.NotEqual(suite.T(), "s3cret-pass!", hash)
	assert.True(suite.T(), CheckPassword(hash, "s3cret-pass!"))
	assert.False(suite.T(), CheckPassword(hash, "wrong"))
	assert.False(suite.T(), CheckPassword("not-a-hash", "s3cret-pass!"))
}

// TestUtilsTestSuite runs the utils test suite
func TestUtilsTestSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}
