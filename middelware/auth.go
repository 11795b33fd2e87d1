package middelware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"agrihire-backend/models"
	"agrihire-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	identityKey = "identity"
	claimsKey   = "jwt_claims"
)

// UserLookup loads the account behind a token.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// JWTManager handles JWT token operations
type JWTManager struct {
	Config            *models.Config
	Logger            logger.Logger
	Users             UserLookup
	BlacklistedTokens map[string]time.Time // token id -> expiry, for logout
	TokenMutex        sync.RWMutex
}

// NewJWTManager creates a new JWT manager. users may be nil, in which case
// tokens are trusted without checking the account.
func NewJWTManager(cfg *models.Config, log logger.Logger, users UserLookup) *JWTManager {
	return &JWTManager{
		Config:            cfg,
		Logger:            log,
		Users:             users,
		BlacklistedTokens: make(map[string]time.Time),
	}
}

// GenerateToken signs a token carrying the user's id and role. It returns
// the token and its expiry.
func (j *JWTManager) GenerateToken(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(j.Config.JWTExpiresIn)
	claims := models.JWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			Issuer:    j.Config.AppName,
			Audience:  jwt.ClaimStrings{j.Config.AppName},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.Config.JWTSecret))
	if err != nil {
		j.Logger.Errorf("Failed to sign JWT token: %v", err)
		return "", time.Time{}, err
	}

	j.Logger.Debugf("Generated JWT token for user: %s", user.ID)
	return tokenString, expiresAt, nil
}

// ValidateToken parses a token and, when a UserLookup is configured, checks
// that the account still exists, is active and holds the token's role.
func (j *JWTManager) ValidateToken(ctx context.Context, tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if method, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		} else if method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("invalid signing algorithm: %v", method.Alg())
		}
		return []byte(j.Config.JWTSecret), nil
	}, jwt.WithAudience(j.Config.AppName), jwt.WithIssuer(j.Config.AppName))
	if err != nil {
		j.Logger.Debugf("Failed to parse JWT token: %v", err)
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}

	j.TokenMutex.RLock()
	expiry, revoked := j.BlacklistedTokens[claims.ID]
	j.TokenMutex.RUnlock()
	if revoked && expiry.After(time.Now()) {
		return nil, fmt.Errorf("token has been revoked")
	}

	if j.Users != nil {
		user, err := j.Users.GetUserByID(ctx, claims.UserID)
		if err != nil {
			j.Logger.Warnf("Failed to verify token user %s: %v", claims.UserID, err)
			return nil, fmt.Errorf("user verification failed")
		}
		if !user.IsActive {
			return nil, fmt.Errorf("user account is inactive")
		}
		if user.Role != claims.Role {
			return nil, fmt.Errorf("user role has changed")
		}
	}

	return claims, nil
}

// RevokeToken blacklists a token until it would have expired anyway.
func (j *JWTManager) RevokeToken(claims *models.JWTClaims) {
	expiry := time.Now().Add(j.Config.JWTExpiresIn)
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}

	j.TokenMutex.Lock()
	defer j.TokenMutex.Unlock()
	j.BlacklistedTokens[claims.ID] = expiry
	j.Logger.Debugf("Revoked token %s for user %s", claims.ID, claims.UserID)
}

// CleanupExpiredTokens removes expired tokens from blacklist
func (j *JWTManager) CleanupExpiredTokens() {
	j.TokenMutex.Lock()
	defer j.TokenMutex.Unlock()

	now := time.Now()
	for tokenID, expiry := range j.BlacklistedTokens {
		if expiry.Before(now) {
			delete(j.BlacklistedTokens, tokenID)
		}
	}
}

func abortUnauthorized(c *gin.Context, message, details string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.APIResponse{
		Status:  "error",
		Code:    http.StatusUnauthorized,
		Message: message,
		Error: &models.APIError{
			Type:    "AuthenticationError",
			Details: details,
		},
	})
}

// AuthMiddleware requires a valid bearer token and stores the caller's
// identity on the context.
func (j *JWTManager) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Missing Authorization header", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, "Invalid Authorization header format", "Authorization header must be in format: Bearer <token>")
			return
		}

		claims, err := j.ValidateToken(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token", err.Error())
			return
		}

		c.Set(claimsKey, claims)
		c.Set(identityKey, claims.Identity())
		c.Set("user_id", claims.UserID)
		c.Next()
	}
}

// RequireRole lets the request through only for the listed account roles.
func (j *JWTManager) RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			abortUnauthorized(c, "Authentication required", "User not authenticated")
			return
		}
		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}

		j.Logger.Warnf("User %s with role %s denied, requires one of %v", identity.UserID, identity.Role, roles)
		c.AbortWithStatusJSON(http.StatusForbidden, models.APIResponse{
			Status:  "error",
			Code:    http.StatusForbidden,
			Message: "Insufficient permissions",
			Error: &models.APIError{
				Type:    "AuthorizationError",
				Details: fmt.Sprintf("Required role: one of %v", roles),
			},
		})
	}
}

// IdentityFrom returns the identity stored by AuthMiddleware.
func IdentityFrom(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	identity, ok := v.(models.Identity)
	return identity, ok
}

// ClaimsFrom returns the token claims stored by AuthMiddleware.
func ClaimsFrom(c *gin.Context) (*models.JWTClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*models.JWTClaims)
	return claims, ok
}
