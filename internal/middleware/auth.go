package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "moneylog/internal/errors"
)

// Token purposes. A token minted for one phase of a flow cannot be used
// in another.
const (
	PurposeSession      = "session"
	PurposeRegistration = "registration"
	PurposeReset        = "reset"
)

const userIDKey = "userID"

// Claims is the JWT payload. Session tokens carry UserID; registration and
// reset tokens carry the email being verified.
type Claims struct {
	UserID  uint   `json:"user_id,omitempty"`
	Email   string `json:"email,omitempty"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// SessionChecker reports whether a user's session flag still permits the
// presented token. Login sets the flag, logout clears it.
type SessionChecker interface {
	IsSessionValid(userID uint) (bool, error)
}

// NewSessionToken mints a signed session token for a user.
func NewSessionToken(secret []byte, userID uint, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID:  userID,
		Purpose: PurposeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "moneylog-api",
			Subject:   fmt.Sprintf("%d", userID),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// NewEmailToken mints a short-lived token binding an email address to one
// phase of a registration or password-reset flow.
func NewEmailToken(secret []byte, email, purpose string, ttl time.Duration) (string, error) {
	claims := &Claims{
		Email:   email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "moneylog-api",
			Subject:   email,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken verifies a token's signature and expiry. Expired tokens map to
// ErrTokenExpired, everything else malformed to ErrTokenMalformed.
func ParseToken(secret []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.Wrap(apperrors.ErrTokenMalformed, err)
	}
	if !token.Valid {
		return nil, apperrors.ErrTokenMalformed
	}
	return claims, nil
}

// ParseEmailToken verifies a token and requires it to carry the given
// purpose, returning the bound email.
func ParseEmailToken(secret []byte, tokenString, purpose string) (string, error) {
	claims, err := ParseToken(secret, tokenString)
	if err != nil {
		return "", err
	}
	if claims.Purpose != purpose || claims.Email == "" {
		return "", apperrors.ErrTokenMalformed
	}
	return claims.Email, nil
}

// BearerEmail extracts the bearer token from the request and returns the
// email bound to it, requiring the given flow purpose.
func BearerEmail(c *gin.Context, secret []byte, purpose string) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", apperrors.ErrNoToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", apperrors.ErrTokenFormat
	}
	return ParseEmailToken(secret, parts[1], purpose)
}

// Auth verifies the bearer session token and the user's session flag, then
// stores the user ID in the request context.
func Auth(secret []byte, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, appErr := bearerClaims(c, secret)
		if appErr != nil {
			abortWithError(c, appErr)
			return
		}

		valid, err := sessions.IsSessionValid(claims.UserID)
		if err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
			return
		}
		if !valid {
			abortWithError(c, apperrors.ErrSessionRevoked)
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// OptionalAuth resolves a session token when one is presented but lets
// anonymous requests through. Used by invite acceptance, which behaves
// differently for logged-in callers.
func OptionalAuth(secret []byte, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}

		claims, appErr := bearerClaims(c, secret)
		if appErr != nil {
			abortWithError(c, appErr)
			return
		}

		valid, err := sessions.IsSessionValid(claims.UserID)
		if err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
			return
		}
		if !valid {
			abortWithError(c, apperrors.ErrSessionRevoked)
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

func bearerClaims(c *gin.Context, secret []byte) (*Claims, *apperrors.AppError) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, apperrors.ErrNoToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, apperrors.ErrTokenFormat
	}

	claims, err := ParseToken(secret, parts[1])
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.ErrTokenMalformed, err)
	}
	if claims.Purpose != PurposeSession || claims.UserID == 0 {
		return nil, apperrors.ErrTokenMalformed
	}
	return claims, nil
}

func abortWithError(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"success": 0,
		"message": appErr.Message,
		"error":   appErr.Code,
	})
}

// UserID extracts the authenticated user ID set by Auth. The boolean is
// false for anonymous requests.
func UserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	return v.(uint), true
}
