// Package middleware provides identity resolution for cart ownership.
package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/farmbasket/checkout-service/internal/domain/dto"
	"github.com/farmbasket/checkout-service/internal/i18n"
)

const (
	// CartSessionHeader carries the guest cart session ID.
	CartSessionHeader = "X-Cart-Session"

	// OwnerIDKey is the context key for the resolved cart owner.
	OwnerIDKey = "owner_id"
	// AuthenticatedKey is the context key for the authentication flag.
	AuthenticatedKey = "authenticated"
)

// Identity returns a middleware that resolves the cart owner for the
// request. A valid Bearer token yields an authenticated owner whose cart is
// durable; otherwise the guest session header identifies an in-process cart.
// A guest with no session header is issued one, echoed back in the response.
//
// A malformed or expired token is rejected rather than silently downgraded
// to a guest, so an authenticated buyer never mutates the wrong cart.
func Identity(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			ownerID, err := ownerFromToken(authHeader, jwtSecret)
			if err != nil {
				locale := i18n.GetLocale(c)
				message := i18n.GetTranslator().Translate(i18n.ErrKeyInvalidToken, locale)
				errorResp := dto.NewError(dto.ErrCodeUnauthorized, message).
					WithRequestID(GetRequestID(c))
				c.AbortWithStatusJSON(http.StatusUnauthorized, errorResp)
				return
			}
			c.Set(OwnerIDKey, ownerID)
			c.Set(AuthenticatedKey, true)
			c.Next()
			return
		}

		sessionID := c.GetHeader(CartSessionHeader)
		if sessionID == "" {
			sessionID = uuid.New().String()
		}
		c.Header(CartSessionHeader, sessionID)
		c.Set(OwnerIDKey, "guest:"+sessionID)
		c.Set(AuthenticatedKey, false)
		c.Next()
	}
}

func ownerFromToken(authHeader, secret string) (string, error) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", fmt.Errorf("authorization header is not a bearer token")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" {
		return "", fmt.Errorf("empty bearer token")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return "user:" + sub, nil
}

// GetOwnerID retrieves the resolved cart owner from the gin context.
func GetOwnerID(c *gin.Context) string {
	if v, exists := c.Get(OwnerIDKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// IsAuthenticated reports whether the request carried a valid token.
func IsAuthenticated(c *gin.Context) bool {
	if v, exists := c.Get(AuthenticatedKey); exists {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}
