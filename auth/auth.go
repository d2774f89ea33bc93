package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"portfolio-api/config"
)

// ContextClaimsKey ist der Gin-Context-Schlüssel für die geprüften Claims.
const ContextClaimsKey = "claims"

// Claims ist der dekodierte Token-Payload des Identity-Providers.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ParseToken prüft Signatur (HS256), Ablauf und Audience eines Bearer-Tokens
// gegen das konfigurierte Secret. Jede Verletzung liefert einen Fehler, der
// von den Handlern einheitlich als 401 übersetzt wird.
func ParseToken(tokenString string, cfg *config.Config) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(t *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(cfg.JWTAudience),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// ExtractToken liest das Bearer-Token aus dem Authorization-Header.
func ExtractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// Middleware schützt Admin-Routen. Fehlende oder ungültige Tokens werden
// ohne weitere Details mit 401 abgebrochen.
func Middleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ExtractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		claims, err := ParseToken(tokenString, cfg)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Set("userID", claims.Subject)
		c.Next()
	}
}
