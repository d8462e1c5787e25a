package jwt

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims access token del proveedor de identidad: claims estándar más email y las
// dos bolsas de metadata. app_metadata solo la escribe el proveedor (service key),
// por eso es la que lleva las pistas de rol.
type Claims struct {
	jwt.RegisteredClaims
	Email        string         `json:"email"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// FullName nombre visible tomado de user_metadata.full_name.
func (c *Claims) FullName() string {
	if c == nil || c.UserMetadata == nil {
		return ""
	}
	s, _ := c.UserMetadata["full_name"].(string)
	return strings.TrimSpace(s)
}

// TokenSpec datos para emitir un token (desarrollo y tests).
type TokenSpec struct {
	Subject      string
	Email        string
	Issuer       string
	AppMetadata  map[string]any
	UserMetadata map[string]any
	ExpMinutes   int
}

// Generate firma un token HS256 con el mismo formato que emite el proveedor.
func Generate(secret string, spec TokenSpec) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    spec.Issuer,
			Subject:   spec.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(spec.ExpMinutes) * time.Minute)),
		},
		Email:        spec.Email,
		AppMetadata:  spec.AppMetadata,
		UserMetadata: spec.UserMetadata,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma, expiración y (si se indica) el emisor, y devuelve los claims.
func Parse(secret, issuer, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("claims inválidos: sub vacío")
	}
	return claims, nil
}
