package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User types carried in the token; every authorization check keys off this tag.
const (
	UserTypeTeacher = "teacher"
	UserTypeParent  = "parent"
)

// Claims represents the JWT payload. For teacher logins Subject is the
// account id; for parent logins Subject is the student id the parent owns.
type Claims struct {
	Username string `json:"username,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role,omitempty"`
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}

// Issue signs an access token for the given claims.
func Issue(c Claims, issuer, key string, ttl time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)
	c.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   c.Subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(key))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Parse validates a token and returns claims.
func Parse(tokenStr, key, issuer string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(key), nil
	})
	if err != nil {
		return Claims{}, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, errors.New("invalid token")
	}
	if issuer != "" && claims.Issuer != issuer {
		return Claims{}, errors.New("issuer mismatch")
	}
	if claims.UserType != UserTypeTeacher && claims.UserType != UserTypeParent {
		return Claims{}, errors.New("unknown user type")
	}
	return *claims, nil
}
