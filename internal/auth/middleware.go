package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// RequireAuth enforces bearer JWT tokens signed with HS256 and stashes the
// claims on the request context.
func RequireAuth(signingKey, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		claims, err := Parse(tokenStr, signingKey, issuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// TeacherOnly rejects requests whose token is not a teacher/admin token.
// Must run after RequireAuth.
func TeacherOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok || claims.UserType != UserTypeTeacher {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "teacher access required"})
			return
		}
		c.Next()
	}
}

// ClaimsFrom extracts parsed claims placed by RequireAuth.
func ClaimsFrom(c *gin.Context) (Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return Claims{}, false
	}
	claims, ok := v.(Claims)
	return claims, ok
}

// CanAccessStudent reports whether the token may read data belonging to the
// given student: any teacher, or the parent whose token subject matches.
func CanAccessStudent(claims Claims, studentID string) bool {
	if claims.UserType == UserTypeTeacher {
		return true
	}
	return claims.UserType == UserTypeParent && claims.Subject == studentID
}
