package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	authed := r.Group("", RequireAuth(testKey, testIssuer))
	authed.GET("/any", func(c *gin.Context) { c.Status(http.StatusOK) })
	authed.GET("/teacher", TeacherOnly(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func do(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthMissingToken(t *testing.T) {
	r := newTestRouter()
	if w := do(r, "/any", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	r := newTestRouter()
	if w := do(r, "/any", "not-a-jwt"); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuthValidToken(t *testing.T) {
	r := newTestRouter()
	claims := Claims{UserType: UserTypeParent}
	claims.Subject = "student-1"
	token, _, _ := Issue(claims, testIssuer, testKey, time.Hour)
	if w := do(r, "/any", token); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestTeacherOnlyRejectsParent(t *testing.T) {
	r := newTestRouter()
	claims := Claims{UserType: UserTypeParent}
	claims.Subject = "student-1"
	token, _, _ := Issue(claims, testIssuer, testKey, time.Hour)
	if w := do(r, "/teacher", token); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestTeacherOnlyAllowsTeacher(t *testing.T) {
	r := newTestRouter()
	claims := Claims{Username: "pedro", Role: "teacher", UserType: UserTypeTeacher}
	claims.Subject = "account-1"
	token, _, _ := Issue(claims, testIssuer, testKey, time.Hour)
	if w := do(r, "/teacher", token); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
