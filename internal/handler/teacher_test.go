package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// Validation runs before any database access, so an empty handler is
// enough to exercise the rejection paths.
func postTeacher(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/teachers", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h := &Handler{}
	h.CreateTeacher(c)
	return w
}

func TestCreateTeacherMissingFields(t *testing.T) {
	if w := postTeacher(t, `{"username":"pedro"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password/name, got %d", w.Code)
	}
}

func TestCreateTeacherUnknownRole(t *testing.T) {
	body := `{"username":"pedro","password":"giaoly2024","name":"Thầy Phêrô Nguyễn","role":"student"}`
	if w := postTeacher(t, body); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown role, got %d", w.Code)
	}
}
