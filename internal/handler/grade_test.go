package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"catechism/internal/auth"
)

// The ownership gate runs before any database access, so a handler with
// empty dependencies is enough to exercise the forbidden paths.
func testContext(t *testing.T, claims auth.Claims, studentID string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/grades/student/"+studentID, nil)
	c.Params = gin.Params{{Key: "id", Value: studentID}}
	c.Set("claims", claims)
	return c, w
}

func TestStudentGradesParentMismatchForbidden(t *testing.T) {
	claims := auth.Claims{UserType: auth.UserTypeParent}
	claims.Subject = "student-a"

	h := &Handler{}
	c, w := testContext(t, claims, "student-b")
	h.StudentGrades(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestStudentGradesMissingClaimsForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/grades/student/student-a", nil)
	c.Params = gin.Params{{Key: "id", Value: "student-a"}}

	h := &Handler{}
	h.StudentGrades(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestStudentAttendanceParentMismatchForbidden(t *testing.T) {
	claims := auth.Claims{UserType: auth.UserTypeParent}
	claims.Subject = "student-a"

	h := &Handler{}
	c, w := testContext(t, claims, "student-b")
	h.StudentAttendance(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}
