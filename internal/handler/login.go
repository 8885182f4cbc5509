package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catechism/internal/auth"
	"catechism/internal/metrics"
)

type loginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	UserType    string      `json:"user_type"`
	UserInfo    interface{} `json:"user_info"`
}

// TeacherLogin handles POST /api/auth/teacher-login.
func (h *Handler) TeacherLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		metrics.Logins.WithLabelValues(auth.UserTypeTeacher, "failure").Inc()
		abortErr(c, err)
		return
	}

	claims := auth.Claims{Username: account.Username, Role: account.Role, UserType: auth.UserTypeTeacher}
	claims.Subject = account.ID
	token, _, err := auth.Issue(claims, h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.AccessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}

	metrics.Logins.WithLabelValues(auth.UserTypeTeacher, "success").Inc()
	c.JSON(http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserType:    auth.UserTypeTeacher,
		UserInfo:    account,
	})
}

// ParentLogin handles POST /api/auth/parent-login. The phone/password pair
// resolves to exactly one student.
func (h *Handler) ParentLogin(c *gin.Context) {
	var req struct {
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	student, err := h.students.AuthenticateParent(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		metrics.Logins.WithLabelValues(auth.UserTypeParent, "failure").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Số điện thoại hoặc mật khẩu không đúng"})
		return
	}

	claims := auth.Claims{Phone: req.Phone, UserType: auth.UserTypeParent}
	claims.Subject = student.ID
	token, _, err := auth.Issue(claims, h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.AccessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}

	metrics.Logins.WithLabelValues(auth.UserTypeParent, "success").Inc()
	c.JSON(http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserType:    auth.UserTypeParent,
		UserInfo: gin.H{
			"student_id":   student.ID,
			"student_name": student.Name,
			"class_name":   student.ClassName,
			"parent_name":  student.ParentName,
		},
	})
}
