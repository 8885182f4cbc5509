package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catechism/internal/accounts"
)

type createTeacherRequest struct {
	Username string   `json:"username" binding:"required"`
	Password string   `json:"password" binding:"required"`
	Name     string   `json:"name" binding:"required"`
	Role     string   `json:"role"`
	Classes  []string `json:"classes"`
}

// CreateTeacher handles POST /api/teachers (teacher only): registers a new
// staff account with a bcrypt-hashed password.
func (h *Handler) CreateTeacher(c *gin.Context) {
	var req createTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Role != "" && !accounts.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be teacher, coordinator or admin"})
		return
	}

	account, err := h.accounts.Create(c.Request.Context(), accounts.UserAccount{
		Username: req.Username,
		Name:     req.Name,
		Role:     req.Role,
		Classes:  req.Classes,
	}, req.Password)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

// ListTeachers handles GET /api/teachers (teacher only).
func (h *Handler) ListTeachers(c *gin.Context) {
	list, err := h.accounts.List(c.Request.Context())
	if err != nil {
		abortErr(c, err)
		return
	}
	if list == nil {
		list = []accounts.UserAccount{}
	}
	c.JSON(http.StatusOK, list)
}

// GetTeacher handles GET /api/teachers/:id (teacher only).
func (h *Handler) GetTeacher(c *gin.Context) {
	account, err := h.accounts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}
