package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"golden-samovar/internal/domain"
	"golden-samovar/internal/repository"
)

// @Summary List users (admin)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role"
// @Success 200 {array} domain.User
// @Failure 403 {object} map[string]string
// @Router /users [get]
func (s *Server) listUsers(c *gin.Context) {
	f := repository.UserFilter{
		Role:   domain.Role(c.Query("role")),
		Search: c.Query("search"),
	}
	users, err := s.userService.List(c.Request.Context(), principalFrom(c), f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// @Summary Get one user (admin)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} domain.User
// @Failure 404 {object} map[string]string
// @Router /users/{id} [get]
func (s *Server) getUser(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	user, err := s.userService.Get(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateUserRoleReq struct {
	Role domain.Role `json:"role"`
}

// @Summary Change a user's role (admin)
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param input body updateUserRoleReq true "New role"
// @Success 200 {object} domain.User
// @Failure 400 {object} map[string]string
// @Router /users/{id}/role [patch]
func (s *Server) updateUserRole(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req updateUserRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	user, err := s.userService.UpdateRole(c.Request.Context(), principalFrom(c), id, req.Role)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary Toggle a user's active flag (admin)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} domain.User
// @Failure 400 {object} map[string]string
// @Router /users/{id}/status [patch]
func (s *Server) toggleUserStatus(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	user, err := s.userService.ToggleActive(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type grantPointsReq struct {
	Points int `json:"points"`
}

// @Summary Credit bonus points to a user (admin)
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param input body grantPointsReq true "Points to credit"
// @Success 200 {object} map[string]int
// @Failure 400 {object} map[string]string
// @Router /users/{id}/bonus-points [post]
func (s *Server) grantBonusPoints(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req grantPointsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	balance, err := s.userService.GrantBonusPoints(c.Request.Context(), principalFrom(c), id, req.Points)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bonus_points": balance})
}
