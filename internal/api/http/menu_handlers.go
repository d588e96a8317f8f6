package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"golden-samovar/internal/domain"
	"golden-samovar/internal/repository"
)

// @Summary List menu categories
// @Tags menu
// @Produce json
// @Success 200 {array} domain.Category
// @Router /categories [get]
func (s *Server) listCategories(c *gin.Context) {
	categories, err := s.menuService.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// @Summary Create a category (staff)
// @Tags menu
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body domain.Category true "Category"
// @Success 201 {object} domain.Category
// @Failure 403 {object} map[string]string
// @Router /categories [post]
func (s *Server) createCategory(c *gin.Context) {
	var in domain.Category
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	category, err := s.menuService.CreateCategory(c.Request.Context(), principalFrom(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// @Summary Update a category (staff)
// @Tags menu
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param input body domain.Category true "Category"
// @Success 200 {object} domain.Category
// @Failure 404 {object} map[string]string
// @Router /categories/{id} [put]
func (s *Server) updateCategory(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var in domain.Category
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	in.ID = id
	category, err := s.menuService.UpdateCategory(c.Request.Context(), principalFrom(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// @Summary Delete a category (staff)
// @Tags menu
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /categories/{id} [delete]
func (s *Server) deleteCategory(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := s.menuService.DeleteCategory(c.Request.Context(), principalFrom(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List menu items
// @Tags menu
// @Produce json
// @Param category_id query int false "Filter by category"
// @Param available query bool false "Only available items"
// @Success 200 {array} domain.MenuItem
// @Router /menu [get]
func (s *Server) listMenuItems(c *gin.Context) {
	categoryID, _ := strconv.ParseInt(c.Query("category_id"), 10, 64)
	f := repository.MenuFilter{
		CategoryID: categoryID,
		Search:     c.Query("search"),
	}
	if v := c.Query("available"); v != "" {
		available := v == "true"
		f.Available = &available
	}
	items, err := s.menuService.ListItems(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Get one menu item
// @Tags menu
// @Produce json
// @Param id path int true "Menu item ID"
// @Success 200 {object} domain.MenuItem
// @Failure 404 {object} map[string]string
// @Router /menu/{id} [get]
func (s *Server) getMenuItem(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	item, err := s.menuService.GetItem(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// @Summary Create a menu item (staff)
// @Tags menu
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body domain.MenuItem true "Menu item"
// @Success 201 {object} domain.MenuItem
// @Failure 403 {object} map[string]string
// @Router /menu [post]
func (s *Server) createMenuItem(c *gin.Context) {
	var in domain.MenuItem
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	item, err := s.menuService.CreateItem(c.Request.Context(), principalFrom(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// @Summary Update a menu item (staff)
// @Tags menu
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Menu item ID"
// @Param input body domain.MenuItem true "Menu item"
// @Success 200 {object} domain.MenuItem
// @Failure 404 {object} map[string]string
// @Router /menu/{id} [put]
func (s *Server) updateMenuItem(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var in domain.MenuItem
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	in.ID = id
	item, err := s.menuService.UpdateItem(c.Request.Context(), principalFrom(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// @Summary Delete a menu item (staff)
// @Tags menu
// @Security BearerAuth
// @Param id path int true "Menu item ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /menu/{id} [delete]
func (s *Server) deleteMenuItem(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := s.menuService.DeleteItem(c.Request.Context(), principalFrom(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
