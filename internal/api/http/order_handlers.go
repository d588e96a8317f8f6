package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"golden-samovar/internal/domain"
	"golden-samovar/internal/repository"
	"golden-samovar/internal/service"
)

// @Summary Place an order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.CreateOrderInput true "Order"
// @Success 201 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Router /orders [post]
func (s *Server) createOrder(c *gin.Context) {
	var in service.CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p := principalFrom(c)
	order, err := s.orderService.Create(c.Request.Context(), p.UserID, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// @Summary Current user's orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {array} domain.Order
// @Router /orders/my [get]
func (s *Server) listMyOrders(c *gin.Context) {
	p := principalFrom(c)
	orders, err := s.orderService.ListMine(c.Request.Context(), p.UserID, domain.OrderStatus(c.Query("status")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// @Summary All orders (staff)
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param date query string false "Creation date YYYY-MM-DD"
// @Param userId query int false "Filter by user"
// @Success 200 {array} domain.Order
// @Failure 403 {object} map[string]string
// @Router /orders [get]
func (s *Server) listAllOrders(c *gin.Context) {
	userID, _ := strconv.ParseInt(c.Query("userId"), 10, 64)
	f := repository.OrderFilter{
		Status: domain.OrderStatus(c.Query("status")),
		Date:   c.Query("date"),
		UserID: userID,
	}
	orders, err := s.orderService.ListAll(c.Request.Context(), principalFrom(c), f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// @Summary Get one order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (s *Server) getOrder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	order, err := s.orderService.Get(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type updateOrderStatusReq struct {
	Status domain.OrderStatus `json:"status"`
}

// @Summary Advance order status (staff)
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param input body updateOrderStatusReq true "Next status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id}/status [patch]
func (s *Server) updateOrderStatus(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req updateOrderStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	order, err := s.orderService.UpdateStatus(c.Request.Context(), principalFrom(c), id, req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// @Summary Cancel an order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /orders/{id}/cancel [post]
func (s *Server) cancelOrder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	order, err := s.orderService.Cancel(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
