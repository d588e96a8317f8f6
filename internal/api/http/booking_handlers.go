package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"golden-samovar/internal/domain"
	"golden-samovar/internal/repository"
	"golden-samovar/internal/service"
)

// @Summary Book a table
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.CreateBookingInput true "Booking"
// @Success 201 {object} domain.TableBooking
// @Failure 400 {object} map[string]string
// @Router /bookings [post]
func (s *Server) createBooking(c *gin.Context) {
	var in service.CreateBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p := principalFrom(c)
	booking, err := s.bookingService.Create(c.Request.Context(), p.UserID, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// @Summary Current user's bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {array} domain.TableBooking
// @Router /bookings/my [get]
func (s *Server) listMyBookings(c *gin.Context) {
	p := principalFrom(c)
	bookings, err := s.bookingService.ListMine(c.Request.Context(), p.UserID, domain.BookingStatus(c.Query("status")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// @Summary All bookings (staff)
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param date query string false "Booking date YYYY-MM-DD"
// @Param status query string false "Filter by status"
// @Success 200 {array} domain.TableBooking
// @Failure 403 {object} map[string]string
// @Router /bookings [get]
func (s *Server) listAllBookings(c *gin.Context) {
	f := repository.BookingFilter{
		Status: domain.BookingStatus(c.Query("status")),
		Date:   c.Query("date"),
	}
	bookings, err := s.bookingService.ListAll(c.Request.Context(), principalFrom(c), f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// @Summary Free half-hour slots for a date
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param date query string true "Date YYYY-MM-DD"
// @Success 200 {array} string
// @Failure 400 {object} map[string]string
// @Router /bookings/available-times [get]
func (s *Server) availableTimes(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}
	times, err := s.bookingService.AvailableTimes(c.Request.Context(), date)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, times)
}

// @Summary Get one booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {object} domain.TableBooking
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (s *Server) getBooking(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	booking, err := s.bookingService.Get(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

type updateBookingStatusReq struct {
	Status      domain.BookingStatus `json:"status"`
	TableNumber string               `json:"table_number,omitempty"`
}

// @Summary Update booking status (staff)
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Param input body updateBookingStatusReq true "Next status"
// @Success 200 {object} domain.TableBooking
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id}/status [patch]
func (s *Server) updateBookingStatus(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req updateBookingStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	booking, err := s.bookingService.UpdateStatus(c.Request.Context(), principalFrom(c), id, req.Status, req.TableNumber)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// @Summary Cancel a booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {object} domain.TableBooking
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /bookings/{id}/cancel [post]
func (s *Server) cancelBooking(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	booking, err := s.bookingService.Cancel(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
