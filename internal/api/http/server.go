// Package http wires the gin engine: routes, middleware and handler glue.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"

	"golden-samovar/internal/service"
	"golden-samovar/internal/xpkg/logger"
)

type Server struct {
	engine *gin.Engine
	srv    *http.Server
	mylog  logger.Logger

	authService    *service.AuthService
	orderService   *service.OrderService
	bookingService *service.BookingService
	menuService    *service.MenuService
	userService    *service.UserService
}

func NewServer(
	authService *service.AuthService,
	orderService *service.OrderService,
	bookingService *service.BookingService,
	menuService *service.MenuService,
	userService *service.UserService,
	mylog logger.Logger,
) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestID())

	s := &Server{
		engine:         engine,
		mylog:          mylog,
		authService:    authService,
		orderService:   orderService,
		bookingService: bookingService,
		menuService:    menuService,
		userService:    userService,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := s.engine.Group("/api")

	// 5 req/s with a small burst is plenty for humans and stops credential
	// stuffing cold.
	authLimiter := newIPRateLimiter(rate.Limit(5), 10)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authLimiter.middleware(), s.register)
		authGroup.POST("/login", authLimiter.middleware(), s.login)
		authGroup.GET("/profile", s.authenticate(), s.getProfile)
		authGroup.PUT("/profile", s.authenticate(), s.updateProfile)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", s.listCategories)
		categories.POST("", s.authenticate(), s.createCategory)
		categories.PUT(":id", s.authenticate(), s.updateCategory)
		categories.DELETE(":id", s.authenticate(), s.deleteCategory)
	}

	menu := api.Group("/menu")
	{
		menu.GET("", s.listMenuItems)
		menu.GET(":id", s.getMenuItem)
		menu.POST("", s.authenticate(), s.createMenuItem)
		menu.PUT(":id", s.authenticate(), s.updateMenuItem)
		menu.DELETE(":id", s.authenticate(), s.deleteMenuItem)
	}

	orders := api.Group("/orders", s.authenticate())
	{
		orders.POST("", s.createOrder)
		orders.GET("/my", s.listMyOrders)
		orders.GET("", s.listAllOrders)
		orders.GET(":id", s.getOrder)
		orders.PATCH(":id/status", s.updateOrderStatus)
		orders.POST(":id/cancel", s.cancelOrder)
	}

	bookings := api.Group("/bookings", s.authenticate())
	{
		bookings.POST("", s.createBooking)
		bookings.GET("/my", s.listMyBookings)
		bookings.GET("/available-times", s.availableTimes)
		bookings.GET("", s.listAllBookings)
		bookings.GET(":id", s.getBooking)
		bookings.PATCH(":id/status", s.updateBookingStatus)
		bookings.POST(":id/cancel", s.cancelBooking)
	}

	users := api.Group("/users", s.authenticate())
	{
		users.GET("", s.listUsers)
		users.GET(":id", s.getUser)
		users.PATCH(":id/role", s.updateUserRole)
		users.PATCH(":id/status", s.toggleUserStatus)
		users.POST(":id/bonus-points", s.grantBonusPoints)
	}
}

// Run starts listening and blocks until the server stops.
func (s *Server) Run(port int) error {
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.engine,
	}
	s.mylog.Action("server_started").With("port", port).Info("server is running")

	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the listener down gracefully.
func (s *Server) Stop(ctx context.Context, timeout time.Duration) error {
	if s.srv == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.mylog.Action("graceful_shutdown_started").Info("shutting down HTTP server")
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.mylog.Action("graceful_shutdown_completed").Info("HTTP server shut down gracefully")
	return nil
}
