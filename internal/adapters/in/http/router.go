package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"dispatch/api"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/metrics"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RouterConfig carries what the router needs besides the handlers.
type RouterConfig struct {
	JWTSecret []byte
	Doc       *openapi3.T
}

// NewRouter mounts the API, health, metrics and swagger routes.
func NewRouter(s *Server, cfg RouterConfig) (*echo.Echo, error) {
	if len(cfg.JWTSecret) == 0 {
		return nil, errors.New("jwt secret is required")
	}
	if cfg.Doc == nil {
		return nil, errors.New("openapi document is required")
	}

	validator, err := s.validateRequests(cfg.Doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(s.requestLogger())
	e.Use(instrument())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	if err = api.RegisterSwagger(cfg.Doc); err != nil {
		return nil, err
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/api/v1", s.authenticate(cfg.JWTSecret), validator)

	admin := requireRole(kernel.RoleAdmin)
	operators := requireRole(kernel.RoleAdmin, kernel.RoleSystem)

	v1.POST("/quotes", s.GetQuote)

	v1.GET("/orders", s.ListOrders, operators)
	v1.POST("/orders", s.CreateOrder, operators)
	v1.GET("/orders/:orderId", s.GetOrder)
	v1.POST("/orders/:orderId/transitions", s.ChangeOrderStatus)
	v1.POST("/orders/:orderId/assignment", s.AssignCourier, operators)
	v1.POST("/orders/:orderId/proofs", s.AttachProof)
	v1.POST("/orders/:orderId/cod/collect", s.CollectOrderCOD, admin)
	v1.POST("/orders/:orderId/cash-advance/reimburse", s.ReimburseCashAdvance, admin)

	v1.GET("/couriers", s.GetCouriers, operators)
	v1.POST("/couriers", s.CreateCourier, admin)
	v1.PUT("/couriers/:courierId/availability", s.UpdateCourierAvailability)
	v1.PUT("/couriers/:courierId/location", s.UpdateCourierLocation)
	v1.GET("/couriers/:courierId/balance", s.GetCourierBalance)
	v1.POST("/couriers/:courierId/cod/collect", s.CollectCourierCOD, admin)

	return e, nil
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				s.logger.WarnContext(c.Request().Context(), "request", append(attrs, "error", v.Error)...)
				return nil
			}
			s.logger.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	})
}

// instrument records request counts and latency per route template.
func instrument() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			var httpErr *echo.HTTPError
			if err != nil && errors.As(err, &httpErr) {
				status = httpErr.Code
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.HTTPRequestsTotal.WithLabelValues(route, c.Request().Method, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(route, c.Request().Method).
				Observe(time.Since(start).Seconds())

			return err
		}
	}
}
