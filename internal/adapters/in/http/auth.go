package http

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const actorContextKey = "actor"

// Claims carries the acting identity: Subject is the actor id, Role one of
// ADMIN, COURIER or SYSTEM. Couriers use their courier id as subject.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ParseActor validates an HS256 token and returns the actor it names.
func ParseActor(tokenString string, secret []byte) (kernel.Actor, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return kernel.Actor{}, errors.Join(errUnauthorized, err)
	}
	if !token.Valid {
		return kernel.Actor{}, errUnauthorized
	}

	role, err := kernel.ParseRole(claims.Role)
	if err != nil {
		return kernel.Actor{}, errors.Join(errUnauthorized, err)
	}
	actor, err := kernel.NewActor(role, claims.Subject)
	if err != nil {
		return kernel.Actor{}, errors.Join(errUnauthorized, err)
	}
	return actor, nil
}

// authenticate resolves the bearer token into the request's actor.
func (s *Server) authenticate(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: errUnauthorized.Error(),
				})
			}

			actor, err := ParseActor(tokenString, secret)
			if err != nil {
				s.logger.DebugContext(c.Request().Context(), "rejected bearer token", "error", err)
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: errUnauthorized.Error(),
				})
			}

			c.Set(actorContextKey, actor)
			return next(c)
		}
	}
}

// requireRole lets through only the listed roles.
func requireRole(roles ...kernel.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := actorFrom(c)
			if !ok || !slices.Contains(roles, actor.Role()) {
				return c.JSON(http.StatusForbidden, ErrorResponse{
					Code:    http.StatusForbidden,
					Message: errForbidden.Error(),
				})
			}
			return next(c)
		}
	}
}

func actorFrom(c echo.Context) (kernel.Actor, bool) {
	actor, ok := c.Get(actorContextKey).(kernel.Actor)
	return actor, ok
}

// mustActor returns the authenticated actor; routes without the auth
// middleware get errUnauthorized.
func mustActor(c echo.Context) (kernel.Actor, error) {
	actor, ok := actorFrom(c)
	if !ok {
		return kernel.Actor{}, errUnauthorized
	}
	return actor, nil
}

// allowSelfOrRoles admits couriers acting on their own record and any of roles.
func allowSelfOrRoles(actor kernel.Actor, courierID kernel.UUID, roles ...kernel.Role) error {
	if actor.IsCourierWithID(courierID) || slices.Contains(roles, actor.Role()) {
		return nil
	}
	return errForbidden
}
