package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Claims is the token payload issued at login. Role and ProfileID together
// resolve to a Role value; profile_id is ignored for admins.
type Claims struct {
	jwt.RegisteredClaims
	Role      string `json:"role"`
	ProfileID string `json:"profile_id,omitempty"`
}

// JWTMiddleware validates HMAC bearer tokens and resolves the caller's Role
// into the request context. Role detection happens exactly once, here: domain
// code never inspects the token or guesses at profiles.
func JWTMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			role, err := resolveRole(claims)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			c.SetRequest(c.Request().WithContext(WithRole(c.Request().Context(), role)))
			return next(c)
		}
	}
}

func resolveRole(claims *Claims) (Role, error) {
	switch RoleKind(claims.Role) {
	case RoleAdmin:
		return AdminRole(), nil
	case RolePatient:
		id, err := uuid.Parse(claims.ProfileID)
		if err != nil {
			return Role{}, errors.New("patient token missing profile_id")
		}
		return PatientRole(id), nil
	case RoleDoctor:
		id, err := uuid.Parse(claims.ProfileID)
		if err != nil {
			return Role{}, errors.New("doctor token missing profile_id")
		}
		return DoctorRole(id), nil
	default:
		return Role{}, errors.New("unknown role")
	}
}

// DevAuthMiddleware grants admin access to unauthenticated requests. It also
// honors X-Debug-Role / X-Debug-Profile headers so role-scoped behavior can be
// exercised without minting tokens. Development only.
func DevAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := AdminRole()
			if kind := c.Request().Header.Get("X-Debug-Role"); kind != "" {
				if id, err := uuid.Parse(c.Request().Header.Get("X-Debug-Profile")); err == nil {
					switch RoleKind(kind) {
					case RolePatient:
						role = PatientRole(id)
					case RoleDoctor:
						role = DoctorRole(id)
					}
				}
			}
			c.SetRequest(c.Request().WithContext(WithRole(c.Request().Context(), role)))
			return next(c)
		}
	}
}

// RequireKind rejects callers whose role kind is not in the allow list.
// Admins always pass.
func RequireKind(kinds ...RoleKind) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := RoleFromContext(c.Request().Context())
			if role.IsAdmin() {
				return next(c)
			}
			for _, k := range kinds {
				if role.Kind == k {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}
	}
}
