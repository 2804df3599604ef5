package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mithaasdelights/mithaas-backend-go/database"
	"github.com/mithaasdelights/mithaas-backend-go/models"
	"github.com/mithaasdelights/mithaas-backend-go/utils"
)

// Context keys set by the auth middlewares.
const (
	CtxUserID = "userID"
	CtxRole   = "role"
	CtxUser   = "user"
)

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func authenticate(c echo.Context) (*models.User, error) {
	token, ok := bearerToken(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}

	claims, err := utils.ValidateJWT(token)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}

	var user models.User
	err = database.DB.Collection(database.ColUsers).
		FindOne(c.Request().Context(), bson.M{"id": claims.UserID}).
		Decode(&user)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
	}
	if !user.IsActive {
		return nil, echo.NewHTTPError(http.StatusForbidden, "account is deactivated")
	}
	return &user, nil
}

// AuthMiddleware resolves the bearer credential to (user, role) and rejects
// missing/invalid tokens and deactivated accounts.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := authenticate(c)
		if err != nil {
			he := err.(*echo.HTTPError)
			return c.JSON(he.Code, map[string]interface{}{"detail": he.Message})
		}
		c.Set(CtxUserID, user.ID)
		c.Set(CtxRole, user.Role)
		c.Set(CtxUser, user)
		return next(c)
	}
}

// OptionalAuth attaches user identity when a valid token is present but lets
// anonymous requests through. Used by the chat assistant.
func OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if user, err := authenticate(c); err == nil {
			c.Set(CtxUserID, user.ID)
			c.Set(CtxRole, user.Role)
			c.Set(CtxUser, user)
		}
		return next(c)
	}
}

// RequireAdmin gates an already-authenticated route on the admin role.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, _ := c.Get(CtxRole).(models.Role)
		if role != models.RoleAdmin {
			return c.JSON(http.StatusForbidden, map[string]string{"detail": "admin access required"})
		}
		return next(c)
	}
}
