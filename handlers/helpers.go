package handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mithaasdelights/mithaas-backend-go/middleware"
	"github.com/mithaasdelights/mithaas-backend-go/models"
	"github.com/mithaasdelights/mithaas-backend-go/utils"
)

// Gateway is the payment collaborator, set once at startup.
var Gateway *utils.PaymentGateway

// cartLocks serialises cart operations per user.
var cartLocks = utils.NewKeyedMutex()

const dbTimeout = 10 * time.Second

func dbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

// detail writes the uniform failure body.
func detail(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"detail": msg})
}

func currentUserID(c echo.Context) string {
	id, _ := c.Get(middleware.CtxUserID).(string)
	return id
}

func currentUser(c echo.Context) *models.User {
	u, _ := c.Get(middleware.CtxUser).(*models.User)
	return u
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get(middleware.CtxRole).(models.Role)
	return role == models.RoleAdmin
}

// mongoReturnAfter asks FindOneAndUpdate for the post-update document.
func mongoReturnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
