package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mithaasdelights/mithaas-backend-go/middleware"
	"github.com/mithaasdelights/mithaas-backend-go/models"
	"github.com/mithaasdelights/mithaas-backend-go/utils"
)

// newTestGateway runs the payment gateway in mock mode.
func newTestGateway() *utils.PaymentGateway {
	return utils.NewPaymentGateway("", "")
}

func newEchoContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asUser(c echo.Context, userID string) {
	c.Set(middleware.CtxUserID, userID)
	c.Set(middleware.CtxRole, models.RoleUser)
}

// docOf round-trips a model through BSON so mock responses carry the same
// document shape the store would.
func docOf(tb testing.TB, v interface{}) bson.D {
	raw, err := bson.Marshal(v)
	require.NoError(tb, err)
	var doc bson.D
	require.NoError(tb, bson.Unmarshal(raw, &doc))
	return doc
}
