package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/mithaasdelights/mithaas-backend-go/config"
	"github.com/mithaasdelights/mithaas-backend-go/database"
	"github.com/mithaasdelights/mithaas-backend-go/models"
	"github.com/mithaasdelights/mithaas-backend-go/utils"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

// Register creates an account. The configured admin email is granted the
// admin role; everyone else starts as a regular user.
func Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || !strings.Contains(req.Email, "@") {
		return detail(c, http.StatusBadRequest, "name and a valid email are required")
	}
	if len(req.Password) < 6 {
		return detail(c, http.StatusBadRequest, "password must be at least 6 characters")
	}
	if req.Phone != "" && !models.ValidPhone(req.Phone) {
		return detail(c, http.StatusBadRequest, "invalid phone number")
	}

	ctx, cancel := dbCtx()
	defer cancel()

	if req.Phone != "" {
		n, err := database.DB.Collection(database.ColUsers).
			CountDocuments(ctx, bson.M{"phone": req.Phone})
		if err == nil && n > 0 {
			return detail(c, http.StatusBadRequest, "phone number already registered")
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to hash password")
	}

	role := models.RoleUser
	if cfg := config.Get(); cfg.AdminEmail != "" && strings.EqualFold(req.Email, cfg.AdminEmail) {
		role = models.RoleAdmin
	}

	user := models.NewUser(req.Name, req.Email, req.Phone, string(hashed), role)
	_, err = database.DB.Collection(database.ColUsers).InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return detail(c, http.StatusBadRequest, "email or phone already registered")
	}
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to create user")
	}

	token, err := utils.GenerateJWT(user.ID, user.Role)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to generate token")
	}

	log.WithField("user_id", user.ID).Info("user registered")
	return c.JSON(http.StatusCreated, authResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks credentials and issues a bearer token.
func Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid request body")
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var user models.User
	err := database.DB.Collection(database.ColUsers).
		FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(req.Email))}).
		Decode(&user)
	if err != nil {
		return detail(c, http.StatusUnauthorized, "invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)) != nil {
		return detail(c, http.StatusUnauthorized, "invalid credentials")
	}
	if !user.IsActive {
		return detail(c, http.StatusForbidden, "account is deactivated")
	}

	token, err := utils.GenerateJWT(user.ID, user.Role)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(http.StatusOK, authResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

// Me returns the authenticated user's profile.
func Me(c echo.Context) error {
	return c.JSON(http.StatusOK, currentUser(c))
}

type profileUpdateRequest struct {
	Name      string           `json:"name"`
	Phone     string           `json:"phone"`
	Addresses []models.Address `json:"addresses"`
}

// UpdateProfile changes name, phone and addresses. Email and role are fixed.
func UpdateProfile(c echo.Context) error {
	var req profileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return detail(c, http.StatusBadRequest, "name is required")
	}
	if req.Phone != "" && !models.ValidPhone(req.Phone) {
		return detail(c, http.StatusBadRequest, "invalid phone number")
	}
	if req.Addresses == nil {
		req.Addresses = []models.Address{}
	}

	ctx, cancel := dbCtx()
	defer cancel()

	userID := currentUserID(c)
	if req.Phone != "" {
		n, err := database.DB.Collection(database.ColUsers).
			CountDocuments(ctx, bson.M{"phone": req.Phone, "id": bson.M{"$ne": userID}})
		if err == nil && n > 0 {
			return detail(c, http.StatusBadRequest, "phone number already registered")
		}
	}

	var updated models.User
	err := database.DB.Collection(database.ColUsers).FindOneAndUpdate(
		ctx,
		bson.M{"id": userID},
		bson.M{"$set": bson.M{
			"name":       req.Name,
			"phone":      req.Phone,
			"addresses":  req.Addresses,
			"updated_at": models.Now(),
		}},
		mongoReturnAfter(),
	).Decode(&updated)
	if mongo.IsDuplicateKeyError(err) {
		return detail(c, http.StatusBadRequest, "phone number already registered")
	}
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to update profile")
	}
	return c.JSON(http.StatusOK, updated)
}
