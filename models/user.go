package models

import (
	"regexp"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Address struct {
	Label      string `bson:"label" json:"label"`
	Street     string `bson:"street" json:"street"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	PostalCode string `bson:"postal_code" json:"postal_code"`
	IsDefault  bool   `bson:"is_default" json:"is_default"`
}

type User struct {
	ID             string    `bson:"id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Email          string    `bson:"email" json:"email"`
	Phone          string    `bson:"phone,omitempty" json:"phone,omitempty"`
	HashedPassword string    `bson:"hashed_password" json:"-"`
	Role           Role      `bson:"role" json:"role"`
	Addresses      []Address `bson:"addresses" json:"addresses"`
	Wishlist       []string  `bson:"wishlist" json:"wishlist"`
	IsActive       bool      `bson:"is_active" json:"is_active"`
	CreatedAt      Timestamp `bson:"created_at" json:"created_at"`
	UpdatedAt      Timestamp `bson:"updated_at" json:"updated_at"`
}

var phoneRe = regexp.MustCompile(`^\+?[0-9]{10,13}$`)

// ValidPhone accepts Indian mobile numbers with or without country code.
func ValidPhone(phone string) bool {
	return phoneRe.MatchString(phone)
}

// NewUser builds an active user with a fresh id.
func NewUser(name, email, phone, hashedPassword string, role Role) User {
	now := Now()
	return User{
		ID:             uuid.New().String(),
		Name:           name,
		Email:          email,
		Phone:          phone,
		HashedPassword: hashedPassword,
		Role:           role,
		Addresses:      []Address{},
		Wishlist:       []string{},
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
