package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func findIndex(indexes []mongo.IndexModel, field string) *mongo.IndexModel {
	for i, idx := range indexes {
		keys := idx.Keys.(bson.D)
		if len(keys) == 1 && keys[0].Key == field {
			return &indexes[i]
		}
	}
	return nil
}

func TestCollectionIndexes(t *testing.T) {
	idx := collectionIndexes()

	email := findIndex(idx[ColUsers], "email")
	require.NotNil(t, email)
	assert.True(t, *email.Options.Unique)

	code := findIndex(idx[ColCoupons], "code")
	require.NotNil(t, code)
	assert.True(t, *code.Options.Unique)

	cart := findIndex(idx[ColCarts], "user_id")
	require.NotNil(t, cart)
	assert.True(t, *cart.Options.Unique)
}

func TestPhoneIndexIsPartialUnique(t *testing.T) {
	phone := findIndex(collectionIndexes()[ColUsers], "phone")
	require.NotNil(t, phone)

	assert.True(t, *phone.Options.Unique)
	// Partial on non-empty phone: accounts without one must not collide.
	filter, ok := phone.Options.PartialFilterExpression.(bson.M)
	require.True(t, ok)
	assert.Equal(t, bson.M{"phone": bson.M{"$exists": true, "$gt": ""}}, filter)
}
