package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	client *mongo.Client

	// DB is the database handle shared by all handlers.
	DB *mongo.Database
)

// Collection names. One collection per entity; the entity id is the only key.
const (
	ColProducts     = "products"
	ColCarts        = "carts"
	ColCoupons      = "coupons"
	ColOrders       = "orders"
	ColReviews      = "reviews"
	ColUsers        = "users"
	ColBanners      = "banners"
	ColBulkOrders   = "bulk_orders"
	ColMedia        = "media"
	ColChatMessages = "chat_messages"
)

// ConnectDB dials MongoDB and prepares the indexes the service relies on.
func ConnectDB(mongoURL, dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return errors.Wrap(err, "connect to mongodb")
	}
	if err := c.Ping(ctx, nil); err != nil {
		return errors.Wrap(err, "ping mongodb")
	}

	client = c
	DB = c.Database(dbName)
	if err := ensureIndexes(ctx); err != nil {
		return err
	}

	log.WithField("db", dbName).Info("connected to MongoDB")
	return nil
}

// Disconnect closes the client. Used on shutdown.
func Disconnect(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// collectionIndexes declares the uniqueness constraints the engines rely
// on: user email, coupon code, one cart per user, and user phone when one
// is set (partial, so phoneless accounts do not collide).
func collectionIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		ColUsers: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "phone", Value: 1}},
				Options: options.Index().SetUnique(true).
					SetPartialFilterExpression(bson.M{"phone": bson.M{"$exists": true, "$gt": ""}}),
			},
		},
		ColCoupons: {
			{
				Keys:    bson.D{{Key: "code", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		ColCarts: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}
}

func ensureIndexes(ctx context.Context) error {
	for col, indexes := range collectionIndexes() {
		if _, err := DB.Collection(col).Indexes().CreateMany(ctx, indexes); err != nil {
			return errors.Wrapf(err, "create %s indexes", col)
		}
	}
	return nil
}

// WithTransaction runs fn inside a multi-document transaction. The order
// engine uses this to keep coupon consumption and order insertion atomic.
// Falls back to plain execution when the deployment has no replica set
// (standalone mongod rejects transactions).
func WithTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := client.StartSession()
	if err != nil {
		return errors.Wrap(err, "start session")
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if cmdErr, ok := errors.Cause(err).(mongo.CommandError); ok && cmdErr.Code == 20 {
		// "Transaction numbers are only allowed on a replica set member"
		return fn(mongo.NewSessionContext(ctx, session))
	}
	return err
}
