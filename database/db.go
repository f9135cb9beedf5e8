package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"collabhub/config"
	"collabhub/database/docstore"

	firebase "firebase.google.com/go/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectMongo opens and pings the MongoDB connection.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// OpenDocStore returns the document store selected by DOCSTORE_DRIVER and a
// function releasing its connections. app may be nil unless the driver is firestore.
func OpenDocStore(ctx context.Context, cfg *config.Config, app *firebase.App, logger *zap.Logger) (docstore.Store, func(), error) {
	switch strings.ToLower(cfg.DocstoreDriver) {
	case "mongo":
		client, err := ConnectMongo(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		db := client.Database(cfg.DatabaseName)
		if err := docstore.EnsureMongoIndexes(ctx, db); err != nil {
			logger.Warn("failed to create indexes", zap.Error(err))
		}
		logger.Info("Connected to MongoDB", zap.String("database", cfg.DatabaseName))
		closer := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warn("failed to disconnect MongoDB", zap.Error(err))
			}
		}
		return docstore.NewMongoStore(db), closer, nil

	case "firestore":
		if app == nil {
			return nil, nil, fmt.Errorf("firestore driver requires a firebase app")
		}
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create firestore client: %w", err)
		}
		logger.Info("Connected to Firestore")
		closer := func() {
			if err := client.Close(); err != nil {
				logger.Warn("failed to close Firestore client", zap.Error(err))
			}
		}
		return docstore.NewFirestoreStore(client), closer, nil

	case "memory":
		logger.Warn("Using in-memory document store; data is lost on restart")
		return docstore.NewMemoryStore(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown document store driver %q", cfg.DocstoreDriver)
}
