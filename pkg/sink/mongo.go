package sink

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhegg/addon-download-count-fetcher/pkg/logger"
	"github.com/jhegg/addon-download-count-fetcher/pkg/models"
)

const totalsCollection = "addon_totals"

type MongoSink struct {
	uri    string
	dbName string
}

func NewMongoSink(uri, dbName string) *MongoSink {
	return &MongoSink{uri: uri, dbName: dbName}
}

func (s *MongoSink) Name() string {
	return "mongo"
}

func (s *MongoSink) Write(ctx context.Context, total models.CompletedTotal) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.uri))
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			logger.Log.Warn().Err(err).Str("sink", s.Name()).Msg("mongo disconnect failed")
		}
	}()

	coll := client.Database(s.dbName).Collection(totalsCollection)
	if _, err := coll.InsertOne(ctx, total); err != nil {
		return fmt.Errorf("insert total: %w", err)
	}
	return nil
}
