//go:build e2e
// +build e2e

package sink_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhegg/addon-download-count-fetcher/pkg/models"
	"github.com/jhegg/addon-download-count-fetcher/pkg/sink"
)

func TestMongoSink_E2E(t *testing.T) {
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "failed to start mongo container")

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	s, err := sink.NewStoreSink(uri, sink.StoreOptions{Timeout: 10 * time.Second, MongoDB: "addon_stats_e2e"})
	require.NoError(t, err)

	at := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	for _, count := range []int64{150, 160} {
		require.NoError(t, s.Write(ctx, models.CompletedTotal{Timestamp: at, AddonName: "GoldCounter", Count: count}))
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	defer client.Disconnect(ctx)

	coll := client.Database("addon_stats_e2e").Collection("addon_totals")
	cursor, err := coll.Find(ctx, bson.M{"name": "GoldCounter"}, options.Find().SetSort(bson.D{{Key: "count", Value: 1}}))
	require.NoError(t, err)

	var docs []models.CompletedTotal
	require.NoError(t, cursor.All(ctx, &docs))
	require.Len(t, docs, 2, "sink must append, never replace")
	assert.EqualValues(t, 150, docs[0].Count)
	assert.EqualValues(t, 160, docs[1].Count)
	assert.True(t, at.Equal(docs[0].Timestamp))
}
