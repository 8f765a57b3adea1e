package database

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"ruble-bot/internal/database/models"
)

var (
	_ UserActionLogger = (*MongoLogger)(nil)
	_ UserRepository   = (*MongoLogger)(nil)
	_ UserActionLogger = NoopLogger{}
	_ UserRepository   = NoopLogger{}
)

func TestNoopLogger(t *testing.T) {
	var l NoopLogger
	assert.NoError(t, l.LogUserAction(1, "command_start", nil))
	assert.NoError(t, l.UpdateUser(context.Background(), 1, "u", "f", "l", false, "command_start"))
}

func TestMongoLogger(t *testing.T) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set")
	}
	ctx := context.Background()

	client, db, err := ConnectDB(ctx, uri, "ruble_bot_test")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	l := NewMongoLogger(db)
	require.NoError(t, l.UpdateUser(ctx, 10, "alice", "Alice", "", false, "command_start"))
	require.NoError(t, l.UpdateUser(ctx, 10, "alice", "Alice", "", false, "feedback_requested"))
	require.NoError(t, l.LogUserAction(10, "feedback_requested", map[string]interface{}{"chat_id": int64(10)}))

	var user models.User
	require.NoError(t, db.Collection(usersCollection).FindOne(ctx, bson.M{"user_id": 10}).Decode(&user))
	assert.Equal(t, 2, user.ActionsCount)
	assert.Equal(t, "feedback_requested", user.LastAction)

	count, err := db.Collection(userActionsCollection).CountDocuments(ctx, bson.M{"user_id": 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
