package docstore

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirestoreCreateAgainstEmulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "feeling-mindful-test")
	require.NoError(t, err)
	store := NewFirestore(client)
	defer store.Close()

	id, err := store.Create(ctx, "beta-testers", Document{
		"name":      "Ada",
		"invited":   false,
		"userId":    nil,
		"createdAt": ServerTimestamp,
	})
	require.NoError(t, err)

	snap, err := client.Collection("beta-testers").Doc(id).Get(ctx)
	require.NoError(t, err)
	data := snap.Data()
	assert.Equal(t, "Ada", data["name"])
	assert.Equal(t, false, data["invited"])
	assert.Nil(t, data["userId"])
	assert.NotNil(t, data["createdAt"])
}

func TestFirestoreRejectsInvalidCollection(t *testing.T) {
	store := NewFirestore(nil)
	_, err := store.Create(context.Background(), "a/b", Document{})
	assert.ErrorIs(t, err, ErrInvalidCollection)
}
