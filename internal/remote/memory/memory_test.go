package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/remote"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/remote/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentLifecycle(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	client := memory.New().WithClock(func() time.Time { return now })
	path := remote.UserCollection("u1", "cart")

	t.Run("Success - Add resolves server timestamps", func(t *testing.T) {
		// Act
		id, err := client.AddDocument(ctx, path, map[string]any{"productId": "P1", "addedAt": remote.ServerTimestamp})

		// Assert
		require.NoError(t, err)
		doc, err := client.GetDocument(ctx, remote.DocPath(path, id))
		require.NoError(t, err)
		assert.Equal(t, "P1", doc.Data["productId"])
		assert.Equal(t, now, doc.Data["addedAt"])
	})

	t.Run("Success - Update merges fields", func(t *testing.T) {
		// Arrange
		id, err := client.AddDocument(ctx, path, map[string]any{"productId": "P2", "quantity": 1})
		require.NoError(t, err)

		// Act
		err = client.UpdateDocument(ctx, remote.DocPath(path, id), map[string]any{"quantity": 4})

		// Assert
		require.NoError(t, err)
		doc, err := client.GetDocument(ctx, remote.DocPath(path, id))
		require.NoError(t, err)
		assert.Equal(t, "P2", doc.Data["productId"])
		assert.Equal(t, 4, doc.Data["quantity"])
	})

	t.Run("Failure - Update missing document", func(t *testing.T) {
		err := client.UpdateDocument(ctx, remote.DocPath(path, "missing"), map[string]any{"quantity": 4})

		assert.ErrorIs(t, err, remote.ErrNotFound)
	})

	t.Run("Success - Delete is idempotent", func(t *testing.T) {
		// Arrange
		id, err := client.AddDocument(ctx, path, map[string]any{"productId": "P3"})
		require.NoError(t, err)

		// Act
		require.NoError(t, client.DeleteDocument(ctx, remote.DocPath(path, id)))
		err = client.DeleteDocument(ctx, remote.DocPath(path, id))

		// Assert
		require.NoError(t, err)
		_, err = client.GetDocument(ctx, remote.DocPath(path, id))
		assert.ErrorIs(t, err, remote.ErrNotFound)
	})

	t.Run("Success - Collection keeps insertion order", func(t *testing.T) {
		docs, err := client.GetCollection(ctx, path)

		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "P1", docs[0].Data["productId"])
		assert.Equal(t, "P2", docs[1].Data["productId"])
	})

	t.Run("Success - Returned data is a copy", func(t *testing.T) {
		docs, err := client.GetCollection(ctx, path)
		require.NoError(t, err)

		docs[0].Data["productId"] = "changed"

		again, err := client.GetCollection(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "P1", again[0].Data["productId"])
	})
}

func TestQuery(t *testing.T) {
	ctx := t.Context()
	client := memory.New()
	client.Seed(remote.UniformsCollection, "a", map[string]any{"category": "shirts", "rating": 4.1, "school": "s1"})
	client.Seed(remote.UniformsCollection, "b", map[string]any{"category": "shirts", "rating": 4.8, "school": "s2"})
	client.Seed(remote.UniformsCollection, "c", map[string]any{"category": "trousers", "school": "s1"})

	t.Run("Success - Equality filter", func(t *testing.T) {
		docs, err := client.Query(ctx, remote.UniformsCollection, remote.Query{Filters: []remote.Filter{remote.Eq("school", "s1")}})

		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "a", docs[0].ID)
		assert.Equal(t, "c", docs[1].ID)
	})

	t.Run("Success - Order and limit skip documents without the field", func(t *testing.T) {
		docs, err := client.Query(ctx, remote.UniformsCollection, remote.Query{
			OrderBy: &remote.OrderBy{Field: "rating", Direction: remote.Desc},
			Limit:   4,
		})

		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "b", docs[0].ID)
		assert.Equal(t, "a", docs[1].ID)
	})

	t.Run("Failure - Cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := client.Query(cancelled, remote.UniformsCollection, remote.Query{})

		assert.ErrorIs(t, err, context.Canceled)
	})
}
