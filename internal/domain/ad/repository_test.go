package ad

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRepository_MalformedIDSkipsDatabase(t *testing.T) {
	db := setupTestDB(t)
	issued := errors.New("statement reached the database")
	reject := func(tx *gorm.DB) { tx.AddError(issued) }
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("test:reject_query", reject))
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:reject_update", reject))
	require.NoError(t, db.Callback().Delete().Before("gorm:delete").Register("test:reject_delete", reject))

	repo := NewRepository(db)
	ctx := context.Background()
	for _, id := range []string{"x", "nope", "not-a-uuid", "{6ba7b810-9dad-11d1-80b4-00c04fd430c8}"} {
		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, ErrAdNotFound, "get %q", id)
		assert.ErrorIs(t, repo.Update(ctx, id, map[string]any{"title": "x"}), ErrAdNotFound, "update %q", id)
		assert.ErrorIs(t, repo.Delete(ctx, id), ErrAdNotFound, "delete %q", id)

		rows, err := repo.Events(ctx, id, nil)
		require.NoError(t, err, "events %q", id)
		assert.Empty(t, rows)
	}

	_, err := repo.GetByID(ctx, "6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	assert.ErrorIs(t, err, issued)
}
