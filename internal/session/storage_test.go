package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetsplit/domain/sheet"
	"sheetsplit/internal/errors"
)

func sampleDownloads() []sheet.Download {
	return []sheet.Download{
		{Name: "1.xlsx", ContentType: sheet.XLSXContentType, Data: []byte("one"), Rows: 7},
		{Name: "2.xlsx", ContentType: sheet.XLSXContentType, Data: []byte("two"), Rows: 6},
	}
}

func TestPutAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	id, expires, err := store.Put(ctx, sampleDownloads())
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expires, 5*time.Second)
	assert.Equal(t, 1, store.Len())

	dl, err := store.Get(ctx, id, "2.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), dl.Data)

	all, err := store.List(ctx, id)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "1.xlsx", all[0].Name)
}

func TestGetUnknown(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	id, _, err := store.Put(ctx, sampleDownloads())
	require.NoError(t, err)

	_, err = store.Get(ctx, id, "3.xlsx")
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	_, err = store.Get(ctx, "not-a-uuid", "1.xlsx")
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	_, err = store.List(ctx, "3f0c2c8e-8d6e-4c4f-9a55-2b1f1c3d9e10")
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestEntriesExpire(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(20 * time.Millisecond)
	id, _, err := store.Put(ctx, sampleDownloads())
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, err := store.List(ctx, id)
		return err != nil
	}, time.Second, 10*time.Millisecond)
}

func TestPutHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewMemoryStore(time.Minute).Put(ctx, sampleDownloads())
	assert.ErrorIs(t, err, context.Canceled)
}
