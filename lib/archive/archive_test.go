package archive

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	now := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	name := ObjectName("statements", "Penyata MAC.CSV", now)
	assert.True(t, strings.HasPrefix(name, "statements/2024/03/"))
	assert.True(t, strings.HasSuffix(name, ".csv"))
	assert.NotEqual(t, name, ObjectName("statements", "Penyata MAC.CSV", now))
}

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	location, err := store.Save(ctx, "statements", "jan.csv", strings.NewReader("Transaction Date"))
	require.NoError(t, err)

	rc, err := store.Open(ctx, location)
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "Transaction Date", string(content))

	require.NoError(t, store.Delete(ctx, location))
	_, err = store.Open(ctx, location)
	assert.Error(t, err)
	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, location))
}

func TestLocalStoreStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root)
	require.NoError(t, err)
	full, err := store.resolve("../../etc/passwd")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(full, root))
}
