package catalogstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/catalogstore"
)

// exerciseStoreAfterFlush clears the test database first so the default
// fallback can be observed.
func exerciseStoreAfterFlush(t *testing.T, store *catalogstore.RedisStore) {
	t.Helper()
	require.NoError(t, store.Client().FlushDB(context.Background()).Err())
	exerciseStore(t, store)
}
