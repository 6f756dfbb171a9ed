package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/actor"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/catalogstore"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/handler"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/supply"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/utils"
)

func items(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("f%02d", i)
	}
	return out
}

func setupRouter(t *testing.T, catalog []string) (*gin.Engine, *catalogstore.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := supply.NewManager(supply.ManagerOptional{Shuffler: supply.NewRandShuffler(rand.NewSource(7))})
	sys, err := actor.NewSystem(&types.Context{Journal: &utils.MockJournal{}, Utils: &utils.MockUtils{}}, m, nil)
	require.NoError(t, err)
	t.Cleanup(sys.Stop)

	store := catalogstore.NewMemoryStore(catalog)
	r := gin.New()
	handler.SetupRoutes(r, handler.NewHandler(sys, store, nil))
	return r, store
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	r, _ := setupRouter(t, nil)
	w := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody[handler.HealthResponse](t, w).Status)
	assert.NotEmpty(t, w.Header().Get(handler.RequestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	r, _ := setupRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(handler.RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(handler.RequestIDHeader))
}

func TestInitializeAndReplace(t *testing.T) {
	r, _ := setupRouter(t, items(7))

	w := do(t, r, http.MethodPost, "/v1/supply/init", handler.InitRequest{Size: 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := decodeBody[supply.View](t, w)
	assert.True(t, view.Initialized)
	assert.Len(t, view.Market, 5)
	assert.Len(t, view.Pool, 2)

	for i := 0; i < 2; i++ {
		w = do(t, r, http.MethodPost, fmt.Sprintf("/v1/supply/slots/%d/replace", i), nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		res := decodeBody[handler.ReplaceResponse](t, w)
		assert.Equal(t, i, res.Replacement.Slot)
		assert.Equal(t, res.Replacement.Added, res.State.Market[i])
	}

	w = do(t, r, http.MethodPost, "/v1/supply/slots/0/replace", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPost, "/v1/supply/slots/9/replace", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/v1/supply/slots/abc/replace", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/v1/supply/undo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	undo := decodeBody[handler.UndoResponse](t, w)
	assert.True(t, undo.Changed)
	assert.Len(t, undo.State.Pool, 1)

	w = do(t, r, http.MethodPost, "/v1/supply/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decodeBody[supply.View](t, w).Initialized)
}

func TestInitialize_Errors(t *testing.T) {
	r, _ := setupRouter(t, items(3))

	w := do(t, r, http.MethodPost, "/v1/supply/init", map[string]any{"size": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/v1/supply/init", handler.InitRequest{Size: 5})
	assert.Equal(t, http.StatusBadRequest, w.Code, "insufficient catalog")

	w = do(t, r, http.MethodPost, "/v1/supply/init", handler.InitRequest{Size: 2, Mode: "sideways"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/v1/supply/init", handler.InitRequest{
		Items: []string{"A", "B", "C"}, Size: 2, Mode: "manual", Selection: []string{"A"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "invalid manual count")

	w = do(t, r, http.MethodPost, "/v1/supply/init", handler.InitRequest{
		Items: []string{"A", "B", "C"}, Size: 2, Mode: "manual", Selection: []string{"C", "A"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	view := decodeBody[supply.View](t, w)
	assert.Equal(t, []string{"C", "A"}, view.Market)
	assert.Equal(t, []string{"B"}, view.Pool)
}

func TestDraftAndStart(t *testing.T) {
	r, _ := setupRouter(t, items(8))

	w := do(t, r, http.MethodPut, "/v1/supply/settings", map[string]any{"size": 5, "mode": "manual"})
	require.Equal(t, http.StatusOK, w.Code)
	view := decodeBody[supply.View](t, w)
	assert.Equal(t, 5, view.Size)
	assert.Equal(t, types.ModeManual, view.Mode)

	w = do(t, r, http.MethodPut, "/v1/supply/settings", map[string]any{"size": 99})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/v1/supply", nil)
	assert.NotEmpty(t, decodeBody[supply.View](t, w).Message)
	w = do(t, r, http.MethodDelete, "/v1/supply/message", nil)
	assert.Empty(t, decodeBody[supply.View](t, w).Message)

	for _, it := range items(5) {
		w = do(t, r, http.MethodPost, "/v1/supply/manual/toggle", handler.ToggleRequest{Item: it})
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decodeBody[handler.UndoResponse](t, w).Changed)
	}
	w = do(t, r, http.MethodPost, "/v1/supply/manual/toggle", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/v1/supply/start", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view = decodeBody[supply.View](t, w)
	assert.Equal(t, items(5), view.Market)
	assert.ElementsMatch(t, []string{"f05", "f06", "f07"}, view.Pool)
}

func TestCatalog(t *testing.T) {
	r, store := setupRouter(t, nil)

	w := do(t, r, http.MethodGet, "/v1/catalog", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[handler.CatalogResponse](t, w).Items, 38)

	w = do(t, r, http.MethodPut, "/v1/catalog", handler.CatalogRequest{Text: " \n\n  "})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, r, http.MethodPut, "/v1/catalog", handler.CatalogRequest{Text: "X\n Y \nX\n"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"X", "Y"}, decodeBody[handler.CatalogResponse](t, w).Items)

	w = do(t, r, http.MethodPut, "/v1/catalog", handler.CatalogRequest{Items: []string{"P", "Q", "P"}})
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := store.Load(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"P", "Q"}, stored)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusConflict, handler.StatusFor(fmt.Errorf("wrap: %w", types.ErrPoolExhausted)))
	assert.Equal(t, http.StatusUnprocessableEntity, handler.StatusFor(types.ErrEmptyCatalogEdit))
	assert.Equal(t, http.StatusBadRequest, handler.StatusFor(types.ErrInvalidManualCount))
	assert.Equal(t, http.StatusServiceUnavailable, handler.StatusFor(types.ErrShuttingDown))
	assert.Equal(t, http.StatusInternalServerError, handler.StatusFor(fmt.Errorf("boom")))
}

type fakeRaftNode struct {
	view     supply.View
	proposed []string
	err      error
}

func (f *fakeRaftNode) GetState(ctx context.Context) (supply.View, error) { return f.view, nil }
func (f *fakeRaftNode) Initialize(ctx context.Context, items []string, size int, sel supply.Selection) (supply.View, error) {
	f.proposed = append(f.proposed, fmt.Sprintf("init %d %d %s", len(items), size, sel.Mode()))
	return f.view, f.err
}
func (f *fakeRaftNode) ReplaceSlot(ctx context.Context, slot int) (supply.Replacement, error) {
	f.proposed = append(f.proposed, fmt.Sprintf("replace %d", slot))
	return supply.Replacement{Slot: slot, Removed: "A", Added: "C"}, f.err
}
func (f *fakeRaftNode) Undo(ctx context.Context) error {
	f.proposed = append(f.proposed, "undo")
	return f.err
}
func (f *fakeRaftNode) Reset(ctx context.Context) error {
	f.proposed = append(f.proposed, "reset")
	return f.err
}

func TestRaftRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	node := &fakeRaftNode{view: supply.View{Market: []string{"C", "B"}, Initialized: true}}
	r := gin.New()
	handler.SetupRaftRoutes(r, handler.NewRaftHandler(node, catalogstore.NewMemoryStore([]string{"A", "B", "C"})))

	w := do(t, r, http.MethodPost, "/v1/raft/supply/init", handler.InitRequest{Size: 2})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, "/v1/raft/supply/slots/0/replace", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decodeBody[handler.ReplaceResponse](t, w)
	assert.Equal(t, "C", res.Replacement.Added)
	assert.Equal(t, []string{"C", "B"}, res.State.Market)

	w = do(t, r, http.MethodPost, "/v1/raft/supply/slots/x/replace", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	do(t, r, http.MethodPost, "/v1/raft/supply/undo", nil)
	do(t, r, http.MethodPost, "/v1/raft/supply/reset", nil)
	assert.Equal(t, []string{"init 3 2 random", "replace 0", "undo", "reset"}, node.proposed)

	node.err = fmt.Errorf("wrapped: %w", types.ErrProposalRejected)
	w = do(t, r, http.MethodPost, "/v1/raft/supply/slots/1/replace", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodGet, "/v1/raft/supply", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
