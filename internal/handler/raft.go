package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/supply"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// RaftNode is the replicated session API, implemented by raft_service.Node.
type RaftNode interface {
	GetState(ctx context.Context) (supply.View, error)
	Initialize(ctx context.Context, items []string, size int, sel supply.Selection) (supply.View, error)
	ReplaceSlot(ctx context.Context, slot int) (supply.Replacement, error)
	Undo(ctx context.Context) error
	Reset(ctx context.Context) error
}

// RaftHandler serves the replicated session under /v1/raft.
type RaftHandler struct {
	node  RaftNode
	store types.CatalogStore
}

func NewRaftHandler(node RaftNode, store types.CatalogStore) *RaftHandler {
	return &RaftHandler{node: node, store: store}
}

// GetState handles GET /v1/raft/supply
func (h *RaftHandler) GetState(c *gin.Context) {
	view, err := h.node.GetState(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Initialize handles POST /v1/raft/supply/init
func (h *RaftHandler) Initialize(c *gin.Context) {
	var req InitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errBadRequest{err})
		return
	}
	mode, err := types.ParseSelectionMode(req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}
	ctx := c.Request.Context()
	items := req.Items
	if len(items) == 0 {
		if items, err = h.store.Load(ctx); err != nil {
			respondError(c, err)
			return
		}
	}
	view, err := h.node.Initialize(ctx, items, req.Size, supply.SelectionFor(mode, req.Selection))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ReplaceSlot handles POST /v1/raft/supply/slots/:index/replace
func (h *RaftHandler) ReplaceSlot(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, errBadRequest{errors.New("index must be an integer")})
		return
	}
	ctx := c.Request.Context()
	rep, err := h.node.ReplaceSlot(ctx, index)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.node.GetState(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ReplaceResponse{Replacement: rep, State: view})
}

// Undo handles POST /v1/raft/supply/undo
func (h *RaftHandler) Undo(c *gin.Context) {
	h.proposeThenRead(c, h.node.Undo)
}

// Reset handles POST /v1/raft/supply/reset
func (h *RaftHandler) Reset(c *gin.Context) {
	h.proposeThenRead(c, h.node.Reset)
}

func (h *RaftHandler) proposeThenRead(c *gin.Context, propose func(context.Context) error) {
	ctx := c.Request.Context()
	if err := propose(ctx); err != nil {
		respondError(c, err)
		return
	}
	view, err := h.node.GetState(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetupRaftRoutes mounts the replicated session API.
func SetupRaftRoutes(r *gin.Engine, h *RaftHandler) {
	g := r.Group("/v1/raft/supply")
	{
		g.GET("", h.GetState)
		g.POST("/init", h.Initialize)
		g.POST("/slots/:index/replace", h.ReplaceSlot)
		g.POST("/undo", h.Undo)
		g.POST("/reset", h.Reset)
	}
}

type errBadRequest struct{ error }

func (e errBadRequest) Unwrap() error { return e.error }

func respondError(c *gin.Context, err error) {
	status := StatusFor(err)
	var bad errBadRequest
	if errors.As(err, &bad) {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{
		"error":      err.Error(),
		"request_id": c.GetString("request_id"),
	})
}
