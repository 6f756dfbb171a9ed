package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/actor"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/catalog"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/catalogstore"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/metrics"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/supply"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// Handler contains all HTTP handlers
type Handler struct {
	system *actor.System
	store  types.CatalogStore
	logger *slog.Logger
}

// NewHandler creates a new handler. logger may be nil.
func NewHandler(system *actor.System, store types.CatalogStore, logger *slog.Logger) *Handler {
	return &Handler{system: system, store: store, logger: logger}
}

// InitRequest is the request body for POST /v1/supply/init.
// An empty Items list deals from the stored catalog.
type InitRequest struct {
	Items     []string `json:"items"`
	Size      int      `json:"size" binding:"required,gt=0"`
	Mode      string   `json:"mode"`
	Selection []string `json:"selection"`
}

// ReplaceResponse is the response body for the replace endpoint
type ReplaceResponse struct {
	Replacement supply.Replacement `json:"replacement"`
	State       supply.View        `json:"state"`
}

// UndoResponse reports whether anything was undone.
type UndoResponse struct {
	Changed bool        `json:"changed"`
	State   supply.View `json:"state"`
}

type ToggleRequest struct {
	Item string `json:"item" binding:"required"`
}

// SettingsRequest updates the draft size and/or mode.
type SettingsRequest struct {
	Size *int    `json:"size"`
	Mode *string `json:"mode"`
}

// CatalogRequest replaces the catalog, either as newline separated text or as a list.
type CatalogRequest struct {
	Text  string   `json:"text"`
	Items []string `json:"items"`
}

type CatalogResponse struct {
	Items []string `json:"items"`
	Count int      `json:"count"`
}

// HealthResponse is the response for health check endpoint
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// GetState handles GET /v1/supply
func (h *Handler) GetState(c *gin.Context) {
	view, err := h.system.View()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Initialize handles POST /v1/supply/init
func (h *Handler) Initialize(c *gin.Context) {
	var req InitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	mode, err := types.ParseSelectionMode(req.Mode)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	items := req.Items
	if len(items) == 0 {
		if items, err = h.store.Load(c.Request.Context()); err != nil {
			h.fail(c, err)
			return
		}
	}

	view, err := h.system.Initialize(items, req.Size, supply.SelectionFor(mode, req.Selection))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Start handles POST /v1/supply/start: deal from the stored catalog with the draft settings.
func (h *Handler) Start(c *gin.Context) {
	items, err := h.store.Load(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	view, err := h.system.Start(items)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ReplaceSlot handles POST /v1/supply/slots/:index/replace
func (h *Handler) ReplaceSlot(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		h.badRequest(c, errors.New("index must be an integer"))
		return
	}
	rep, view, err := h.system.ReplaceSlot(index)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ReplaceResponse{Replacement: rep, State: view})
}

// Undo handles POST /v1/supply/undo
func (h *Handler) Undo(c *gin.Context) {
	view, changed, err := h.system.Undo()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, UndoResponse{Changed: changed, State: view})
}

// Reset handles POST /v1/supply/reset
func (h *Handler) Reset(c *gin.Context) {
	view, err := h.system.Reset()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ToggleManual handles POST /v1/supply/manual/toggle
func (h *Handler) ToggleManual(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	view, changed, err := h.system.ToggleManual(req.Item)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, UndoResponse{Changed: changed, State: view})
}

// UpdateSettings handles PUT /v1/supply/settings
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	var (
		view supply.View
		err  error
	)
	if req.Mode != nil {
		mode, perr := types.ParseSelectionMode(*req.Mode)
		if perr != nil {
			h.badRequest(c, perr)
			return
		}
		if view, err = h.system.SetMode(mode); err != nil {
			h.fail(c, err)
			return
		}
	}
	if req.Size != nil {
		if view, err = h.system.SetSize(*req.Size); err != nil {
			h.fail(c, err)
			return
		}
	}
	if req.Mode == nil && req.Size == nil {
		if view, err = h.system.View(); err != nil {
			h.fail(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, view)
}

// DismissMessage handles DELETE /v1/supply/message
func (h *Handler) DismissMessage(c *gin.Context) {
	view, err := h.system.Dismiss()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetCatalog handles GET /v1/catalog
func (h *Handler) GetCatalog(c *gin.Context) {
	items, err := h.store.Load(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, CatalogResponse{Items: items, Count: len(items)})
}

// UpdateCatalog handles PUT /v1/catalog. An edit that normalizes to nothing
// is rejected and the stored catalog is kept.
func (h *Handler) UpdateCatalog(c *gin.Context) {
	var req CatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	text := req.Text
	if len(req.Items) > 0 {
		text = catalog.FormatBulk(req.Items)
	}
	items, err := catalogstore.Update(c.Request.Context(), h.store, text)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, CatalogResponse{Items: items, Count: len(items)})
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	respondError(c, errBadRequest{err})
}

func (h *Handler) fail(c *gin.Context, err error) {
	if StatusFor(err) >= http.StatusInternalServerError && h.logger != nil {
		h.logger.Error("request failed", "path", c.FullPath(), "request_id", c.GetString("request_id"), "error", err)
	}
	respondError(c, err)
}

// StatusFor maps supply error kinds to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrPoolExhausted), errors.Is(err, types.ErrProposalRejected):
		return http.StatusConflict
	case errors.Is(err, types.ErrEmptyCatalogEdit):
		return http.StatusUnprocessableEntity
	case errors.Is(err, types.ErrInsufficientCatalog),
		errors.Is(err, types.ErrInvalidManualCount),
		errors.Is(err, types.ErrIndexOutOfRange),
		errors.Is(err, types.ErrInvalidSupplySize),
		errors.Is(err, types.ErrUnknownSelectionMode):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrShuttingDown):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// RequestID reuses the caller's X-Request-ID or generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.Must(uuid.NewV7()).String()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *Handler) {
	r.Use(RequestID(), metrics.GinMiddleware())

	// Health check
	r.GET("/health", h.Health)

	v1 := r.Group("/v1")
	{
		s := v1.Group("/supply")
		s.GET("", h.GetState)
		s.POST("/init", h.Initialize)
		s.POST("/start", h.Start)
		s.POST("/slots/:index/replace", h.ReplaceSlot)
		s.POST("/undo", h.Undo)
		s.POST("/reset", h.Reset)
		s.POST("/manual/toggle", h.ToggleManual)
		s.PUT("/settings", h.UpdateSettings)
		s.DELETE("/message", h.DismissMessage)

		v1.GET("/catalog", h.GetCatalog)
		v1.PUT("/catalog", h.UpdateCatalog)
	}
}
