package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/plopper/plopper"
	"github.com/plopper/plopper/internal/domain"
	"github.com/plopper/plopper/internal/present/rest/presenter"
	"github.com/plopper/plopper/internal/service"
	"github.com/plopper/plopper/internal/usecase"
)

type Handler struct {
	items   *usecase.ItemUsecase
	paste   *usecase.PasteUsecase
	scraper usecase.MetadataFetcher
	signal  *service.SignalService
}

func NewHandler(
	items *usecase.ItemUsecase,
	paste *usecase.PasteUsecase,
	scraper usecase.MetadataFetcher,
	signal *service.SignalService,
) *Handler {
	return &Handler{
		items:   items,
		paste:   paste,
		scraper: scraper,
		signal:  signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.handleHealth)
	e.GET("/api/metascraper", h.handleMetascraper)
	e.POST("/api/v1/paste", h.handlePaste)
	e.GET("/api/v1/items", h.handleItems)
	e.DELETE("/api/v1/items/:id", h.handleRemoveItem)
	e.GET("/api/v1/realtime", h.handleRealtime)
}

func (h *Handler) handleHealth(c echo.Context) error {
	return presenter.OK(c, echo.Map{"status": "ok"})
}

// handlePaste is the paste-handling boundary: every pipeline failure is
// mapped and logged here, and none crashes the session.
func (h *Handler) handlePaste(c echo.Context) error {
	ctx := c.Request().Context()

	var snapshot plopper.ClipboardSnapshot
	if err := c.Bind(&snapshot); err != nil {
		return presenter.BadRequest(c, err)
	}

	item, err := h.paste.Paste(ctx, snapshot)
	if err != nil {
		slog.InfoContext(
			ctx, "Paste abandoned",
			slog.String("error", err.Error()),
			slog.String("module", "paste"),
		)
		switch {
		case errors.Is(err, domain.ErrNotAuthenticated):
			return presenter.Unauthorized(c, "sign in to paste")
		case errors.Is(err, domain.ErrClipboardUnavailable):
			return presenter.BadRequestMessage(c, "clipboard unavailable")
		case errors.Is(err, domain.ErrNoReadableContent):
			return presenter.UnprocessableMessage(c, "no readable content")
		case errors.Is(err, domain.ErrMetadataFetch):
			return presenter.BadGateway(c, err)
		default:
			return presenter.InternalError(c, err)
		}
	}

	return presenter.OK(c, item)
}

func (h *Handler) handleItems(c echo.Context) error {
	ctx := c.Request().Context()

	items, err := h.items.List(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			return presenter.Unauthorized(c, "sign in to view your board")
		}
		return presenter.InternalError(c, err)
	}

	if items == nil {
		items = []plopper.Item{}
	}
	return presenter.OK(c, items)
}

func (h *Handler) handleRemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")
	if id == "" {
		return presenter.BadRequestMessage(c, "item id is required")
	}

	err := h.items.Remove(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			return presenter.Unauthorized(c, "sign in to remove items")
		}
		return presenter.InternalError(c, err)
	}

	return presenter.OK(c, echo.Map{"status": "ok"})
}

// handleMetascraper is the scraping endpoint the board calls for pasted
// links: it fetches the target page and returns its Open Graph metadata.
func (h *Handler) handleMetascraper(c echo.Context) error {
	ctx := c.Request().Context()

	target := c.QueryParam("url")
	if target == "" {
		return presenter.BadRequestMessage(c, "url parameter is required")
	}
	if !plopper.IsAbsoluteURL(target) {
		return presenter.BadRequestMessage(c, "url must be absolute")
	}

	meta, err := h.scraper.Scrape(ctx, target)
	if err != nil {
		return presenter.BadGateway(c, err)
	}

	return presenter.OK(c, meta)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type realtimeRequest struct {
	Type string `json:"type"`
}

// handleRealtime streams the owner's item events over a websocket, so
// every open session of a user converges on the same board state.
func (h *Handler) handleRealtime(c echo.Context) error {
	ctx := c.Request().Context()

	owner, ok := domain.RequesterID(ctx)
	if !ok {
		return presenter.Unauthorized(c, "sign in for realtime updates")
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	input := make(chan []string)
	defer close(input)
	output := make(chan plopper.Event)
	defer close(output)

	go h.signal.Realtime(ctx, input, output)

	input <- []string{service.ItemChannel(owner)}

	quit := make(chan struct{})

	go func() {
		for {
			var req realtimeRequest
			err := ws.ReadJSON(&req)
			if err != nil {

				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}

				quit <- struct{}{}
				break
			}

			switch req.Type {
			case "h": // heartbeat
				// do nothing
			default:
				slog.InfoContext(
					ctx, "Unknown request type",
					slog.String("type", req.Type),
					slog.String("module", "socket"),
				)
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case event := <-output:
			err := ws.WriteJSON(event)
			if err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
