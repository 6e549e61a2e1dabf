package api

import (
	"net/http"
	"strings"
	"time"

	models "FluxFeed/internal/domain/models"
	domrepo "FluxFeed/internal/domain/repository"
	"FluxFeed/internal/usecase"
	xhttp "FluxFeed/pkg/http"
	xlogger "FluxFeed/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The engine serves browser dashboards on other origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const liveWriteTimeout = 10 * time.Second

// Live streams freshly computed signals over a WebSocket at the cadence the
// client requested. One signal is pushed immediately on connect, then one per
// tick until the client goes away.
func (h *EngineHandler) Live(c echo.Context) error {
	req := &models.LiveSignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	params := usecase.SignalParams{
		Ticker:       strings.ToUpper(req.Ticker),
		TF:           domrepo.Timeframe(req.TF),
		SinceMinutes: req.Since,
		Window:       req.Window,
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := c.Request().Context()

	// Reader goroutine: we never expect client frames, but reading is how
	// close frames and dead peers are detected.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	push := func() bool {
		sig, err := h.engine.Signal(ctx, params)
		if err != nil {
			if h.logger != nil {
				h.logger.Warn("live signal compute failed", xlogger.Error(err))
			}
			return true
		}
		_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
		if err := conn.WriteJSON(sig); err != nil {
			if h.logger != nil {
				h.logger.Debug("live signal write failed", xlogger.Error(err))
			}
			return false
		}
		return true
	}

	if !push() {
		return nil
	}

	ticker := time.NewTicker(time.Duration(req.IntervalSec) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !push() {
				return nil
			}
		}
	}
}
