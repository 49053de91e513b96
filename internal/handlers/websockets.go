package handlers

import (
	"errors"
	"net/http"
	"time"

	"vision_runner/internal/models"
	"vision_runner/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	subscriberBuffer = 32
	snapshotSize     = 20
)

// wsEnvelope frames every message sent on /ws.
type wsEnvelope struct {
	Type string      `json:"type"` // "snapshot" or "event"
	Data interface{} `json:"data,omitempty"`
}

func (h *Handler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{CheckOrigin: h.originAllowed}
}

// @Summary      Live activity stream
// @Description  Upgrades to a websocket. Sends a "snapshot" of recent activity, then one "event" frame per later write. Events already in the snapshot are not repeated.
// @Tags         activity
// @Param        type  query  string  false  "Only stream events of this type"
// @Success      101
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	if h.opts.Hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errLiveDisabled})
		return
	}
	filter := service.ActivityFilter{Type: c.Query("type"), Limit: snapshotSize}

	// Subscribe before reading the snapshot so nothing written in between is lost.
	stream, unsubscribe := h.opts.Hub.Subscribe(subscriberBuffer)
	defer unsubscribe()

	snapshot, err := h.recentActivity(c, filter)
	if err != nil {
		if errors.Is(err, service.ErrUnknownEventType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errUnknownType})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errActivity, "ws_snapshot_failed", err)
		return
	}

	conn, err := h.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Infow("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.drain(conn, done)

	if err := h.writeFrame(conn, wsEnvelope{Type: "snapshot", Data: snapshot}); err != nil {
		return
	}

	// canonical form, as stored on events
	typ := normalizedType(filter.Type)
	// events published between Subscribe and the snapshot query arrive on both paths
	sent := snapshotIDs(snapshot)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case e, ok := <-stream:
			if !ok {
				return
			}
			if typ != "" && e.Type != typ {
				continue
			}
			if _, dup := sent[e.EventID]; dup {
				delete(sent, e.EventID)
				continue
			}
			if err := h.writeFrame(conn, wsEnvelope{Type: "event", Data: e}); err != nil {
				return
			}
		}
	}
}

func snapshotIDs(snapshot []models.ActivityEvent) map[string]struct{} {
	ids := make(map[string]struct{}, len(snapshot))
	for _, e := range snapshot {
		ids[e.EventID] = struct{}{}
	}
	return ids
}

func (h *Handler) recentActivity(c *gin.Context, f service.ActivityFilter) ([]models.ActivityEvent, error) {
	if h.services == nil || h.services.ActivityLog == nil {
		return []models.ActivityEvent{}, nil
	}
	return h.services.ListActivity(c.Request.Context(), f)
}

func (h *Handler) writeFrame(conn *websocket.Conn, env wsEnvelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := conn.WriteJSON(env)
	if err != nil && h.log != nil {
		h.log.Infow("ws_write_failed", "frame", env.Type, "err", err)
	}
	return err
}

// drain reads until the peer goes away so control frames are processed.
func (h *Handler) drain(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
