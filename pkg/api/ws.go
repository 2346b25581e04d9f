package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/shuliakovsky/wg-endpoints/pkg/metrics"
	"github.com/shuliakovsky/wg-endpoints/pkg/peers"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPingPeriod = 30 * time.Second
)

// WS streams peer snapshots to WebSocket subscribers.
type WS struct {
	Store        *peers.Store
	PollInterval time.Duration
	// Done closes all subscriptions with a going-away frame.
	Done   <-chan struct{}
	Logger *zap.Logger
}

func NewWS(store *peers.Store, logger *zap.Logger) *WS {
	return &WS{Store: store, PollInterval: time.Second, Logger: logger}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /ws/peers sends the current snapshot on connect and every newly
// published snapshot after that.
func (w *WS) ServePeers(rw http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(rw, r, nil)
	if err != nil {
		w.Logger.Warn("ws_upgrade_failed", zap.Error(err))
		metrics.WSError.Inc()
		return
	}
	defer conn.Close()
	metrics.WSConnected.Inc()
	w.Logger.Info("ws_subscribed", zap.String("remote", r.RemoteAddr))

	// subscribers only listen; reading is needed to notice close frames
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	poll := time.NewTicker(w.PollInterval)
	defer poll.Stop()
	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	snap := w.Store.Snapshot()
	if err := w.send(conn, snap); err != nil {
		return
	}
	sent := snap.Version

	for {
		select {
		case <-closed:
			return
		case <-w.Done:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsWriteWait))
			return
		case <-r.Context().Done():
			return
		case <-poll.C:
			snap := w.Store.Snapshot()
			if snap.Version == sent {
				continue
			}
			if err := w.send(conn, snap); err != nil {
				return
			}
			sent = snap.Version
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				w.Logger.Debug("ws_ping_failed", zap.Error(err))
				return
			}
		}
	}
}

func (w *WS) send(conn *websocket.Conn, snap *peers.Snapshot) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := conn.WriteJSON(snap); err != nil {
		w.Logger.Warn("ws_write_error", zap.Error(err))
		metrics.WSError.Inc()
		return err
	}
	return nil
}
