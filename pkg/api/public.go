package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/shuliakovsky/wg-endpoints/pkg/peers"
	"github.com/shuliakovsky/wg-endpoints/pkg/render"
)

// FailureReporter exposes the outcome of the latest refresh cycle.
type FailureReporter interface {
	LastFailure() (at time.Time, err error)
}

type Public struct {
	Store    *peers.Store
	Renderer *render.Renderer
	Refresh  FailureReporter
	Build    string
	Logger   *zap.Logger
}

func NewPublic(store *peers.Store, renderer *render.Renderer, refresh FailureReporter, logger *zap.Logger) *Public {
	return &Public{Store: store, Renderer: renderer, Refresh: refresh, Logger: logger}
}

// GET /peers
func (p *Public) Peers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, p.Store.Table())
}

// GET /peer/{name}/endpoint
func (p *Public) PeerEndpoint(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	peer, err := p.Store.Get(name)
	if errors.Is(err, peers.ErrNotFound) {
		writeError(w, http.StatusNotFound, "peer "+name+" not found")
		return
	}
	writeJSON(w, http.StatusOK, peer)
}

// GET /peer/{name}/sing-box
func (p *Public) PeerSingBox(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	doc, err := p.Renderer.Render(name, name)
	if err != nil {
		p.Logger.Warn("render_failed", zap.String("peer", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type statusResponse struct {
	Build       string     `json:"build,omitempty"`
	Version     uint64     `json:"version"`
	UpdatedAt   *time.Time `json:"updated_at"`
	Peers       int        `json:"peers"`
	LastError   string     `json:"last_error,omitempty"`
	LastErrorAt *time.Time `json:"last_error_at,omitempty"`
}

// GET /status
func (p *Public) Status(w http.ResponseWriter, _ *http.Request) {
	snap := p.Store.Snapshot()
	resp := statusResponse{Build: p.Build, Version: snap.Version, Peers: len(snap.Table)}
	if !snap.UpdatedAt.IsZero() {
		resp.UpdatedAt = &snap.UpdatedAt
	}
	if p.Refresh != nil {
		if at, err := p.Refresh.LastFailure(); err != nil {
			resp.LastError = err.Error()
			resp.LastErrorAt = &at
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /readyz
func (p *Public) Ready(w http.ResponseWriter, _ *http.Request) {
	if !p.Store.Published() {
		writeError(w, http.StatusServiceUnavailable, "no peer snapshot published yet")
		return
	}
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
