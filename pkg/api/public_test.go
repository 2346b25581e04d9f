package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shuliakovsky/wg-endpoints/pkg/peers"
	"github.com/shuliakovsky/wg-endpoints/pkg/render"
)

type fakeRefresh struct {
	at  time.Time
	err error
}

func (f fakeRefresh) LastFailure() (time.Time, error) { return f.at, f.err }

var alice = peers.Peer{Name: "alice", Endpoint: "10.0.0.5:51820", EndpointHost: "10.0.0.5", EndpointPort: "51820"}

func newTestServer(t *testing.T, refresh FailureReporter) (*httptest.Server, *peers.Store) {
	t.Helper()
	srv, store, _ := newTestServerWithDone(t, refresh)
	return srv, store
}

func newTestServerWithDone(t *testing.T, refresh FailureReporter) (*httptest.Server, *peers.Store, chan struct{}) {
	t.Helper()
	logger := zap.NewNop()
	store := peers.NewStore()
	renderer := &render.Renderer{
		Store:     store,
		Templates: fstest.MapFS{
			"alice.json": {Data: []byte(`{{"type": "wireguard", "server": "{endpoint_host}", "server_port": {endpoint_port}}}`)},
			"bad.json":   {Data: []byte(`{{"secret": "{private_key}"}}`)},
		},
	}
	done := make(chan struct{})
	ws := NewWS(store, logger)
	ws.PollInterval = 10 * time.Millisecond
	ws.Done = done

	public := NewPublic(store, renderer, refresh, logger)
	public.Build = "1.2.3"

	mux := http.NewServeMux()
	Mount(mux, public, ws)
	srv := httptest.NewServer(WithObservability(WithCORS(mux), logger))
	t.Cleanup(srv.Close)
	return srv, store, done
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "application/json", resp.Header.Get("content-type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp
}

func TestPeers_ReturnsPublishedTable(t *testing.T) {
	srv, store := newTestServer(t, nil)
	store.Publish(peers.Table{"alice": alice})

	var got peers.Table
	resp := getJSON(t, srv.URL+"/peers", &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, peers.Table{"alice": alice}, got)
	require.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestPeers_EmptyBeforeFirstRefresh(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	var got map[string]any
	resp := getJSON(t, srv.URL+"/peers", &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, got)
}

func TestPeerEndpoint(t *testing.T) {
	srv, store := newTestServer(t, nil)
	store.Publish(peers.Table{"alice": alice})

	var got peers.Peer
	resp := getJSON(t, srv.URL+"/peer/alice/endpoint", &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, alice, got)

	var errBody map[string]string
	resp = getJSON(t, srv.URL+"/peer/mallory/endpoint", &errBody)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Contains(t, errBody["error"], "mallory")
}

func TestPeerEndpoint_EscapedSlashInName(t *testing.T) {
	srv, store := newTestServer(t, nil)
	key := peers.Peer{Name: "ab/cd=", Endpoint: "1.2.3.4:5", EndpointHost: "1.2.3.4", EndpointPort: "5"}
	store.Publish(peers.Table{key.Name: key})

	var got peers.Peer
	resp := getJSON(t, srv.URL+"/peer/ab%2Fcd=/endpoint", &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, key, got)
}

func TestPeerSingBox(t *testing.T) {
	srv, store := newTestServer(t, nil)
	store.Publish(peers.Table{
		"alice":  alice,
		"bad":    {Name: "bad", Endpoint: "1.1.1.1:1", EndpointHost: "1.1.1.1", EndpointPort: "1"},
		"nofile": {Name: "nofile", Endpoint: "1.1.1.1:1", EndpointHost: "1.1.1.1", EndpointPort: "1"},
		"ghost":  {Name: "ghost"},
	})

	var doc map[string]any
	resp := getJSON(t, srv.URL+"/peer/alice/sing-box", &doc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "10.0.0.5", doc["server"])
	require.EqualValues(t, 51820, doc["server_port"])

	var empty map[string]any
	resp = getJSON(t, srv.URL+"/peer/ghost/sing-box", &empty)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, empty)

	resp = getJSON(t, srv.URL+"/peer/unknown/sing-box", &empty)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, empty)

	var errBody map[string]string
	resp = getJSON(t, srv.URL+"/peer/nofile/sing-box", &errBody)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Contains(t, errBody["error"], "template not found")

	errBody = nil
	resp = getJSON(t, srv.URL+"/peer/bad/sing-box", &errBody)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Contains(t, errBody["error"], "private_key")
}

func TestStatusAndReady(t *testing.T) {
	failedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	srv, store := newTestServer(t, fakeRefresh{at: failedAt, err: errors.New("wg: not found")})

	resp, err := http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	store.Publish(peers.Table{"alice": alice})

	resp, err = http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var st statusResponse
	getJSON(t, srv.URL+"/status", &st)
	require.Equal(t, "1.2.3", st.Build)
	require.Equal(t, uint64(1), st.Version)
	require.Equal(t, 1, st.Peers)
	require.NotNil(t, st.UpdatedAt)
	require.Equal(t, "wg: not found", st.LastError)
	require.True(t, failedAt.Equal(*st.LastErrorAt))
}

func TestUnknownRouteAndMethod(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Post(srv.URL+"/peers", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWithObservability_RecoversPanic(t *testing.T) {
	h := WithObservability(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), zap.NewNop())

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/peers", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	require.NotPanics(t, func() { h.ServeHTTP(rr, req) })

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "req-1", rr.Header().Get(RequestIDHeader))
	require.JSONEq(t, `{"error":"internal error"}`, rr.Body.String())
}

func TestWithObservability_KeepsAbortHandler(t *testing.T) {
	h := WithObservability(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}), zap.NewNop())

	rr := httptest.NewRecorder()
	require.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/peers", nil))
	})
	require.Empty(t, rr.Body.String())
}

func TestWithCORS_Preflight(t *testing.T) {
	h := WithCORS(http.NotFoundHandler())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/peers", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
