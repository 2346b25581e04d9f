package api

import "net/http"

// Mount registers the peer API on mux.
func Mount(mux *http.ServeMux, public *Public, ws *WS) {
	mux.HandleFunc("GET /peers", public.Peers)
	mux.HandleFunc("GET /peer/{name}/endpoint", public.PeerEndpoint)
	mux.HandleFunc("GET /peer/{name}/sing-box", public.PeerSingBox)
	mux.HandleFunc("GET /status", public.Status)
	mux.HandleFunc("GET /readyz", public.Ready)
	mux.HandleFunc("GET /ws/peers", ws.ServePeers)
}
