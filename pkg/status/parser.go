package status

import (
	"strings"

	"github.com/shuliakovsky/wg-endpoints/pkg/peers"
)

const (
	peerPrefix     = "peer:"
	endpointPrefix = "endpoint:"
)

// Parse extracts peer endpoints from `wg show` style output. It never fails:
// peer blocks without a usable endpoint line are dropped, and only the first
// endpoint line of a block is used.
func Parse(raw string) peers.Table {
	out := peers.Table{}
	pending := ""

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, peerPrefix):
			pending = firstToken(line[len(peerPrefix):])
		case strings.HasPrefix(line, endpointPrefix):
			if pending == "" {
				continue
			}
			endpoint := firstToken(line[len(endpointPrefix):])
			host, port, ok := SplitEndpoint(endpoint)
			if ok {
				out[pending] = peers.Peer{
					Name:         pending,
					Endpoint:     endpoint,
					EndpointHost: host,
					EndpointPort: port,
				}
			}
			pending = ""
		}
	}
	return out
}

// SplitEndpoint splits host:port at the last colon. Brackets around an IPv6
// host are removed. The port is not validated.
func SplitEndpoint(endpoint string) (host, port string, ok bool) {
	i := strings.LastIndexByte(endpoint, ':')
	if i < 0 {
		return "", "", false
	}
	host, port = endpoint[:i], endpoint[i+1:]
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		host = host[1 : len(host)-1]
	}
	return host, port, true
}

func firstToken(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return ""
	}
	return f[0]
}
