package peers

import (
	"sync/atomic"
	"time"
)

// Peer is one WireGuard peer as reported by the status command.
type Peer struct {
	Name         string `json:"name"`
	Endpoint     string `json:"endpoint"`
	EndpointHost string `json:"endpoint_host"`
	EndpointPort string `json:"endpoint_port"`
}

// Table maps peer name to record. A published Table is never modified.
type Table map[string]Peer

// Snapshot is an immutable published table plus its metadata.
type Snapshot struct {
	Table     Table     `json:"peers"`
	Version   uint64    `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Store struct {
	cur     atomic.Pointer[Snapshot]
	version atomic.Uint64
}
