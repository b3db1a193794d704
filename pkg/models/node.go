// Package models holds the DTOs the HTTP/WS adapter serializes to and
// parses requests from — a thin wire-format shell around internal/node and
// internal/payload that adds no simulation semantics of its own.
package models

import (
	"time"

	"github.com/gravnet/engine/internal/payload"
)

// CreateNodeRequest is the POST /nodes request body.
type CreateNodeRequest struct {
	Kind                string        `json:"kind"`
	Payload             interface{}   `json:"payload,omitempty"`
	DataFormat          string        `json:"data_format,omitempty"`
	Shape               []int         `json:"shape,omitempty"`
	Pos                 []float64     `json:"pos,omitempty"`
	Velocity            []float64     `json:"velocity,omitempty"`
	ConnectionThreshold *float64      `json:"connection_threshold,omitempty"`
	InfluenceRadius     *float64      `json:"influence_radius,omitempty"`
	Attempts            *int          `json:"attempts,omitempty"`
	Gravity             *float64      `json:"gravity,omitempty"`
	IsAnchor            *bool         `json:"is_anchor,omitempty"`
	StabilityWindow     *int          `json:"stability_window,omitempty"`
	TickIntervalSeconds *float64      `json:"tick_interval_seconds,omitempty"`
}

// NeighborSummaryResponse is one entry of a history snapshot's neighbor
// list, or of the live /nodes/{id}/neighbors listing.
type NeighborSummaryResponse struct {
	ID   int    `json:"id"`
	Kind string `json:"kind"`
	Addr string `json:"addr"`
}

// HistoryEntryResponse mirrors node.HistoryEntry for the wire.
type HistoryEntryResponse struct {
	Idx            int                       `json:"idx"`
	Timestamp      time.Time                 `json:"timestamp"`
	Addr           string                    `json:"addr"`
	Pos            [3]float64                `json:"pos"`
	Velocity       [3]float64                `json:"velocity"`
	Gravity        float64                   `json:"gravity"`
	Kind           string                    `json:"kind"`
	Neighbors      []NeighborSummaryResponse `json:"neighbors"`
	PayloadSummary string                    `json:"payload_summary"`
	PayloadType    string                    `json:"payload_type"`
	Event          string                    `json:"event,omitempty"`
}

// NodeResponse is the GET /nodes, /nodes/{id}, and websocket-frame
// representation of a single node.
type NodeResponse struct {
	ID                  int                `json:"id"`
	Addr                string             `json:"addr"`
	Kind                string             `json:"kind"`
	Pos                 [3]float64         `json:"pos"`
	Velocity            [3]float64         `json:"velocity"`
	Gravity             float64            `json:"gravity"`
	Data                payload.JSONSafe   `json:"data"`
	PayloadSummary      string             `json:"payload_summary"`
	IsAnchor            bool               `json:"is_anchor"`
	Attempts            int                `json:"attempts"`
	PermissiveMode      bool               `json:"permissive_mode"`
	Degree              int                `json:"degree"`
	ConnectionThreshold float64            `json:"connection_threshold"`
	InfluenceRadius     float64            `json:"influence_radius"`
	MaxDegree           int                `json:"max_degree"`
	StabilityWindow     int                `json:"stability_window"`
	TickIntervalSeconds float64            `json:"tick_interval_seconds"`
	Neighbors           []NeighborSummaryResponse `json:"neighbors"`
}

// SimulationStatus is the GET /simulation/status response.
type SimulationStatus struct {
	Running   bool           `json:"running"`
	NodeCount int            `json:"node_count"`
	Nodes     []NodeResponse `json:"nodes"`
}

// WebSocketFrame wraps the list of NodeResponses with the server-side
// timestamp the streaming endpoint attaches to every pushed snapshot.
type WebSocketFrame struct {
	ServerTime time.Time      `json:"server_time"`
	Nodes      []NodeResponse `json:"nodes"`
}

// ErrorResponse is the JSON body returned alongside every non-2xx HTTP
// response.
type ErrorResponse struct {
	Error string `json:"error"`
}
