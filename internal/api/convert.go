package api

import (
	"github.com/gravnet/engine/internal/node"
	"github.com/gravnet/engine/internal/payload"
	"github.com/gravnet/engine/internal/vecmath"
	"github.com/gravnet/engine/pkg/models"
)

func vec3ToArray(v vecmath.Vector3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// toNodeResponse renders a node into its wire representation: summary,
// JSON-safe payload reconstruction, and the full set of derived scalars the
// external interfaces section calls for.
func toNodeResponse(n *node.Node) models.NodeResponse {
	summary, _ := payload.Summarize(n.Payload)
	neighbors := n.Neighbors()
	neighborResponses := make([]models.NeighborSummaryResponse, len(neighbors))
	for i, nb := range neighbors {
		neighborResponses[i] = models.NeighborSummaryResponse{
			ID:   nb.ID,
			Kind: string(nb.Kind),
			Addr: nb.Addr.String(),
		}
	}

	return models.NodeResponse{
		ID:                  n.ID,
		Addr:                n.Addr.String(),
		Kind:                string(n.Kind),
		Pos:                 vec3ToArray(n.Pos),
		Velocity:            vec3ToArray(n.Velocity),
		Gravity:             n.Gravity,
		Data:                payload.ToJSONSafe(n.Payload),
		PayloadSummary:      summary,
		IsAnchor:            n.IsAnchor,
		Attempts:            n.Attempts,
		PermissiveMode:      n.PermissiveMode,
		Degree:              n.Degree(),
		ConnectionThreshold: n.ConnectionThreshold,
		InfluenceRadius:     n.InfluenceRadius,
		MaxDegree:           n.MaxDegree,
		StabilityWindow:     n.StabilityWindow,
		TickIntervalSeconds: n.TickInterval.Seconds(),
		Neighbors:           neighborResponses,
	}
}

func toHistoryResponse(entries []node.HistoryEntry) []models.HistoryEntryResponse {
	out := make([]models.HistoryEntryResponse, len(entries))
	for i, e := range entries {
		neighbors := make([]models.NeighborSummaryResponse, len(e.Neighbors))
		for j, nb := range e.Neighbors {
			neighbors[j] = models.NeighborSummaryResponse{
				ID:   nb.ID,
				Kind: string(nb.Kind),
				Addr: nb.Addr.String(),
			}
		}
		out[i] = models.HistoryEntryResponse{
			Idx:            e.Idx,
			Timestamp:      e.Timestamp,
			Addr:           e.Addr.String(),
			Pos:            vec3ToArray(e.Pos),
			Velocity:       vec3ToArray(e.Velocity),
			Gravity:        e.Gravity,
			Kind:           string(e.Kind),
			Neighbors:      neighbors,
			PayloadSummary: e.PayloadSummary,
			PayloadType:    e.PayloadType,
			Event:          e.Event,
		}
	}
	return out
}
