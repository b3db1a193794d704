package api

import (
	"errors"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gravnet/engine/internal/node"
	"github.com/gravnet/engine/internal/payload"
	"github.com/gravnet/engine/internal/registry"
	"github.com/gravnet/engine/internal/vecmath"
	"github.com/gravnet/engine/pkg/models"
)

// APIHandler binds the HTTP surface to the Registry. It adds no simulation
// semantics of its own — every handler below is a thin translation between
// JSON and the registry's programmatic operations, per the external
// interfaces contract.
type APIHandler struct {
	reg     *registry.Registry
	running func() bool
}

// SetupRouter wires the full HTTP/WS surface: CORS, the public node
// endpoints, and the websocket stream. running reports whether the
// scheduler is currently driving ticks, for /simulation/status.
func SetupRouter(reg *registry.Registry, wsHub *Hub, running func() bool) *gin.Engine {
	r := gin.Default()

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	handler := &APIHandler{reg: reg, running: running}
	limiter := NewCreateRateLimiter(30, 5)

	r.GET("/health", handler.handleHealth)
	r.GET("/nodes", handler.handleListNodes)
	r.POST("/nodes", limiter.Middleware(), handler.handleCreateNode)
	r.GET("/nodes/:id", handler.handleGetNode)
	r.GET("/nodes/:id/history", handler.handleGetHistory)
	r.GET("/nodes/:id/neighbors", handler.handleGetNeighbors)
	r.GET("/simulation/status", handler.handleSimulationStatus)
	r.GET("/ws/nodes", wsHub.Subscribe)

	return r
}

func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *APIHandler) handleListNodes(c *gin.Context) {
	nodes := h.reg.List()
	out := make([]models.NodeResponse, len(nodes))
	for i, n := range nodes {
		out[i] = toNodeResponse(n)
	}
	c.JSON(http.StatusOK, out)
}

func (h *APIHandler) handleCreateNode(c *gin.Context) {
	var req models.CreateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	kind := node.Kind(req.Kind)
	if !node.ValidKind(kind) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid kind: " + req.Kind})
		return
	}

	opts := registry.CreateOptions{
		ConnectionThreshold: req.ConnectionThreshold,
		InfluenceRadius:     req.InfluenceRadius,
		Attempts:            req.Attempts,
		Gravity:             req.Gravity,
		IsAnchor:            req.IsAnchor,
		StabilityWindow:     req.StabilityWindow,
	}
	if req.TickIntervalSeconds != nil {
		d := time.Duration(*req.TickIntervalSeconds * float64(time.Second))
		opts.TickInterval = &d
	}
	if req.Pos != nil {
		v, err := vectorFromSlice(req.Pos)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid pos: " + err.Error()})
			return
		}
		opts.Pos = &v
	}
	if req.Velocity != nil {
		v, err := vectorFromSlice(req.Velocity)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid velocity: " + err.Error()})
			return
		}
		opts.Velocity = &v
	}
	if req.Payload != nil {
		v, err := payload.FromRequest(req.DataFormat, req.Payload, req.Shape)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid payload: " + err.Error()})
			return
		}
		opts.Payload = v
	}

	n, err := h.reg.Create(kind, opts)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, registry.ErrInvalidKind) || errors.Is(err, registry.ErrInvalidVector) {
			status = http.StatusBadRequest
		}
		c.JSON(status, models.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, toNodeResponse(n))
}

func (h *APIHandler) handleGetNode(c *gin.Context) {
	n, err := h.nodeFromParam(c)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, toNodeResponse(n))
}

func (h *APIHandler) handleGetHistory(c *gin.Context) {
	n, err := h.nodeFromParam(c)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, toHistoryResponse(n.History))
}

func (h *APIHandler) handleGetNeighbors(c *gin.Context) {
	n, err := h.nodeFromParam(c)
	if err != nil {
		return
	}
	neighbors := n.Neighbors()
	out := make([]models.NeighborSummaryResponse, len(neighbors))
	for i, nb := range neighbors {
		out[i] = models.NeighborSummaryResponse{ID: nb.ID, Kind: string(nb.Kind), Addr: nb.Addr.String()}
	}
	c.JSON(http.StatusOK, out)
}

func (h *APIHandler) handleSimulationStatus(c *gin.Context) {
	nodes := h.reg.List()
	out := make([]models.NodeResponse, len(nodes))
	for i, n := range nodes {
		out[i] = toNodeResponse(n)
	}
	c.JSON(http.StatusOK, models.SimulationStatus{
		Running:   h.running() && !h.reg.Paused(),
		NodeCount: len(nodes),
		Nodes:     out,
	})
}

// nodeFromParam resolves the :id path parameter to a node, writing the 404
// response itself on failure so handlers can just `return` on error.
func (h *APIHandler) nodeFromParam(c *gin.Context) (*node.Node, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "unknown node id"})
		return nil, err
	}
	n, err := h.reg.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
		return nil, err
	}
	return n, nil
}

func vectorFromSlice(s []float64) (vecmath.Vector3, error) {
	if len(s) != 3 {
		return vecmath.Vector3{}, errInvalidVectorLength
	}
	for _, c := range s {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return vecmath.Vector3{}, errInvalidVectorLength
		}
	}
	return vecmath.Vector3{X: s[0], Y: s[1], Z: s[2]}, nil
}

var errInvalidVectorLength = errors.New("must be a length-3 finite vector")
