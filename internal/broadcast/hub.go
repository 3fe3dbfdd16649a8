package broadcast

import (
	"sync"

	"go.uber.org/zap"

	"github.com/upravnik/assembly-engine/internal/adapter"
	"github.com/upravnik/assembly-engine/internal/domain"
	"github.com/upravnik/assembly-engine/internal/logger"
)

// Hub fans tally events out to the websocket subscribers of each assembly.
// It never reads the database on the hot path; events arrive from the broker
// and carry complete snapshots, so subscribers replace state instead of
// merging it.
type Hub struct {
	mu sync.RWMutex

	// subscribers per assembly
	subscribers map[uint64]map[*Client]struct{}

	json adapter.JSON
}

// NewHub creates an empty hub
func NewHub(jsonAdapter adapter.JSON) *Hub {
	return &Hub{
		subscribers: make(map[uint64]map[*Client]struct{}),
		json:        jsonAdapter,
	}
}

// register attaches a client to its assembly's fan-out set
func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subscribers[c.assemblyID]
	if !ok {
		set = make(map[*Client]struct{})
		h.subscribers[c.assemblyID] = set
	}
	set[c] = struct{}{}
}

// unregister detaches a client and closes its send channel
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subscribers[c.assemblyID]
	if !ok {
		return
	}

	if _, ok := set[c]; !ok {
		return
	}

	delete(set, c)
	close(c.send)

	if len(set) == 0 {
		delete(h.subscribers, c.assemblyID)
	}
}

// Dispatch delivers one tally event to every subscriber of its assembly.
// Subscribers that cannot keep up are dropped rather than allowed to block
// the fan-out.
func (h *Hub) Dispatch(event *domain.TallyEvent) error {
	data, err := h.json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.RLock()
	set := h.subscribers[event.AssemblyID]
	slow := make([]*Client, 0)
	for c := range set {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		logger.Warn("dropping slow tally subscriber",
			zap.Uint64("assemblyID", c.assemblyID),
			zap.String("remoteAddr", c.conn.RemoteAddr().String()),
		)
		h.unregister(c)
		c.conn.Close()
	}

	return nil
}

// SubscriberCount reports how many clients are attached to an assembly
func (h *Hub) SubscriberCount(assemblyID uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers[assemblyID])
}
