package room

import (
	"encoding/json"

	"go.uber.org/zap"
)

// broadcast serializes once and delivers to every client's outbox without
// blocking. A client whose outbox is full misses this message: snapshots are
// superseded by the next tick, and removing a connection is the disconnect
// path's job, never the broadcaster's.
func (r *Room) broadcast(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		r.log.Error("marshal broadcast", zap.Error(err))
		return
	}

	for _, c := range r.clients {
		select {
		case c.outbox <- payload:
		default:
			r.log.Debug("skipping stalled client", zap.String("client", c.id))
		}
	}
}
