package sessionserver

import (
	"sync"

	"github.com/mitchelldurbincs/NumberMunchers/internal/game"
	"github.com/rs/zerolog"
)

// watcherBuffer is how many snapshots a slow watcher may fall behind
const watcherBuffer = 16

// StreamManager fans session snapshots out to WatchSession streams
type StreamManager struct {
	mu       sync.RWMutex
	watchers map[uint64]chan game.Snapshot
	nextID   uint64
	logger   zerolog.Logger
}

// NewStreamManager creates a new stream manager
func NewStreamManager(logger zerolog.Logger) *StreamManager {
	return &StreamManager{
		watchers: make(map[uint64]chan game.Snapshot),
		logger:   logger,
	}
}

// Register adds a watcher. The channel is closed by Unregister or CloseAll.
func (sm *StreamManager) Register() (uint64, <-chan game.Snapshot) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.nextID++
	id := sm.nextID
	ch := make(chan game.Snapshot, watcherBuffer)
	sm.watchers[id] = ch

	sm.logger.Debug().
		Uint64("watcher_id", id).
		Int("total_watchers", len(sm.watchers)).
		Msg("Watcher registered")
	return id, ch
}

// Unregister removes a watcher and closes its channel
func (sm *StreamManager) Unregister(id uint64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if ch, exists := sm.watchers[id]; exists {
		close(ch)
		delete(sm.watchers, id)

		sm.logger.Debug().
			Uint64("watcher_id", id).
			Int("remaining_watchers", len(sm.watchers)).
			Msg("Watcher unregistered")
	}
}

// Broadcast queues a snapshot for every watcher without blocking
func (sm *StreamManager) Broadcast(snap game.Snapshot) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for id, ch := range sm.watchers {
		select {
		case ch <- snap:
		default:
			sm.logger.Warn().
				Uint64("watcher_id", id).
				Msg("Watcher channel full, dropping snapshot")
		}
	}
}

// Count returns the number of connected watchers
func (sm *StreamManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.watchers)
}

// CloseAll closes every watcher channel
func (sm *StreamManager) CloseAll() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for id, ch := range sm.watchers {
		close(ch)
		delete(sm.watchers, id)
	}
}
