package realtime

import (
	"context"
	"sync"
	"sync/atomic"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/game-tracker/internal/domain/gameevent"
	"github.com/riskibarqy/game-tracker/internal/platform/logging"
)

const (
	DefaultWorkers       = 16
	DefaultSubscriberBuf = 32
)

var ErrHubClosed = crerr.New("realtime hub closed")

// Hub fans frames out to the subscribers of a game. Delivery is pooled but
// serial per game, so each subscriber sees frames in publish order. A slow
// subscriber with a full buffer loses frames instead of blocking the game.
type Hub struct {
	mu     sync.Mutex
	games  map[string]*gameChannel
	closed bool

	nextID atomic.Uint64
	pool   *ants.Pool
	buffer int
	logger *logging.Logger
}

type gameChannel struct {
	subs     map[uint64]*Subscription
	pending  [][]byte
	draining bool
}

type Subscription struct {
	id     uint64
	gameID string
	hub    *Hub

	mu      sync.Mutex
	closed  bool
	frames  chan []byte
	dropped atomic.Int64
	once    sync.Once
}

func NewHub(workers, buffer int, logger *logging.Logger) (*Hub, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if buffer <= 0 {
		buffer = DefaultSubscriberBuf
	}
	if logger == nil {
		logger = logging.Default()
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, crerr.Wrap(err, "create realtime worker pool")
	}

	return &Hub{
		games:  make(map[string]*gameChannel),
		pool:   pool,
		buffer: buffer,
		logger: logger,
	}, nil
}

// Subscribe registers interest in exactly one game id.
func (h *Hub) Subscribe(gameID string) (*Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}

	sub := &Subscription{
		id:     h.nextID.Add(1),
		gameID: gameID,
		hub:    h,
		frames: make(chan []byte, h.buffer),
	}
	ch := h.games[gameID]
	if ch == nil {
		ch = &gameChannel{subs: make(map[uint64]*Subscription)}
		h.games[gameID] = ch
	}
	ch.subs[sub.id] = sub
	return sub, nil
}

// Publish implements gameevent.Publisher for a single process.
func (h *Hub) Publish(_ context.Context, event gameevent.Event) error {
	if !h.hasSubscribers(event.GameID) {
		return nil
	}
	frame, err := EncodeFrame(event)
	if err != nil {
		return err
	}
	return h.Deliver(event.GameID, frame)
}

// Deliver queues an encoded frame for the subscribers of gameID.
func (h *Hub) Deliver(gameID string, frame []byte) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrHubClosed
	}
	ch := h.games[gameID]
	if ch == nil || len(ch.subs) == 0 {
		h.mu.Unlock()
		return nil
	}
	ch.pending = append(ch.pending, frame)
	if ch.draining {
		h.mu.Unlock()
		return nil
	}
	ch.draining = true
	h.mu.Unlock()

	if err := h.pool.Submit(func() { h.drain(gameID) }); err != nil {
		h.mu.Lock()
		if ch := h.games[gameID]; ch != nil {
			ch.draining = false
			ch.pending = nil
		}
		h.mu.Unlock()
		return crerr.Wrapf(err, "submit delivery for game=%s", gameID)
	}
	return nil
}

func (h *Hub) drain(gameID string) {
	for {
		h.mu.Lock()
		ch := h.games[gameID]
		if ch == nil {
			h.mu.Unlock()
			return
		}
		if len(ch.pending) == 0 {
			ch.draining = false
			h.pruneLocked(gameID, ch)
			h.mu.Unlock()
			return
		}
		frame := ch.pending[0]
		ch.pending[0] = nil
		ch.pending = ch.pending[1:]
		subs := make([]*Subscription, 0, len(ch.subs))
		for _, sub := range ch.subs {
			subs = append(subs, sub)
		}
		h.mu.Unlock()

		for _, sub := range subs {
			if !sub.offer(frame) {
				h.logger.Warn("realtime subscriber buffer full, frame dropped",
					"game_id", gameID,
					"subscription_id", sub.id,
					"dropped_total", sub.dropped.Load(),
				)
			}
		}
	}
}

func (h *Hub) hasSubscribers(gameID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := h.games[gameID]
	return ch != nil && len(ch.subs) > 0
}

func (h *Hub) SubscriberCount(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch := h.games[gameID]; ch != nil {
		return len(ch.subs)
	}
	return 0
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := h.games[sub.gameID]
	if ch == nil {
		return
	}
	delete(ch.subs, sub.id)
	h.pruneLocked(sub.gameID, ch)
}

func (h *Hub) pruneLocked(gameID string, ch *gameChannel) {
	if len(ch.subs) == 0 && len(ch.pending) == 0 && !ch.draining {
		delete(h.games, gameID)
	}
}

// Close stops delivery and closes every open subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	var subs []*Subscription
	for _, ch := range h.games {
		for _, sub := range ch.subs {
			subs = append(subs, sub)
		}
	}
	h.games = make(map[string]*gameChannel)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.shutdown()
	}
	h.pool.Release()
}

func (s *Subscription) GameID() string { return s.gameID }

// Frames is closed when the subscription or its hub closes.
func (s *Subscription) Frames() <-chan []byte { return s.frames }

func (s *Subscription) Dropped() int64 { return s.dropped.Load() }

func (s *Subscription) Close() {
	s.hub.unsubscribe(s)
	s.shutdown()
}

func (s *Subscription) shutdown() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.frames)
		s.mu.Unlock()
	})
}

func (s *Subscription) offer(frame []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.frames <- frame:
		return true
	default:
		s.dropped.Add(1)
		return false
	}
}
