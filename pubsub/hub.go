package pubsub

import "sync"

const sessionBuffer = 256

// Session is one live registration against one topic. Its channel is drained
// by whatever transport serves the subscriber; the hub only enqueues.
type Session struct {
	id    int64
	topic string
	ch    chan Event
}

func (s *Session) Topic() string { return s.topic }

// Events is the session's delivery channel. It is closed when the session is
// cancelled; it never errors.
func (s *Session) Events() <-chan Event { return s.ch }

// Hub routes events to sessions by exact topic string. Topics come into
// existence on first subscribe and go away when their last session leaves.
type Hub struct {
	mu     sync.RWMutex
	nextID int64
	topics map[string]map[int64]*Session
}

func NewHub() *Hub {
	return &Hub{topics: map[string]map[int64]*Session{}}
}

// Subscribe registers a new session under topic and returns it together with
// a cancel func. Cancel is idempotent: it removes the session and closes its
// channel on first call, and is a no-op afterwards.
func (h *Hub) Subscribe(topic string) (*Session, func()) {
	h.mu.Lock()
	h.nextID++
	sess := &Session{id: h.nextID, topic: topic, ch: make(chan Event, sessionBuffer)}
	set, ok := h.topics[topic]
	if !ok {
		set = map[int64]*Session{}
		h.topics[topic] = set
	}
	set[sess.id] = sess
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		set, ok := h.topics[topic]
		if !ok {
			return
		}
		if _, ok := set[sess.id]; !ok {
			return
		}
		delete(set, sess.id)
		if len(set) == 0 {
			delete(h.topics, topic)
		}
		close(sess.ch)
	}
	return sess, cancel
}

// Publish delivers ev to every session registered under topic at call time.
// Each delivery is an independent non-blocking enqueue; a full session
// buffer drops the event for that session only.
func (h *Hub) Publish(topic string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sess := range h.topics[topic] {
		select {
		case sess.ch <- ev:
		default:
			// Delivery is best-effort if a subscriber is too slow.
		}
	}
}
