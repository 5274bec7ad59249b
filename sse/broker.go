package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const defaultKeepalive = 30 * time.Second

type Event struct {
	ID   uint64
	Type string
	Data []byte
}

func (e *Event) writeTo(w io.Writer) {
	fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", e.ID, e.Type, e.Data)
}

// Broker fans events out to Server-Sent Events subscribers and keeps the
// last ringSize events so reconnecting clients can catch up.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[chan *Event]struct{}
	ring        []*Event
	ringSize    int
	nextID      uint64
	keepalive   time.Duration
}

func NewBroker(ringSize int) *Broker {
	return &Broker{
		subscribers: make(map[chan *Event]struct{}),
		ring:        make([]*Event, 0, ringSize),
		ringSize:    ringSize,
		nextID:      1,
		keepalive:   defaultKeepalive,
	}
}

// Publish encodes v as JSON and broadcasts it to all subscribers.
func (b *Broker) Publish(eventType string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", eventType, err)
	}

	b.mu.Lock()
	evt := &Event{ID: b.nextID, Type: eventType, Data: data}
	b.nextID++

	if len(b.ring) >= b.ringSize {
		b.ring = b.ring[1:]
	}
	b.ring = append(b.ring, evt)

	subs := make([]chan *Event, 0, len(b.subscribers))
	for ch := range b.subscribers {
		subs = append(subs, ch)
	}
	b.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- evt:
		default:
			// slow consumer, skip
		}
	}
	return nil
}

func (b *Broker) subscribe() chan *Event {
	ch := make(chan *Event, 64)
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) unsubscribe(ch chan *Event) {
	b.mu.Lock()
	delete(b.subscribers, ch)
	b.mu.Unlock()
}

// eventsAfter returns the buffered events newer than lastID. ok is false
// when lastID has already fallen out of the buffer.
func (b *Broker) eventsAfter(lastID uint64) (events []*Event, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.ring) == 0 {
		return nil, true
	}
	if lastID+1 < b.ring[0].ID {
		return nil, false
	}
	for _, e := range b.ring {
		if e.ID > lastID {
			events = append(events, e)
		}
	}
	return events, true
}

func (b *Broker) lastID() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.nextID - 1
}

func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Subscribe before replaying so nothing published in between is lost.
	ch := b.subscribe()
	defer b.unsubscribe(ch)

	var replayed uint64
	lastEventID := r.Header.Get("Last-Event-ID")
	if lastEventID == "" {
		lastEventID = r.URL.Query().Get("lastEventId")
	}
	if lastEventID != "" {
		if id, err := strconv.ParseUint(lastEventID, 10, 64); err == nil {
			events, ok := b.eventsAfter(id)
			if !ok {
				fmt.Fprintf(w, "id: %d\nevent: sync_required\ndata: {}\n\n", b.lastID())
			}
			for _, e := range events {
				e.writeTo(w)
				replayed = e.ID
			}
		}
	}

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(b.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-ch:
			if evt.ID <= replayed {
				continue
			}
			evt.writeTo(w)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprintf(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}

func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
