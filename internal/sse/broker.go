// Package sse pushes note, session and screen changes to browsers as
// Server-Sent Events.
package sse

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/starford/jotpad/internal/models"
)

const (
	clientBuffer = 64
	queueSize    = 256

	// keepAlive is how often an idle stream gets a comment line so that
	// proxies do not drop the connection.
	keepAlive = 30 * time.Second
)

// Event is one SSE frame.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// outbound is a queued event. listChanged marks note changes, which may be
// followed by a throttled list.updated.
type outbound struct {
	event       Event
	listChanged bool
}

// Broker fans events out to connected streams.
//
// Every event goes through one queue, so clients receive events in the
// order they were published. A single goroutine owns the client set and
// the list throttle.
type Broker struct {
	listThrottle time.Duration

	queue chan outbound
	join  chan chan []byte
	leave chan chan []byte
	count chan chan int

	stop    chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker starts a broker. listThrottle is the minimum gap between two
// list.updated events.
func NewBroker(listThrottle time.Duration) *Broker {
	if listThrottle <= 0 {
		listThrottle = 2 * time.Second
	}
	b := &Broker{
		listThrottle: listThrottle,
		queue:        make(chan outbound, queueSize),
		join:         make(chan chan []byte),
		leave:        make(chan chan []byte),
		count:        make(chan chan int),
		stop:         make(chan struct{}),
		stopped:      make(chan struct{}),
	}
	go b.loop()
	return b
}

func (b *Broker) loop() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	var lastList time.Time

	send := func(ev Event) {
		frame, ok := encode(ev)
		if !ok {
			return
		}
		for ch := range clients {
			select {
			case ch <- frame:
			default:
				// slow client, drop
			}
		}
	}

	for {
		select {
		case <-b.stop:
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.join:
			clients[ch] = struct{}{}

		case ch := <-b.leave:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case out := <-b.queue:
			send(out.event)
			if !out.listChanged {
				continue
			}
			if now := time.Now(); now.Sub(lastList) >= b.listThrottle {
				lastList = now
				send(Event{Type: "list.updated", Data: struct{}{}})
			}

		case resp := <-b.count:
			resp <- len(clients)
		}
	}
}

func encode(ev Event) ([]byte, bool) {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return nil, false
	}
	var buf bytes.Buffer
	buf.WriteString("event: ")
	buf.WriteString(ev.Type)
	buf.WriteString("\ndata: ")
	buf.Write(data)
	buf.WriteString("\n\n")
	return buf.Bytes(), true
}

// Close stops the broker and closes every client channel. It is safe to
// call more than once.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stop)
	}
	<-b.stopped
}

// Subscribe registers a client. The channel is closed on Unsubscribe or
// Close.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, clientBuffer)
	if b.closed.Load() {
		close(ch)
		return ch
	}
	select {
	case b.join <- ch:
	case <-b.stopped:
		close(ch)
	}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.leave <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}
	resp := make(chan int, 1)
	select {
	case b.count <- resp:
	case <-b.stopped:
		return 0
	}
	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

func (b *Broker) enqueue(out outbound) {
	if b.closed.Load() {
		return
	}
	select {
	case b.queue <- out:
	case <-b.stopped:
	}
}

// Publish queues an event for every client.
func (b *Broker) Publish(ev Event) {
	b.enqueue(outbound{event: ev})
}

// PublishNoteEvent queues note.<kind> for id, followed by list.updated when
// the throttle allows.
func (b *Broker) PublishNoteEvent(kind string, id int64) {
	b.enqueue(outbound{
		event:       Event{Type: "note." + kind, Data: map[string]int64{"id": id}},
		listChanged: true,
	})
}

// NoteChanged implements noteservice.Notifier.
func (b *Broker) NoteChanged(kind string, id int64) {
	b.PublishNoteEvent(kind, id)
}

// SessionChanged implements noteservice.Notifier.
func (b *Broker) SessionChanged(st models.SessionState) {
	b.Publish(Event{Type: "session.changed", Data: st})
}

// ScreenChanged implements noteservice.Notifier.
func (b *Broker) ScreenChanged(s models.Screen) {
	b.Publish(Event{Type: "screen.changed", Data: map[string]models.Screen{"screen": s}})
}

// ServeHTTP streams events to one client (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ping := time.NewTicker(keepAlive)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ping.C:
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case frame, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(frame)
			flusher.Flush()
		}
	}
}
