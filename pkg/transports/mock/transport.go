package mock

import (
	"encoding/json"
	"sync"

	"github.com/wordwhiz/wordwhiz/pkg/transports"
)

// Conn records every event sent through it. Test double for the session
// layer.
type Conn struct {
	ConnID string

	mu     sync.Mutex
	events []Sent
	closed bool
}

type Sent struct {
	Event string
	Data  json.RawMessage
}

func NewConn(id string) *Conn {
	if id == "" {
		id = "mock-conn"
	}
	return &Conn{ConnID: id}
}

func (c *Conn) ID() string { return c.ConnID }

func (c *Conn) SendEvent(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.events = append(c.events, Sent{Event: event, Data: payload})
	c.mu.Unlock()
	return nil
}

func (c *Conn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Events returns a snapshot of everything sent so far.
func (c *Conn) Events() []Sent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Sent(nil), c.events...)
}

// EventsNamed filters the snapshot by event name.
func (c *Conn) EventsNamed(name string) []Sent {
	var out []Sent
	for _, e := range c.Events() {
		if e.Event == name {
			out = append(out, e)
		}
	}
	return out
}

var _ transports.Conn = (*Conn)(nil)
