package service

import (
	"encoding/json"
	"log"
	"time"

	"rossx/internal/models"
	"rossx/internal/repository"
)

// Nudger is implemented by the dispatcher; ledger services poke it after a
// transaction commits so events leave the outbox promptly.
type Nudger interface {
	Nudge()
}

func nudge(n Nudger) {
	if n != nil {
		n.Nudge()
	}
}

func appendEvent(events *repository.EventRepository, evType string, accountID int64, payload map[string]interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return events.Append(&models.Event{Type: evType, AccountID: accountID, Payload: string(b)})
}

// Sink delivers a committed ledger event to an external channel (Telegram,
// the admin websocket feed). Delivery is fire-and-forget relative to the
// ledger: a failing sink is logged, retried a few times, and then dropped.
type Sink interface {
	Deliver(ev *models.Event) error
}

const (
	dispatchBatch       = 50
	dispatchMaxAttempts = 5
)

// Dispatcher drains the event outbox and fans out to sinks. It runs after
// transactions commit, so notification failure can never roll back a
// financial mutation.
type Dispatcher struct {
	events   *repository.EventRepository
	sinks    []Sink
	interval time.Duration
	nudgeCh  chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewDispatcher(events *repository.EventRepository, interval time.Duration, sinks ...Sink) *Dispatcher {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Dispatcher{
		events:   events,
		sinks:    sinks,
		interval: interval,
		nudgeCh:  make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (d *Dispatcher) Nudge() {
	select {
	case d.nudgeCh <- struct{}{}:
	default:
	}
}

func (d *Dispatcher) Start() {
	go d.run()
}

func (d *Dispatcher) Stop() {
	close(d.stopCh)
	<-d.doneCh
}

func (d *Dispatcher) run() {
	defer close(d.doneCh)
	tick := time.NewTicker(d.interval)
	defer tick.Stop()
	for {
		select {
		case <-d.stopCh:
			return
		case <-d.nudgeCh:
			d.drain()
		case <-tick.C:
			d.drain()
		}
	}
}

func (d *Dispatcher) drain() {
	for {
		list, err := d.events.ListUndispatched(dispatchBatch)
		if err != nil {
			log.Printf("[dispatch] list events: %v", err)
			return
		}
		if len(list) == 0 {
			return
		}
		for i := range list {
			d.deliver(&list[i])
		}
		if len(list) < dispatchBatch {
			return
		}
	}
}

func (d *Dispatcher) deliver(ev *models.Event) {
	failed := false
	for _, sink := range d.sinks {
		if err := sink.Deliver(ev); err != nil {
			failed = true
			log.Printf("[dispatch] event %d (%s): %v", ev.ID, ev.Type, err)
		}
	}
	if failed && ev.Attempts+1 < dispatchMaxAttempts {
		if err := d.events.IncrementAttempts(ev.ID); err != nil {
			log.Printf("[dispatch] event %d attempts: %v", ev.ID, err)
		}
		return
	}
	if failed {
		log.Printf("[dispatch] event %d (%s): giving up after %d attempts", ev.ID, ev.Type, ev.Attempts+1)
	}
	if err := d.events.MarkDispatched(ev.ID, time.Now()); err != nil {
		log.Printf("[dispatch] event %d mark: %v", ev.ID, err)
	}
}

// decodePayload is shared by sinks that render event payloads.
func decodePayload(ev *models.Event) map[string]interface{} {
	out := map[string]interface{}{}
	if ev.Payload != "" {
		_ = json.Unmarshal([]byte(ev.Payload), &out)
	}
	return out
}
