// Package session holds ephemeral per-user conversation state that sequences
// multi-step deposit/investment input. It is advisory only: all monetary
// mutation goes through the ledger services, never through this store. State
// lives in process memory and is lost on restart; abandoned flows simply
// require the user to start over.
package session

import (
	"sync"
	"time"
)

type Stage string

const (
	StageNone                     Stage = "none"
	StageAwaitingDepositProof     Stage = "awaiting_deposit_proof"
	StageAwaitingScreenshot       Stage = "awaiting_screenshot"
	StageAwaitingInvestmentAmount Stage = "awaiting_investment_amount"
	StageAwaitingCustomAmount     Stage = "awaiting_custom_amount"
)

// State is the payload carried between steps of a flow.
type State struct {
	Stage            Stage  `json:"stage"`
	AmountPaise      int64  `json:"amount_paise,omitempty"`
	CollectionHandle string `json:"collection_handle,omitempty"`
	PlanID           string `json:"plan_id,omitempty"`
	DepositID        uint   `json:"deposit_id,omitempty"`
}

type entry struct {
	state   State
	touched time.Time
}

// Store maps user ids to conversation state with a TTL. The single mutex also
// serializes two messages from the same user racing on a stage transition;
// different users never contend for long since operations are map lookups.
type Store struct {
	mu      sync.Mutex
	entries map[int64]*entry
	ttl     time.Duration
}

func NewStore(ttl time.Duration) *Store {
	s := &Store{
		entries: make(map[int64]*entry),
		ttl:     ttl,
	}
	go s.sweep()
	return s
}

// Get returns the user's current state, or a zero StageNone state.
func (s *Store) Get(userID int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok || s.expired(e) {
		return State{Stage: StageNone}
	}
	return e.state
}

func (s *Store) Set(userID int64, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = &entry{state: st, touched: time.Now()}
}

func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
}

// Update applies fn to the user's state under the store lock, so a
// read-modify-write across a stage transition cannot interleave with another
// message from the same user.
func (s *Store) Update(userID int64, fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok || s.expired(e) {
		e = &entry{state: State{Stage: StageNone}}
		s.entries[userID] = e
	}
	if err := fn(&e.state); err != nil {
		return err
	}
	e.touched = time.Now()
	return nil
}

func (s *Store) expired(e *entry) bool {
	return s.ttl > 0 && time.Since(e.touched) > s.ttl
}

func (s *Store) sweep() {
	if s.ttl <= 0 {
		return
	}
	tick := time.NewTicker(time.Minute)
	for range tick.C {
		s.mu.Lock()
		for id, e := range s.entries {
			if s.expired(e) {
				delete(s.entries, id)
			}
		}
		s.mu.Unlock()
	}
}
