package answers

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/deeg9/rfqengine/internal/blueprint"
)

// Listener is notified synchronously after every effective Set.
type Listener func(id blueprint.FieldID, value Value)

// Store is the live mapping of field id to current answer value.
// Writes come from a single goroutine (the UI interaction loop); the
// mutex serializes them against snapshot readers such as the assistant
// notifier's timer goroutine.
type Store struct {
	mu        sync.Mutex
	values    map[blueprint.FieldID]Value
	index     *blueprint.Index // nil in permissive mode
	listeners map[int]Listener
	nextSub   int
}

// NewStore creates a strict store bound to a blueprint index: Set rejects
// keys the blueprint does not declare, and pre-seeded table row values are
// loaded as initial answers.
func NewStore(idx *blueprint.Index) *Store {
	s := &Store{
		values:    make(map[blueprint.FieldID]Value),
		index:     idx,
		listeners: make(map[int]Listener),
	}
	for _, id := range idx.AllFieldIDs() {
		ref, _ := idx.FindField(id)
		if ref.Row != nil && ref.Row.Value != "" {
			s.values[id] = Text{Text: ref.Row.Value}
		}
	}
	return s
}

// NewPermissiveStore creates a store with no blueprint binding. Used at
// the submission boundary where the answer map is treated as opaque.
func NewPermissiveStore() *Store {
	return &Store{
		values:    make(map[blueprint.FieldID]Value),
		listeners: make(map[int]Listener),
	}
}

// Get returns the current value for a field, if any.
func (s *Store) Get(id blueprint.FieldID) (Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[id]
	return v, ok
}

// Set replaces the value for a field and notifies subscribers.
// Setting an identical value is a no-op and produces no notification.
// In strict mode, a key the blueprint does not declare is rejected.
func (s *Store) Set(id blueprint.FieldID, value Value) error {
	if value == nil {
		return fmt.Errorf("field %s: nil answer value", id)
	}

	s.mu.Lock()
	if s.index != nil {
		if _, ok := s.index.FindField(id); !ok {
			s.mu.Unlock()
			return fmt.Errorf("field %s: not declared by blueprint %s", id, s.index.Blueprint().FormID)
		}
	}

	if prev, ok := s.values[id]; ok && reflect.DeepEqual(prev, value) {
		s.mu.Unlock()
		return nil
	}
	s.values[id] = value

	notify := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		notify = append(notify, l)
	}
	s.mu.Unlock()

	for _, l := range notify {
		l(id, value)
	}
	return nil
}

// Delete removes a field's answer. Clearing is an effective change and
// notifies subscribers with a nil value.
func (s *Store) Delete(id blueprint.FieldID) {
	s.mu.Lock()
	if _, ok := s.values[id]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.values, id)
	notify := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		notify = append(notify, l)
	}
	s.mu.Unlock()

	for _, l := range notify {
		l(id, nil)
	}
}

// Subscribe registers a listener and returns its unsubscribe function.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Snapshot returns a copy of the current answer map. Values are treated
// as immutable once stored, so a shallow copy suffices.
func (s *Store) Snapshot() map[blueprint.FieldID]Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[blueprint.FieldID]Value, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Len returns the number of answered fields.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

// MarshalSnapshot encodes the current answers as a flat JSON object
// keyed by field id, in the tagged wire form. This is the payload the
// submission boundary and the draft store receive.
func (s *Store) MarshalSnapshot() ([]byte, error) {
	snap := s.Snapshot()
	raw := make(map[string]json.RawMessage, len(snap))
	for id, v := range snap {
		data, err := MarshalValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", id, err)
		}
		raw[string(id)] = data
	}
	return json.Marshal(raw)
}

// LoadSnapshot replaces the store contents from a MarshalSnapshot
// payload. Strict-mode stray keys are rejected, matching Set.
func (s *Store) LoadSnapshot(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding answer snapshot: %w", err)
	}
	for key, payload := range raw {
		v, err := UnmarshalValue(payload)
		if err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
		if err := s.Set(blueprint.FieldID(key), v); err != nil {
			return err
		}
	}
	return nil
}
