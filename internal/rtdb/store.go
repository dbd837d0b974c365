package rtdb

import (
	"errors"
	"sync"
	"time"

	"github.com/Kelvination/Cornpanion/internal/game"
	"github.com/rs/zerolog/log"
)

var ErrRoomNotFound = errors.New("room not found")

// Document is the shared per-room record replicated to every member.
type Document struct {
	Settings       game.Settings                 `json:"settings"`
	GameState      game.State                    `json:"gameState"`
	ConnectedUsers map[string]game.ConnectedUser `json:"connectedUsers"`
	CreatedAt      time.Time                     `json:"createdAt"`
}

// Snapshot is one subscription delivery: the full document after a change.
// Exists is false when the room has been torn down (or never existed);
// subscribers must treat that as a forced leave.
type Snapshot struct {
	RoomID string
	Exists bool
	Doc    Document
}

// Store is an in-process real-time document store: documents keyed by room
// id, last-write-wins updates, and continuous subscriptions that echo every
// write back to all listeners, the writer included.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*Document
	subs map[string]map[*subscriber]struct{}
}

type subscriber struct {
	ch   chan Snapshot
	once sync.Once
}

const subscriberBuffer = 16

func NewStore() *Store {
	return &Store{
		docs: make(map[string]*Document),
		subs: make(map[string]map[*subscriber]struct{}),
	}
}

// Create registers a fresh document under roomID, overwriting nothing:
// the second return is false when the id is already taken.
func (s *Store) Create(roomID string, doc Document) bool {
	s.mu.Lock()
	if _, taken := s.docs[roomID]; taken {
		s.mu.Unlock()
		return false
	}
	d := doc
	if d.ConnectedUsers == nil {
		d.ConnectedUsers = make(map[string]game.ConnectedUser)
	}
	s.docs[roomID] = &d
	s.mu.Unlock()

	s.notify(roomID)
	return true
}

func (s *Store) Exists(roomID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.docs[roomID]
	return ok
}

func (s *Store) Get(roomID string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[roomID]
	if !ok {
		return Document{}, false
	}
	return copyDocument(d), true
}

// PutGameState overwrites the document's game state wholesale.
func (s *Store) PutGameState(roomID string, state game.State) error {
	s.mu.Lock()
	d, ok := s.docs[roomID]
	if !ok {
		s.mu.Unlock()
		return ErrRoomNotFound
	}
	d.GameState = state
	s.mu.Unlock()

	s.notify(roomID)
	return nil
}

// MergeSettings applies a partial settings update, merging field by field.
func (s *Store) MergeSettings(roomID string, patch game.SettingsPatch) error {
	s.mu.Lock()
	d, ok := s.docs[roomID]
	if !ok {
		s.mu.Unlock()
		return ErrRoomNotFound
	}
	d.Settings = patch.Apply(d.Settings)
	s.mu.Unlock()

	s.notify(roomID)
	return nil
}

// PutMember writes a single member record under the room's member set.
func (s *Store) PutMember(roomID string, user game.ConnectedUser) error {
	s.mu.Lock()
	d, ok := s.docs[roomID]
	if !ok {
		s.mu.Unlock()
		return ErrRoomNotFound
	}
	d.ConnectedUsers[user.ID] = user
	s.mu.Unlock()

	s.notify(roomID)
	return nil
}

func (s *Store) RemoveMember(roomID, userID string) error {
	s.mu.Lock()
	d, ok := s.docs[roomID]
	if !ok {
		s.mu.Unlock()
		return ErrRoomNotFound
	}
	delete(d.ConnectedUsers, userID)
	s.mu.Unlock()

	s.notify(roomID)
	return nil
}

// Delete tears the room down. Remaining subscribers receive a final
// not-found snapshot; deleting a missing room is a no-op.
func (s *Store) Delete(roomID string) {
	s.mu.Lock()
	_, ok := s.docs[roomID]
	delete(s.docs, roomID)
	s.mu.Unlock()

	if ok {
		s.notify(roomID)
	}
}

// Subscribe registers a continuous listener for roomID. It fires once
// immediately with the current snapshot and then on every change, own
// writes included. The returned cancel stops delivery and is safe to call
// more than once.
func (s *Store) Subscribe(roomID string, onChange func(Snapshot)) (cancel func()) {
	sub := &subscriber{ch: make(chan Snapshot, subscriberBuffer)}

	s.mu.Lock()
	if s.subs[roomID] == nil {
		s.subs[roomID] = make(map[*subscriber]struct{})
	}
	s.subs[roomID][sub] = struct{}{}
	s.mu.Unlock()

	go func() {
		for snap := range sub.ch {
			onChange(snap)
		}
	}()

	// Initial delivery, mirroring the change path.
	sub.deliver(s.snapshot(roomID))

	return func() {
		s.mu.Lock()
		if set, ok := s.subs[roomID]; ok {
			delete(set, sub)
			if len(set) == 0 {
				delete(s.subs, roomID)
			}
		}
		s.mu.Unlock()
		sub.once.Do(func() { close(sub.ch) })
	}
}

func (s *Store) snapshot(roomID string) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[roomID]
	if !ok {
		return Snapshot{RoomID: roomID}
	}
	return Snapshot{RoomID: roomID, Exists: true, Doc: copyDocument(d)}
}

func (s *Store) notify(roomID string) {
	snap := s.snapshot(roomID)

	s.mu.RLock()
	subs := make([]*subscriber, 0, len(s.subs[roomID]))
	for sub := range s.subs[roomID] {
		subs = append(subs, sub)
	}
	s.mu.RUnlock()

	for _, sub := range subs {
		sub.deliver(snap)
	}
}

func (sub *subscriber) deliver(snap Snapshot) {
	// Losing the race against cancel closing the channel is fine, the
	// listener is gone either way.
	defer func() { _ = recover() }()
	select {
	case sub.ch <- snap:
	default:
		log.Warn().Str("room", snap.RoomID).Msg("dropping snapshot for slow subscriber")
	}
}

func copyDocument(d *Document) Document {
	out := *d
	out.ConnectedUsers = make(map[string]game.ConnectedUser, len(d.ConnectedUsers))
	for id, u := range d.ConnectedUsers {
		out.ConnectedUsers[id] = u
	}
	return out
}
