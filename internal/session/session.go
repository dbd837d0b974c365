package session

import (
	"errors"
	"sync"

	"github.com/Kelvination/Cornpanion/internal/game"
	"github.com/Kelvination/Cornpanion/internal/rtdb"
)

type Mode string

const (
	ModeSolo Mode = "solo"
	ModeHost Mode = "host"
	ModeJoin Mode = "join"
)

var (
	ErrNotPermitted = errors.New("not permitted to edit this game")
	ErrRoomClosed   = errors.New("room no longer exists")
)

// Session holds the current settings and state pair for one active game,
// solo or networked.
//
// Solo sessions own their state and persist every commit to device-local
// storage. Networked sessions are a thin proxy over the document store: the
// current pair is whatever the room document holds, a mutation reads it,
// runs the rules engine and publishes the result. Permission is checked here
// before any mutation; the rules engine itself never fails.
type Session struct {
	mu     sync.Mutex
	mode   Mode
	roomID string
	userID string
	isHost bool

	// solo only
	local    *LocalStore
	settings game.Settings
	state    game.State

	// networked only
	store *rtdb.Store
}

// NewSolo opens the device's solo session, loading persisted settings and
// state or their defaults.
func NewSolo(local *LocalStore) *Session {
	return &Session{
		mode:     ModeSolo,
		local:    local,
		settings: local.LoadSettings(),
		state:    local.LoadState(),
	}
}

// NewNetworked attaches to the shared document of an existing room.
func NewNetworked(store *rtdb.Store, roomID, userID string, isHost bool) (*Session, error) {
	if !store.Exists(roomID) {
		return nil, ErrRoomClosed
	}
	mode := ModeJoin
	if isHost {
		mode = ModeHost
	}
	return &Session{mode: mode, store: store, roomID: roomID, userID: userID, isHost: isHost}, nil
}

func (s *Session) Mode() Mode     { return s.mode }
func (s *Session) RoomID() string { return s.roomID }
func (s *Session) IsHost() bool   { return s.isHost }

// Snapshot returns the current settings and state.
func (s *Session) Snapshot() (game.Settings, game.State, error) {
	if s.mode == ModeSolo {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.settings, s.state, nil
	}
	doc, ok := s.store.Get(s.roomID)
	if !ok {
		return game.Settings{}, game.State{}, ErrRoomClosed
	}
	return doc.Settings, doc.GameState, nil
}

func (s *Session) AddPoints(team, points int) error {
	return s.mutate(func(state game.State, settings game.Settings) game.State {
		return game.AddPoints(team, points, state, settings)
	})
}

// Bust drops a team's score to the bust reset value.
func (s *Session) Bust(team int) error {
	return s.mutate(func(state game.State, settings game.Settings) game.State {
		return game.ResetTeamScore(team, state, settings)
	})
}

// Override sets a team's score to an exact value.
func (s *Session) Override(team, score int) error {
	return s.mutate(func(state game.State, settings game.Settings) game.State {
		return game.SetTeamScore(team, score, state, settings)
	})
}

func (s *Session) Undo() error {
	return s.mutate(func(state game.State, _ game.Settings) game.State {
		return game.Undo(state)
	})
}

func (s *Session) Reset() error {
	return s.mutate(func(game.State, game.Settings) game.State {
		return game.Reset()
	})
}

// UpdateSettings validates and commits a partial settings update. Only the
// host (or the solo player) may touch settings.
func (s *Session) UpdateSettings(patch game.SettingsPatch) error {
	if s.mode == ModeSolo {
		s.mu.Lock()
		defer s.mu.Unlock()
		merged := patch.Apply(s.settings)
		if err := merged.Validate(); err != nil {
			return err
		}
		s.settings = merged
		return s.local.SaveSettings(merged)
	}

	if !s.isHost {
		return ErrNotPermitted
	}
	doc, ok := s.store.Get(s.roomID)
	if !ok {
		return ErrRoomClosed
	}
	if err := patch.Apply(doc.Settings).Validate(); err != nil {
		return err
	}
	if err := s.store.MergeSettings(s.roomID, patch); err != nil {
		return ErrRoomClosed
	}
	return nil
}

func (s *Session) mutate(op func(game.State, game.Settings) game.State) error {
	if s.mode == ModeSolo {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.state = op(s.state, s.settings)
		return s.local.SaveState(s.state)
	}

	doc, ok := s.store.Get(s.roomID)
	if !ok {
		return ErrRoomClosed
	}
	if !s.isHost && !doc.Settings.AllowOthersToEditScore {
		return ErrNotPermitted
	}
	next := op(doc.GameState, doc.Settings)
	if err := s.store.PutGameState(s.roomID, next); err != nil {
		return ErrRoomClosed
	}
	return nil
}
