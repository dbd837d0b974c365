package room

import (
	"errors"
	"math/rand"
	"time"

	"github.com/Kelvination/Cornpanion/internal/game"
	"github.com/Kelvination/Cornpanion/internal/rtdb"
	"github.com/rs/zerolog/log"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrNoFreeCode   = errors.New("could not allocate a room code")
)

// Omits visually confusable characters (O, 0, 1, I).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const CodeLength = 4

const DefaultMaxAttempts = 10

// Directory allocates room codes and tracks membership on top of the
// document store. The creating member is the host; the host leaving tears
// the whole room down.
type Directory struct {
	store       *rtdb.Store
	maxAttempts int
	generate    func() string
}

func NewDirectory(store *rtdb.Store, maxAttempts int) *Directory {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Directory{store: store, maxAttempts: maxAttempts, generate: GenerateCode}
}

// Create allocates a fresh room with default settings and state and the
// caller as host. Code generation retries on collision up to the attempt
// budget and fails with ErrNoFreeCode once it is exhausted.
func (d *Directory) Create(userID, userName string) (string, error) {
	if userName == "" {
		userName = "Host"
	}
	host := game.ConnectedUser{
		ID:       userID,
		Name:     userName,
		IsHost:   true,
		JoinedAt: time.Now().UTC(),
	}
	doc := rtdb.Document{
		Settings:       game.DefaultSettings(),
		GameState:      game.DefaultState(),
		ConnectedUsers: map[string]game.ConnectedUser{userID: host},
		CreatedAt:      time.Now().UTC(),
	}

	for attempt := 0; attempt < d.maxAttempts; attempt++ {
		code := d.generate()
		if d.store.Create(code, doc) {
			log.Info().Str("room", code).Str("host", userID).Msg("room created")
			return code, nil
		}
	}
	return "", ErrNoFreeCode
}

// Join adds the caller to an existing room's member set.
func (d *Directory) Join(roomID, userID, userName string) (game.ConnectedUser, error) {
	if userName == "" {
		userName = "Guest"
	}
	user := game.ConnectedUser{
		ID:       userID,
		Name:     userName,
		JoinedAt: time.Now().UTC(),
	}
	if err := d.store.PutMember(roomID, user); err != nil {
		return game.ConnectedUser{}, ErrRoomNotFound
	}
	log.Info().Str("room", roomID).Str("user", userID).Msg("member joined")
	return user, nil
}

// Leave removes the caller's membership record. When the host leaves the
// whole room is torn down and everyone else's subscription reports
// not-found. Leaving a room that is already gone is a no-op.
func (d *Directory) Leave(roomID, userID string) {
	doc, ok := d.store.Get(roomID)
	if !ok {
		return
	}
	isHost := doc.ConnectedUsers[userID].IsHost
	_ = d.store.RemoveMember(roomID, userID)
	if isHost {
		d.store.Delete(roomID)
		log.Info().Str("room", roomID).Msg("host left, room torn down")
	}
}

// IsHost reports whether userID is the room's host.
func (d *Directory) IsHost(roomID, userID string) bool {
	doc, ok := d.store.Get(roomID)
	return ok && doc.ConnectedUsers[userID].IsHost
}

// GenerateCode returns one candidate room code, 4 characters drawn
// uniformly from the unambiguous alphabet.
func GenerateCode() string {
	b := make([]byte, CodeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}

// ShareLink builds the shareable join reference for a room.
func ShareLink(baseURL, roomID string) string {
	return baseURL + "?join=" + roomID
}
