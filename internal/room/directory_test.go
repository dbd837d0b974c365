package room

import (
	"strings"
	"testing"

	"github.com/Kelvination/Cornpanion/internal/rtdb"
)

func TestGenerateCodeFormat(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 10000; i++ {
		code := GenerateCode()
		if len(code) != CodeLength {
			t.Fatalf("expected %d characters, got %q", CodeLength, code)
		}
		for _, r := range code {
			if !strings.ContainsRune(codeAlphabet, r) {
				t.Fatalf("code %q contains %q, not in the alphabet", code, r)
			}
		}
		seen[code] = struct{}{}
	}
	// 10k draws over ~1M combinations should not degenerate.
	if len(seen) < 9000 {
		t.Fatalf("codes are not spread over the alphabet: %d distinct of 10000", len(seen))
	}
}

func TestCreateRoom(t *testing.T) {
	store := rtdb.NewStore()
	dir := NewDirectory(store, 0)

	code, err := dir.Create("u1", "Alice")
	if err != nil {
		t.Fatalf("should be able to create a room: %v", err)
	}
	if len(code) != CodeLength {
		t.Fatalf("unexpected room code %q", code)
	}

	doc, ok := store.Get(code)
	if !ok {
		t.Fatal("room document should exist")
	}
	if doc.Settings.ScoreLimit != 21 || !doc.Settings.BustRuleEnabled || doc.Settings.BustResetScore != 15 {
		t.Fatalf("room should start with default settings, got %+v", doc.Settings)
	}
	host := doc.ConnectedUsers["u1"]
	if !host.IsHost || host.Name != "Alice" {
		t.Fatalf("creator should be the host: %+v", host)
	}
}

func TestCreateRetriesOnCollision(t *testing.T) {
	store := rtdb.NewStore()
	dir := NewDirectory(store, 3)

	taken, err := dir.Create("u1", "Alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// First candidate collides with the existing room, second is free.
	codes := []string{taken, "FRSH"}
	dir.generate = func() string {
		code := codes[0]
		if len(codes) > 1 {
			codes = codes[1:]
		}
		return code
	}

	code, err := dir.Create("u2", "Bob")
	if err != nil {
		t.Fatalf("create should survive one collision: %v", err)
	}
	if code != "FRSH" {
		t.Fatalf("expected the retried code, got %q", code)
	}
}

func TestCreateExhaustsAttemptBudget(t *testing.T) {
	store := rtdb.NewStore()
	dir := NewDirectory(store, 3)

	taken, err := dir.Create("u1", "Alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	attempts := 0
	dir.generate = func() string {
		attempts++
		return taken
	}

	if _, err := dir.Create("u2", "Bob"); err != ErrNoFreeCode {
		t.Fatalf("expected ErrNoFreeCode, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", attempts)
	}
}

func TestJoinAndLeave(t *testing.T) {
	store := rtdb.NewStore()
	dir := NewDirectory(store, 0)

	code, _ := dir.Create("host", "Alice")

	user, err := dir.Join(code, "guest", "Bob")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if user.IsHost {
		t.Fatal("joining member must not be host")
	}

	doc, _ := store.Get(code)
	if len(doc.ConnectedUsers) != 2 {
		t.Fatalf("expected 2 members, got %d", len(doc.ConnectedUsers))
	}

	dir.Leave(code, "guest")
	doc, _ = store.Get(code)
	if _, ok := doc.ConnectedUsers["guest"]; ok {
		t.Fatal("guest should be removed")
	}
	if !store.Exists(code) {
		t.Fatal("guest leaving must not tear down the room")
	}
}

func TestJoinMissingRoom(t *testing.T) {
	dir := NewDirectory(rtdb.NewStore(), 0)
	if _, err := dir.Join("ZZZZ", "guest", "Bob"); err != ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestHostLeavingTearsDownRoom(t *testing.T) {
	store := rtdb.NewStore()
	dir := NewDirectory(store, 0)

	code, _ := dir.Create("host", "Alice")
	dir.Join(code, "guest", "Bob")

	dir.Leave(code, "host")
	if store.Exists(code) {
		t.Fatal("host leaving should tear down the room")
	}

	// Leaving again is a no-op, not a panic.
	dir.Leave(code, "guest")
}

func TestShareLink(t *testing.T) {
	got := ShareLink("https://cornpanion.app", "AB23")
	if got != "https://cornpanion.app?join=AB23" {
		t.Fatalf("unexpected share link %q", got)
	}
}
