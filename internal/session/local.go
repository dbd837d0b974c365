package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/Kelvination/Cornpanion/internal/game"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Record names match the keys the app has always persisted under.
const (
	settingsRecord = "cornpanion-soloSettings"
	stateRecord    = "cornpanion-soloState"
	deviceIDRecord = "cornpanion-userId"
)

// LocalStore is the device-local persistence for solo play: two named JSON
// records plus the device identity, all surviving restarts.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{dir: dir}, nil
}

// LoadSettings returns the persisted solo settings, or the documented
// defaults when no record exists yet.
func (l *LocalStore) LoadSettings() game.Settings {
	var stored game.Settings
	if l.loadRecord(settingsRecord, &stored) {
		return stored
	}
	return game.DefaultSettings()
}

func (l *LocalStore) SaveSettings(settings game.Settings) error {
	return l.saveRecord(settingsRecord, settings)
}

// LoadState returns the persisted solo game state, or the zero state when
// no record exists yet.
func (l *LocalStore) LoadState() game.State {
	var stored game.State
	if l.loadRecord(stateRecord, &stored) {
		return stored
	}
	return game.DefaultState()
}

func (l *LocalStore) SaveState(state game.State) error {
	return l.saveRecord(stateRecord, state)
}

// DeviceID returns the persistent per-device identity, generating and
// storing one on first use.
func (l *LocalStore) DeviceID() (string, error) {
	path := filepath.Join(l.dir, deviceIDRecord)
	b, err := os.ReadFile(path)
	if err == nil && len(b) > 0 {
		return strings.TrimSpace(string(b)), nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	id := uuid.NewString()
	if err := os.WriteFile(path, []byte(id), 0o644); err != nil {
		return "", err
	}
	return id, nil
}

func (l *LocalStore) loadRecord(name string, v any) bool {
	b, err := os.ReadFile(filepath.Join(l.dir, name+".json"))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(b, v); err != nil {
		log.Warn().Str("record", name).Err(err).Msg("ignoring corrupt local record")
		return false
	}
	return true
}

func (l *LocalStore) saveRecord(name string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(l.dir, name+".json"), b, 0o644)
}
