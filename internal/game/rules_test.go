package game

import (
	"testing"
)

func testSettings() Settings {
	s := DefaultSettings()
	return s
}

func TestApplyBustRule(t *testing.T) {
	settings := testSettings() // limit 21, reset 15, bust enabled

	cases := []struct {
		score int
		want  int
	}{
		{-5, -5},
		{0, 0},
		{15, 15},
		{20, 20},
		{21, 21}, // exactly the limit is not a bust
		{22, 15},
		{100, 15},
	}
	for _, c := range cases {
		if got := ApplyBustRule(c.score, settings); got != c.want {
			t.Fatalf("ApplyBustRule(%d) = %d, want %d", c.score, got, c.want)
		}
	}

	settings.BustRuleEnabled = false
	if got := ApplyBustRule(50, settings); got != 50 {
		t.Fatalf("with bust disabled expected identity, got %d", got)
	}
}

func TestAddPointsBustFires(t *testing.T) {
	settings := testSettings()
	state := DefaultState()

	// 22 points in one throw crosses the limit and gets redirected to the
	// bust reset score before the win check can observe it.
	next := AddPoints(1, 22, state, settings)
	if next.Team1Score != 15 {
		t.Fatalf("expected team1 score 15 after bust, got %d", next.Team1Score)
	}
	if next.IsGameOver {
		t.Fatal("bust-adjusted score should not end the game")
	}
	if next.ThrowingTeam != 1 {
		t.Fatalf("scoring team throws next, got %d", next.ThrowingTeam)
	}
	if next.RoundNumber != state.RoundNumber+1 {
		t.Fatalf("expected round %d, got %d", state.RoundNumber+1, next.RoundNumber)
	}
}

func TestAddPointsWinsOnExactLimit(t *testing.T) {
	settings := testSettings()
	state := DefaultState()
	state.Team1Score = 20

	next := AddPoints(1, 1, state, settings)
	if next.Team1Score != 21 {
		t.Fatalf("expected team1 score 21, got %d", next.Team1Score)
	}
	if !next.IsGameOver {
		t.Fatal("reaching the limit should end the game")
	}
	if next.WinningTeam != 1 {
		t.Fatalf("expected team 1 to win, got %d", next.WinningTeam)
	}
}

func TestAddPointsWinWithBustDisabled(t *testing.T) {
	settings := testSettings()
	settings.BustRuleEnabled = false
	state := DefaultState()
	state.Team2Score = 19

	next := AddPoints(2, 6, state, settings)
	if next.Team2Score != 25 {
		t.Fatalf("expected team2 score 25, got %d", next.Team2Score)
	}
	if !next.IsGameOver || next.WinningTeam != 2 {
		t.Fatalf("expected team 2 win, got over=%v winner=%d", next.IsGameOver, next.WinningTeam)
	}
}

func TestWinTieBreakFavorsTeam1(t *testing.T) {
	settings := testSettings()
	settings.BustRuleEnabled = false
	state := DefaultState()
	state.Team1Score = 20
	state.Team2Score = 21

	next := AddPoints(1, 1, state, settings)
	if next.Team1Score != 21 || next.Team2Score != 21 {
		t.Fatalf("expected 21/21, got %d/%d", next.Team1Score, next.Team2Score)
	}
	if next.WinningTeam != 1 {
		t.Fatalf("tie should favor team 1, got winner %d", next.WinningTeam)
	}
}

func TestAddPointsClampsAtZero(t *testing.T) {
	settings := testSettings()
	state := DefaultState()
	state.Team1Score = 2

	next := AddPoints(1, -3, state, settings)
	if next.Team1Score != 0 {
		t.Fatalf("expected score clamped to 0, got %d", next.Team1Score)
	}
}

func TestResetTeamScore(t *testing.T) {
	settings := testSettings()
	state := DefaultState()
	state.Team1Score = 18
	state.Team2Score = 12
	state.IsGameOver = true
	state.WinningTeam = 1

	next := ResetTeamScore(1, state, settings)
	if next.Team1Score != settings.BustResetScore {
		t.Fatalf("expected team1 score %d, got %d", settings.BustResetScore, next.Team1Score)
	}
	if next.Team2Score != 12 {
		t.Fatalf("team2 score should be untouched, got %d", next.Team2Score)
	}
	if next.ThrowingTeam != 2 {
		t.Fatalf("throw should pass to the other team, got %d", next.ThrowingTeam)
	}
	if next.IsGameOver || next.WinningTeam != 0 {
		t.Fatal("reset should clear the game-over flag")
	}
	if next.RoundNumber != state.RoundNumber+1 {
		t.Fatalf("expected round %d, got %d", state.RoundNumber+1, next.RoundNumber)
	}
}

func TestSetTeamScore(t *testing.T) {
	settings := testSettings()
	state := DefaultState()
	state.Team2Score = 7

	next := SetTeamScore(2, 19, state, settings)
	if next.Team2Score != 19 {
		t.Fatalf("expected team2 score 19, got %d", next.Team2Score)
	}
	if next.ThrowingTeam != 1 {
		t.Fatalf("throw should pass to the other team, got %d", next.ThrowingTeam)
	}

	// The override is still subject to the bust rule.
	next = SetTeamScore(2, 25, state, settings)
	if next.Team2Score != settings.BustResetScore {
		t.Fatalf("expected bust reset %d, got %d", settings.BustResetScore, next.Team2Score)
	}

	// And to the win check.
	next = SetTeamScore(2, 21, state, settings)
	if !next.IsGameOver || next.WinningTeam != 2 {
		t.Fatalf("expected team 2 win, got over=%v winner=%d", next.IsGameOver, next.WinningTeam)
	}
}

func TestUndoIsLeftInverse(t *testing.T) {
	settings := testSettings()
	state := DefaultState()
	state.Team1Score = 9
	state.Team2Score = 14
	state.RoundNumber = 6
	state.ThrowingTeam = 2

	ops := map[string]func(State) State{
		"addPoints":      func(s State) State { return AddPoints(1, 3, s, settings) },
		"resetTeamScore": func(s State) State { return ResetTeamScore(2, s, settings) },
		"setTeamScore":   func(s State) State { return SetTeamScore(1, 21, s, settings) },
	}
	for name, op := range ops {
		got := Undo(op(state))
		if got != state {
			t.Fatalf("%s: undo did not restore the prior state: got %+v want %+v", name, got, state)
		}
	}
}

func TestUndoDepthIsExactlyOne(t *testing.T) {
	settings := testSettings()
	state := AddPoints(1, 3, DefaultState(), settings)

	once := Undo(state)
	if once.LastScoreUpdate != nil {
		t.Fatal("undo should consume the history")
	}
	twice := Undo(once)
	if twice != once {
		t.Fatalf("second undo should be a no-op: got %+v want %+v", twice, once)
	}
}

func TestUndoWithoutHistoryIsNoop(t *testing.T) {
	state := DefaultState()
	if got := Undo(state); got != state {
		t.Fatalf("undo without history should return the state unchanged, got %+v", got)
	}
}

func TestReset(t *testing.T) {
	state := Reset()
	if state.Team1Score != 0 || state.Team2Score != 0 {
		t.Fatal("reset should zero both scores")
	}
	if state.RoundNumber != 1 || state.ThrowingTeam != 1 {
		t.Fatalf("expected round 1 and team 1 throwing, got %d/%d", state.RoundNumber, state.ThrowingTeam)
	}
	if state.IsGameOver || state.WinningTeam != 0 || state.LastScoreUpdate != nil {
		t.Fatal("reset state should carry no result and no history")
	}
}

func TestOperationsDoNotMutateInput(t *testing.T) {
	settings := testSettings()
	state := DefaultState()
	state.Team1Score = 5
	before := state

	AddPoints(1, 3, state, settings)
	ResetTeamScore(1, state, settings)
	SetTeamScore(2, 10, state, settings)
	Undo(state)

	if state != before {
		t.Fatalf("input state was mutated: got %+v want %+v", state, before)
	}
}

func TestSettingsValidate(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	s.ScoreLimit = 0
	if err := s.Validate(); err != ErrScoreLimit {
		t.Fatalf("expected ErrScoreLimit, got %v", err)
	}

	s = DefaultSettings()
	s.BustResetScore = 21
	if err := s.Validate(); err != ErrBustResetScore {
		t.Fatalf("expected ErrBustResetScore, got %v", err)
	}

	s = DefaultSettings()
	s.BustResetScore = -1
	if err := s.Validate(); err != ErrBustResetScore {
		t.Fatalf("expected ErrBustResetScore, got %v", err)
	}

	// Out-of-range reset score is fine while the bust rule is off.
	s = DefaultSettings()
	s.BustRuleEnabled = false
	s.BustResetScore = 30
	if err := s.Validate(); err != nil {
		t.Fatalf("bust disabled should skip the reset score check: %v", err)
	}
}

func TestSettingsPatchApply(t *testing.T) {
	s := DefaultSettings()
	limit := 15
	allow := true
	patch := SettingsPatch{ScoreLimit: &limit, AllowOthersToEditScore: &allow}

	got := patch.Apply(s)
	if got.ScoreLimit != 15 || !got.AllowOthersToEditScore {
		t.Fatalf("patched fields not applied: %+v", got)
	}
	if got.BustResetScore != s.BustResetScore || got.Team1 != s.Team1 {
		t.Fatal("unpatched fields should be untouched")
	}
}
