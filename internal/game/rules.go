package game

// Pure scoring rules. Every function returns a new State and leaves its
// inputs untouched; callers are responsible for validation and permission
// checks, so nothing in here can fail.

// ApplyBustRule redirects a score that exceeded the limit back to the bust
// reset value. Landing exactly on the limit is not a bust.
func ApplyBustRule(score int, settings Settings) int {
    if !settings.BustRuleEnabled {
        return score
    }
    if score > settings.ScoreLimit {
        return settings.BustResetScore
    }
    return score
}

// AddPoints adds points (possibly negative) to a team's score. The bust rule
// is applied to the new score before the win check ever sees it, so with bust
// enabled a win is only reachable by landing exactly on the limit. The team
// that scored throws next. Scores are clamped at zero.
func AddPoints(team, points int, state State, settings Settings) State {
    next := snapshot(state)
    if team == 1 {
        next.Team1Score = ApplyBustRule(clampScore(state.Team1Score+points), settings)
    } else {
        next.Team2Score = ApplyBustRule(clampScore(state.Team2Score+points), settings)
    }
    next.ThrowingTeam = team
    next.RoundNumber++
    return checkWin(next, settings)
}

// ResetTeamScore is the manual BUST button: the team's score drops to the
// bust reset value regardless of its current value, and the throw passes to
// the other team.
func ResetTeamScore(team int, state State, settings Settings) State {
    next := snapshot(state)
    if team == 1 {
        next.Team1Score = settings.BustResetScore
    } else {
        next.Team2Score = settings.BustResetScore
    }
    next.ThrowingTeam = otherTeam(team)
    next.RoundNumber++
    next.IsGameOver = false
    next.WinningTeam = 0
    return next
}

// SetTeamScore is the manual override: the supplied score replaces the
// team's score, still subject to the bust rule and the win check.
func SetTeamScore(team, score int, state State, settings Settings) State {
    next := snapshot(state)
    if team == 1 {
        next.Team1Score = ApplyBustRule(clampScore(score), settings)
    } else {
        next.Team2Score = ApplyBustRule(clampScore(score), settings)
    }
    next.ThrowingTeam = otherTeam(team)
    next.RoundNumber++
    return checkWin(next, settings)
}

// Undo restores the single captured prior state. With no history it is a
// no-op, not an error; the history is consumed, so a second Undo in a row
// changes nothing.
func Undo(state State) State {
    prev := state.LastScoreUpdate
    if prev == nil {
        return state
    }
    return State{
        Team1Score:   prev.Team1Score,
        Team2Score:   prev.Team2Score,
        RoundNumber:  prev.RoundNumber,
        ThrowingTeam: prev.ThrowingTeam,
        IsGameOver:   prev.IsGameOver,
        WinningTeam:  prev.WinningTeam,
    }
}

// Reset returns the canonical zero state.
func Reset() State {
    return DefaultState()
}

func snapshot(state State) State {
    next := state
    next.LastScoreUpdate = &Snapshot{
        Team1Score:   state.Team1Score,
        Team2Score:   state.Team2Score,
        RoundNumber:  state.RoundNumber,
        ThrowingTeam: state.ThrowingTeam,
        IsGameOver:   state.IsGameOver,
        WinningTeam:  state.WinningTeam,
    }
    return next
}

// checkWin marks the game over once either score reaches the limit. Ties
// favor team 1.
func checkWin(state State, settings Settings) State {
    if state.Team1Score >= settings.ScoreLimit || state.Team2Score >= settings.ScoreLimit {
        state.IsGameOver = true
        if state.Team1Score >= state.Team2Score {
            state.WinningTeam = 1
        } else {
            state.WinningTeam = 2
        }
    } else {
        state.IsGameOver = false
        state.WinningTeam = 0
    }
    return state
}

func clampScore(score int) int {
    if score < 0 {
        return 0
    }
    return score
}

func otherTeam(team int) int {
    if team == 1 {
        return 2
    }
    return 1
}
