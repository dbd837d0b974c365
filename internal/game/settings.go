package game

import "errors"

var (
    ErrScoreLimit     = errors.New("score limit must be greater than zero")
    ErrBustResetScore = errors.New("bust reset score must be at least zero and below the score limit")
)

// Apply merges the patch onto settings field by field and returns the result.
func (p SettingsPatch) Apply(s Settings) Settings {
    if p.ScoreLimit != nil {
        s.ScoreLimit = *p.ScoreLimit
    }
    if p.BustRuleEnabled != nil {
        s.BustRuleEnabled = *p.BustRuleEnabled
    }
    if p.BustResetScore != nil {
        s.BustResetScore = *p.BustResetScore
    }
    if p.AllowOthersToEditScore != nil {
        s.AllowOthersToEditScore = *p.AllowOthersToEditScore
    }
    if p.Team1 != nil {
        s.Team1 = *p.Team1
    }
    if p.Team2 != nil {
        s.Team2 = *p.Team2
    }
    return s
}

// Validate rejects out-of-range settings at the input boundary, before they
// ever reach the rules engine.
func (s Settings) Validate() error {
    if s.ScoreLimit <= 0 {
        return ErrScoreLimit
    }
    if s.BustRuleEnabled && (s.BustResetScore < 0 || s.BustResetScore >= s.ScoreLimit) {
        return ErrBustResetScore
    }
    return nil
}
