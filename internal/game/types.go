package game

import (
    "time"
)

type TeamColor string

const (
    ColorRed    TeamColor = "red"
    ColorBlue   TeamColor = "blue"
    ColorGreen  TeamColor = "green"
    ColorYellow TeamColor = "yellow"
    ColorPurple TeamColor = "purple"
    ColorOrange TeamColor = "orange"
    ColorCustom TeamColor = "custom"
)

type Team struct {
    Name  string    `json:"name"`
    Color TeamColor `json:"color"`
    Score int       `json:"score"` // display-only, authoritative scores live in State
}

type Settings struct {
    ScoreLimit             int  `json:"scoreLimit"`
    BustRuleEnabled        bool `json:"bustRuleEnabled"`
    BustResetScore         int  `json:"bustResetScore"`
    AllowOthersToEditScore bool `json:"allowOthersToEditScore"`
    Team1                  Team `json:"team1"`
    Team2                  Team `json:"team2"`
}

// SettingsPatch is a partial settings update; nil fields are left untouched.
type SettingsPatch struct {
    ScoreLimit             *int  `json:"scoreLimit,omitempty"`
    BustRuleEnabled        *bool `json:"bustRuleEnabled,omitempty"`
    BustResetScore         *int  `json:"bustResetScore,omitempty"`
    AllowOthersToEditScore *bool `json:"allowOthersToEditScore,omitempty"`
    Team1                  *Team `json:"team1,omitempty"`
    Team2                  *Team `json:"team2,omitempty"`
}

// Snapshot is the complete prior state captured before a mutation.
// It backs exactly one level of undo.
type Snapshot struct {
    Team1Score   int  `json:"team1PrevScore"`
    Team2Score   int  `json:"team2PrevScore"`
    RoundNumber  int  `json:"roundNumberPrev"`
    ThrowingTeam int  `json:"throwingTeamPrev"`
    IsGameOver   bool `json:"isGameOverPrev"`
    WinningTeam  int  `json:"winningTeamPrev,omitempty"`
}

type State struct {
    Team1Score      int       `json:"team1Score"`
    Team2Score      int       `json:"team2Score"`
    RoundNumber     int       `json:"roundNumber"`
    ThrowingTeam    int       `json:"throwingTeam"` // 1 or 2
    IsGameOver      bool      `json:"isGameOver"`
    WinningTeam     int       `json:"winningTeam,omitempty"` // 1 or 2, zero while game is live
    LastScoreUpdate *Snapshot `json:"lastScoreUpdate,omitempty"`
}

type ConnectedUser struct {
    ID       string    `json:"id"`
    Name     string    `json:"name"`
    IsHost   bool      `json:"isHost"`
    JoinedAt time.Time `json:"joinedAt"`
}

func DefaultSettings() Settings {
    return Settings{
        ScoreLimit:      21,
        BustRuleEnabled: true,
        BustResetScore:  15,
        Team1:           Team{Name: "Team Red", Color: ColorRed},
        Team2:           Team{Name: "Team Blue", Color: ColorBlue},
    }
}

func DefaultState() State {
    return State{
        RoundNumber:  1,
        ThrowingTeam: 1,
    }
}
