package domain

import (
	"time"
)

// GameMode decides whether players act individually or grouped into teams.
type GameMode string

const (
	ModeFreeForAll GameMode = "FREE_FOR_ALL"
	ModeTeams      GameMode = "TEAMS"
)

// ChallengeType decides how many participants a challenge involves and at
// what granularity (player vs team).
type ChallengeType string

const (
	TypeIndividual ChallengeType = "INDIVIDUAL"
	TypeOneOnOne   ChallengeType = "ONE_ON_ONE"
	TypeTeam       ChallengeType = "TEAM"
	TypeAllVsAll   ChallengeType = "ALL_VS_ALL"
)

// PunishmentKind tags what a failed challenge costs the target.
type PunishmentKind string

const (
	PunishmentSips   PunishmentKind = "sips"
	PunishmentCustom PunishmentKind = "custom"
)

// Punishment is a non-scoring consequence assigned on challenge failure.
type Punishment struct {
	Kind        PunishmentKind `json:"kind"`
	Sips        int            `json:"sips,omitempty"`
	Description string         `json:"description,omitempty"`
}

// Challenge is an immutable task definition. MiniGame carries opaque
// metadata for prebuilt mini-games; the core never interprets it, the
// delegate still reports completion through the regular outcome call.
type Challenge struct {
	ChallengeID string         `json:"challenge_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Type        ChallengeType  `json:"type"`
	Points      int            `json:"points"`
	CanReuse    bool           `json:"can_reuse"`
	Punishment  *Punishment    `json:"punishment,omitempty"`
	MiniGame    map[string]any `json:"mini_game,omitempty"`
	Custom      bool           `json:"custom,omitempty"`
}

// Player is created at setup time and never deleted mid-game. Score is
// mutated only by outcome application.
type Player struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
	Score    int    `json:"score"`
	TeamID   string `json:"team_id,omitempty"`
}

// Team owns its players through PlayerIDs only; it does not embed them.
type Team struct {
	TeamID    string   `json:"team_id"`
	Name      string   `json:"name"`
	Color     string   `json:"color,omitempty"`
	PlayerIDs []string `json:"player_ids"`
	Score     int      `json:"score"`
}

// DurationType selects which budget ends the game.
type DurationType string

const (
	DurationChallenges DurationType = "challenges"
	DurationTime       DurationType = "time"
)

// GameDuration is either a fixed number of challenges or a time budget in
// seconds, per Type.
type GameDuration struct {
	Type  DurationType `json:"type"`
	Value int          `json:"value"`
}

// AllVsAllScope says what ALL_VS_ALL means in TEAMS mode. The host sets it
// explicitly at session creation; it is never inferred.
type AllVsAllScope string

const (
	ScopeRepresentatives AllVsAllScope = "representatives"
	ScopeAllPlayers      AllVsAllScope = "all_players"
)

// ParticipantKind tags whether a participant set holds player or team IDs.
type ParticipantKind string

const (
	ParticipantsPlayers ParticipantKind = "players"
	ParticipantsTeams   ParticipantKind = "teams"
)

// ParticipantSet is the resolved participant list for one challenge
// instance. ParticipantIDs are the scoring entities (players or teams per
// Kind); SelectedPlayerIDs are the concrete players shown on screen, which
// differ from ParticipantIDs when a team participates through one member.
type ParticipantSet struct {
	Kind              ParticipantKind `json:"kind"`
	ParticipantIDs    []string        `json:"participant_ids"`
	SelectedPlayerIDs []string        `json:"selected_player_ids,omitempty"`
}

// Phase is the lifecycle state of a session.
type Phase string

const (
	PhaseNotStarted         Phase = "NOT_STARTED"
	PhaseSelectingChallenge Phase = "SELECTING_CHALLENGE"
	PhaseAwaitingOutcome    Phase = "AWAITING_OUTCOME"
	PhaseFinished           Phase = "FINISHED"
)

// EndReason says why a finished session ended. Pool exhaustion is a
// distinct outcome, never reported as a normal win.
type EndReason string

const (
	EndDurationReached     EndReason = "duration_reached"
	EndChallengesExhausted EndReason = "challenges_exhausted"
	EndRosterEmpty         EndReason = "roster_empty"
)

// Result is one append-only record of a challenge outcome. ScoreDeltas
// holds the per-participant score change, so current scores are replayable
// from the result log alone.
type Result struct {
	ResultID         string         `json:"result_id"`
	ChallengeID      string         `json:"challenge_id"`
	ParticipantIDs   []string       `json:"participant_ids"`
	Completed        bool           `json:"completed"`
	WinnerID         string         `json:"winner_id,omitempty"`
	ScoreDeltas      map[string]int `json:"score_deltas"`
	PunishmentTarget string         `json:"punishment_target,omitempty"`
	RecordTime       time.Time      `json:"record_time"`
}

// Session is the aggregate root of one running game. It is a plain value:
// the game engine operates on clones and returns new values, the host owns
// persistence and must serialize turns against one session.
type Session struct {
	SessionID string   `json:"session_id"`
	Mode      GameMode `json:"mode"`
	Players   []Player `json:"players"`
	Teams     []Team   `json:"teams,omitempty"`

	TurnIndex int `json:"turn_index"`
	Round     int `json:"round"`

	CurrentChallenge    *Challenge      `json:"current_challenge,omitempty"`
	CurrentParticipants *ParticipantSet `json:"current_participants,omitempty"`

	UsedChallengeIDs map[string]struct{} `json:"used_challenge_ids,omitempty"`
	Results          []Result            `json:"results"`

	Duration      GameDuration  `json:"duration"`
	AllVsAllScope AllVsAllScope `json:"all_vs_all_scope,omitempty"`

	Phase     Phase     `json:"phase"`
	EndReason EndReason `json:"end_reason,omitempty"`
	StartTime time.Time `json:"start_time"`
}

// Started reports whether the game left NOT_STARTED.
func (s *Session) Started() bool {
	return s.Phase != PhaseNotStarted
}

// Finished reports whether the session is terminal. Once true no further
// turns are processed.
func (s *Session) Finished() bool {
	return s.Phase == PhaseFinished
}

// RosterSize is the length of the active roster for the current mode.
func (s *Session) RosterSize() int {
	if s.Mode == ModeTeams {
		return len(s.Teams)
	}
	return len(s.Players)
}

// TeamByID returns the team with the given ID, or nil.
func (s *Session) TeamByID(id string) *Team {
	for i := range s.Teams {
		if s.Teams[i].TeamID == id {
			return &s.Teams[i]
		}
	}
	return nil
}

// PlayerByID returns the player with the given ID, or nil.
func (s *Session) PlayerByID(id string) *Player {
	for i := range s.Players {
		if s.Players[i].PlayerID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// ScoreOf returns the current score of a player or team by ID.
func (s *Session) ScoreOf(id string) (int, bool) {
	if p := s.PlayerByID(id); p != nil {
		return p.Score, true
	}
	if t := s.TeamByID(id); t != nil {
		return t.Score, true
	}
	return 0, false
}

// Clone deep-copies the session so reducers can return new values without
// sharing backing arrays with the input.
func (s Session) Clone() Session {
	c := s

	c.Players = append([]Player(nil), s.Players...)

	c.Teams = make([]Team, len(s.Teams))
	for i, t := range s.Teams {
		c.Teams[i] = t
		c.Teams[i].PlayerIDs = append([]string(nil), t.PlayerIDs...)
	}

	c.UsedChallengeIDs = make(map[string]struct{}, len(s.UsedChallengeIDs))
	for id := range s.UsedChallengeIDs {
		c.UsedChallengeIDs[id] = struct{}{}
	}

	c.Results = make([]Result, len(s.Results))
	for i, r := range s.Results {
		c.Results[i] = r
		c.Results[i].ParticipantIDs = append([]string(nil), r.ParticipantIDs...)
		c.Results[i].ScoreDeltas = make(map[string]int, len(r.ScoreDeltas))
		for k, v := range r.ScoreDeltas {
			c.Results[i].ScoreDeltas[k] = v
		}
	}

	if s.CurrentChallenge != nil {
		ch := *s.CurrentChallenge
		c.CurrentChallenge = &ch
	}
	if s.CurrentParticipants != nil {
		ps := *s.CurrentParticipants
		ps.ParticipantIDs = append([]string(nil), s.CurrentParticipants.ParticipantIDs...)
		ps.SelectedPlayerIDs = append([]string(nil), s.CurrentParticipants.SelectedPlayerIDs...)
		c.CurrentParticipants = &ps
	}

	return c
}

// Standings is the session's participants ordered by score descending.
type Standings struct {
	SessionID string
	Entries   []StandingsEntry
}

type StandingsEntry struct {
	ParticipantID string
	Score         float64
}
