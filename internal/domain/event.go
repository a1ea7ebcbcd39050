package domain

const (
	EventNameTurnStarted        = "turn.started"
	EventNameScoreUpdated       = "score.updated"
	EventNamePunishmentAssigned = "punishment.assigned"
	EventNameStandingsUpdated   = "standings.updated"
	EventNameGameFinished       = "game.finished"
)

// EventTurnStarted fires when a challenge has been selected and its
// participants resolved.
type EventTurnStarted struct {
	SessionID    string
	Round        int
	Challenge    Challenge
	Participants ParticipantSet
}

func (EventTurnStarted) Name() string { return EventNameTurnStarted }

// EventScoreUpdated fires once per participant whose score changed when an
// outcome was applied.
type EventScoreUpdated struct {
	SessionID     string
	ParticipantID string
	Delta         int
	TotalScore    int
	Result        Result
}

func (EventScoreUpdated) Name() string { return EventNameScoreUpdated }

// EventPunishmentAssigned fires when a failed challenge resolved to a
// concrete punishment target.
type EventPunishmentAssigned struct {
	SessionID string
	TargetID  string
	Result    Result
}

func (EventPunishmentAssigned) Name() string { return EventNamePunishmentAssigned }

type EventStandingsUpdated struct {
	Standings Standings
}

func (EventStandingsUpdated) Name() string { return EventNameStandingsUpdated }

// EventGameFinished fires exactly once per session, when it becomes
// terminal for any end reason.
type EventGameFinished struct {
	Session Session
}

func (EventGameFinished) Name() string { return EventNameGameFinished }
