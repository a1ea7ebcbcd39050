package game

import (
	"log/slog"

	"github.com/prostkit/prost/internal/domain"
	"github.com/prostkit/prost/internal/errors"
)

// normalizeTurnIndex clamps a corrupt turn index back to 0. Out-of-range
// is a defect state, not an expected input, so it is logged and healed
// rather than returned as an error.
func normalizeTurnIndex(s domain.Session) int {
	n := s.RosterSize()
	if n == 0 {
		return 0
	}
	if s.TurnIndex < 0 || s.TurnIndex >= n {
		slog.Warn("game: turn index out of range, clamping to 0",
			"session", s.SessionID,
			"turn_index", s.TurnIndex,
			"roster_size", n,
		)
		return 0
	}
	return s.TurnIndex
}

// Advance moves the turn to the next roster slot round-robin and counts
// one more round. The round counter increments once per challenge, not per
// full cycle. A roster of one always resolves to slot 0.
func Advance(s domain.Session) domain.Session {
	next := s.Clone()

	n := s.RosterSize()
	if n == 0 {
		return next
	}

	next.TurnIndex = (normalizeTurnIndex(s) + 1) % n
	next.Round++
	return next
}

// CurrentParticipantID returns the ID of the player (free-for-all) or team
// (teams mode) whose turn it is.
func CurrentParticipantID(s domain.Session) (string, error) {
	if s.RosterSize() == 0 {
		return "", errors.New(errors.CodeFailedPrecondition,
			errors.WithMessagef("session %s has an empty roster", s.SessionID))
	}

	i := normalizeTurnIndex(s)
	if s.Mode == domain.ModeTeams {
		return s.Teams[i].TeamID, nil
	}
	return s.Players[i].PlayerID, nil
}
