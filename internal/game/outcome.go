package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/prostkit/prost/internal/domain"
	"github.com/prostkit/prost/internal/errors"
)

// Outcome is the completion signal the presentation layer reports for the
// in-flight challenge. ExplicitScores lets delegated mini-games report
// their own per-participant deltas.
type Outcome struct {
	Completed      bool
	WinnerID       string
	ExplicitScores map[string]int
}

// ApplyOutcome applies a completion signal to the session and appends the
// result record. It is atomic: validation happens before any mutation, and
// on error the input session is returned untouched. In every path that
// records an outcome, a non-reusable challenge is marked used.
//
// Punishment policy on failure: an INDIVIDUAL challenge punishes its sole
// participant; a competitive challenge punishes the unique non-winner when
// a winner was declared; with no winner and no unique loser, no punishment
// is assigned without an explicit target.
func ApplyOutcome(s domain.Session, o Outcome, now time.Time) (domain.Session, error) {
	if s.Finished() {
		return s, errors.New(errors.CodeFailedPrecondition,
			errors.WithMessagef("session %s is already finished", s.SessionID))
	}
	if s.Phase != domain.PhaseAwaitingOutcome || s.CurrentChallenge == nil || s.CurrentParticipants == nil {
		return s, errors.New(errors.CodeFailedPrecondition,
			errors.WithMessagef("session %s has no challenge awaiting an outcome", s.SessionID))
	}

	ch := *s.CurrentChallenge
	ps := *s.CurrentParticipants

	deltas, err := scoreDeltas(ch, ps, o)
	if err != nil {
		return s, err
	}

	punishmentTarget := ""
	if !o.Completed && ch.Punishment != nil {
		punishmentTarget = resolvePunishmentTarget(ch, ps, o)
	}

	next := s.Clone()

	for id, delta := range deltas {
		if delta == 0 {
			continue
		}
		if p := next.PlayerByID(id); p != nil {
			p.Score += delta
			continue
		}
		if t := next.TeamByID(id); t != nil {
			t.Score += delta
		}
	}

	next.Results = append(next.Results, domain.Result{
		ResultID:         uuid.NewString(),
		ChallengeID:      ch.ChallengeID,
		ParticipantIDs:   append([]string(nil), ps.ParticipantIDs...),
		Completed:        o.Completed,
		WinnerID:         o.WinnerID,
		ScoreDeltas:      deltas,
		PunishmentTarget: punishmentTarget,
		RecordTime:       now,
	})

	if !ch.CanReuse {
		next.UsedChallengeIDs[ch.ChallengeID] = struct{}{}
	}

	return next, nil
}

// scoreDeltas computes the per-participant score changes for an outcome,
// or a validation error when the outcome is incomplete.
func scoreDeltas(ch domain.Challenge, ps domain.ParticipantSet, o Outcome) (map[string]int, error) {
	deltas := make(map[string]int, len(ps.ParticipantIDs))
	for _, id := range ps.ParticipantIDs {
		deltas[id] = 0
	}

	if !o.Completed {
		return deltas, nil
	}

	if len(o.ExplicitScores) > 0 {
		for id, delta := range o.ExplicitScores {
			if _, ok := deltas[id]; !ok {
				return nil, errors.New(errors.CodeInvalidArgument,
					errors.WithMessagef("explicit score names %s, which is not a participant", id))
			}
			deltas[id] = delta
		}
		return deltas, nil
	}

	if ch.Type == domain.TypeIndividual {
		deltas[ps.ParticipantIDs[0]] = ch.Points
		return deltas, nil
	}

	if o.WinnerID == "" {
		return nil, errors.New(errors.CodeInvalidArgument,
			errors.WithMessagef("challenge %s is competitive: a winner must be selected", ch.ChallengeID))
	}
	if _, ok := deltas[o.WinnerID]; !ok {
		return nil, errors.New(errors.CodeInvalidArgument,
			errors.WithMessagef("winner %s is not a participant of challenge %s", o.WinnerID, ch.ChallengeID))
	}

	deltas[o.WinnerID] = ch.Points
	return deltas, nil
}

func resolvePunishmentTarget(ch domain.Challenge, ps domain.ParticipantSet, o Outcome) string {
	if ch.Type == domain.TypeIndividual {
		return ps.ParticipantIDs[0]
	}

	if o.WinnerID == "" {
		return ""
	}

	target := ""
	for _, id := range ps.ParticipantIDs {
		if id == o.WinnerID {
			continue
		}
		if target != "" {
			// More than one loser: no unique target.
			return ""
		}
		target = id
	}
	return target
}
