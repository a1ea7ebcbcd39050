package game

import (
	"log/slog"
	"time"

	"github.com/prostkit/prost/internal/domain"
	"github.com/prostkit/prost/internal/errors"
)

// Engine drives a session through its lifecycle:
//
//	NOT_STARTED -> SELECTING_CHALLENGE -> AWAITING_OUTCOME
//	                      ^                    |
//	                      +--------------------+-> FINISHED
//
// All methods are synchronous and operate on session values; the engine
// holds no per-session state, only its injected randomness and clock. The
// caller owns the session and must serialize turns against it.
type Engine struct {
	rng Rand
	now func() time.Time
}

type Config struct {
	// Rand drives challenge selection and participant draws. Defaults to a
	// time-seeded source.
	Rand Rand
	// Now stamps result records. Defaults to time.Now.
	Now func() time.Time
}

func NewEngine(c Config) *Engine {
	e := &Engine{
		rng: c.Rand,
		now: c.Now,
	}
	if e.rng == nil {
		e.rng = NewRand()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Start moves a fresh session into challenge selection. An empty roster
// finishes the session immediately rather than erroring: there is nothing
// to play, which is an exhaustion condition, not a failure.
func (e *Engine) Start(s domain.Session) (domain.Session, error) {
	if s.Started() {
		return s, errors.New(errors.CodeFailedPrecondition,
			errors.WithMessagef("session %s is already started", s.SessionID))
	}

	if err := validateRoster(s); err != nil {
		return s, err
	}

	next := s.Clone()
	if next.UsedChallengeIDs == nil {
		next.UsedChallengeIDs = make(map[string]struct{})
	}
	next.TurnIndex = normalizeTurnIndex(next)
	next.StartTime = e.now()

	if next.RosterSize() == 0 {
		return finish(next, domain.EndRosterEmpty), nil
	}

	next.Phase = domain.PhaseSelectingChallenge
	return next, nil
}

// Resume brings a saved in-progress session back into challenge selection.
// A challenge that was in flight when the snapshot was taken is discarded
// and reselected through the regular pipeline.
func (e *Engine) Resume(s domain.Session) (domain.Session, error) {
	if s.Finished() {
		return s, errors.New(errors.CodeFailedPrecondition,
			errors.WithMessagef("session %s is already finished", s.SessionID))
	}
	if !s.Started() {
		return e.Start(s)
	}

	next := s.Clone()
	if next.UsedChallengeIDs == nil {
		next.UsedChallengeIDs = make(map[string]struct{})
	}
	next.TurnIndex = normalizeTurnIndex(next)
	next.CurrentChallenge = nil
	next.CurrentParticipants = nil
	next.Phase = domain.PhaseSelectingChallenge
	return next, nil
}

// NextChallenge filters the pool, selects a challenge and resolves its
// participants, moving the session to AWAITING_OUTCOME. An empty eligible
// pool finishes the session with the distinct challenges-exhausted reason.
//
// A selected challenge whose participants cannot be resolved is skipped
// and selection retries on the remaining pool, so a defective entry never
// wedges the session.
func (e *Engine) NextChallenge(s domain.Session, pool []domain.Challenge) (domain.Session, error) {
	if s.Finished() {
		return s, errors.New(errors.CodeFailedPrecondition,
			errors.WithMessagef("session %s is already finished", s.SessionID))
	}
	if s.Phase != domain.PhaseSelectingChallenge {
		return s, errors.New(errors.CodeFailedPrecondition,
			errors.WithMessagef("session %s is not selecting a challenge (phase %s)", s.SessionID, s.Phase))
	}

	eligible := FilterEligible(pool, s.UsedChallengeIDs, s.Mode)

	for len(eligible) > 0 {
		k := e.rng.IntN(len(eligible))
		ch := eligible[k]

		ps, err := ResolveParticipants(s, ch, e.rng)
		if err != nil {
			slog.Warn("game: skipping unresolvable challenge",
				"session", s.SessionID,
				"challenge", ch.ChallengeID,
				"error", err,
			)
			eligible = append(eligible[:k], eligible[k+1:]...)
			continue
		}

		next := s.Clone()
		next.CurrentChallenge = &ch
		next.CurrentParticipants = &ps
		next.Phase = domain.PhaseAwaitingOutcome
		return next, nil
	}

	return finish(s.Clone(), domain.EndChallengesExhausted), nil
}

// CompleteChallenge applies the reported outcome, then either finishes the
// session when its duration budget is met or advances the turn and loops
// back to challenge selection. The caller injects elapsed play time; the
// engine owns no timer, which keeps time-budget sessions testable.
func (e *Engine) CompleteChallenge(s domain.Session, o Outcome, elapsed time.Duration) (domain.Session, error) {
	if s.Finished() {
		return s, errors.New(errors.CodeFailedPrecondition,
			errors.WithMessagef("session %s is already finished", s.SessionID))
	}

	next, err := ApplyOutcome(s, o, e.now())
	if err != nil {
		return s, err
	}

	next.CurrentChallenge = nil
	next.CurrentParticipants = nil

	if durationReached(next, elapsed) {
		return finish(next, domain.EndDurationReached), nil
	}

	next = Advance(next)
	next.Phase = domain.PhaseSelectingChallenge
	return next, nil
}

func durationReached(s domain.Session, elapsed time.Duration) bool {
	switch s.Duration.Type {
	case domain.DurationChallenges:
		return len(s.Results) >= s.Duration.Value
	case domain.DurationTime:
		return elapsed >= time.Duration(s.Duration.Value)*time.Second
	default:
		return false
	}
}

func finish(s domain.Session, reason domain.EndReason) domain.Session {
	s.Phase = domain.PhaseFinished
	s.EndReason = reason
	s.CurrentChallenge = nil
	s.CurrentParticipants = nil
	return s
}

func validateRoster(s domain.Session) error {
	if s.Mode != domain.ModeTeams {
		return nil
	}
	for _, t := range s.Teams {
		if len(t.PlayerIDs) == 0 {
			return errors.New(errors.CodeInvalidArgument,
				errors.WithMessagef("team %s has no players", t.TeamID))
		}
	}
	return nil
}
