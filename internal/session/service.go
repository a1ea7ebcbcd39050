package session

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prostkit/prost/internal/catalog"
	"github.com/prostkit/prost/internal/domain"
	"github.com/prostkit/prost/internal/errors"
	"github.com/prostkit/prost/internal/event"
	"github.com/prostkit/prost/internal/game"
)

type Config struct {
	DB       *pgxpool.Pool
	EventBus *event.Bus
	Catalog  *catalog.Service
	Engine   *game.Engine
}

// Service owns game sessions: it drives the game engine turn by turn,
// keeps the authoritative session snapshot in storage, mirrors the result
// log append-only, and publishes domain events for standings and
// notifications.
//
// Turns are serialized per session: one challenge is in flight at a time
// and no two outcomes are applied concurrently against the same session.
type Service struct {
	db      *pgxpool.Pool
	eb      *event.Bus
	catalog *catalog.Service
	engine  *game.Engine

	locks sync.Map // session ID -> *sync.Mutex
}

func NewService(c Config) *Service {
	return &Service{
		db:      c.DB,
		eb:      c.EventBus,
		catalog: c.Catalog,
		engine:  c.Engine,
	}
}

func (s *Service) lock(sessionID string) func() {
	mu, _ := s.locks.LoadOrStore(sessionID, new(sync.Mutex))
	mu.(*sync.Mutex).Lock()
	return mu.(*sync.Mutex).Unlock
}

// CreateSessionRequest carries the host-supplied setup: game mode,
// roster, duration and the ALL_VS_ALL scope for teams mode.
type CreateSessionRequest struct {
	Mode          domain.GameMode
	Players       []domain.Player
	Teams         []domain.Team
	Duration      domain.GameDuration
	AllVsAllScope domain.AllVsAllScope
}

// CreateSession validates the setup and stores a fresh NOT_STARTED
// session.
func (s *Service) CreateSession(ctx context.Context, req CreateSessionRequest) (*domain.Session, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	ss := domain.Session{
		SessionID:        id.String(),
		Mode:             req.Mode,
		Players:          req.Players,
		Teams:            req.Teams,
		Duration:         req.Duration,
		AllVsAllScope:    req.AllVsAllScope,
		Phase:            domain.PhaseNotStarted,
		UsedChallengeIDs: make(map[string]struct{}),
		Results:          []domain.Result{},
	}

	// Scores start at zero so they stay replayable from the result log.
	for i := range ss.Players {
		if ss.Players[i].PlayerID == "" {
			ss.Players[i].PlayerID = uuid.NewString()
		}
		ss.Players[i].Score = 0
	}
	for i := range ss.Teams {
		ss.Teams[i].Score = 0
	}

	if err := s.insertSession(ctx, ss); err != nil {
		return nil, err
	}

	return &ss, nil
}

// StartGame starts a fresh session, or resumes a saved in-progress one
// through the same selection pipeline.
func (s *Service) StartGame(ctx context.Context, sessionID string) (*domain.Session, error) {
	defer s.lock(sessionID)()

	ss, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var next domain.Session
	if ss.Started() {
		next, err = s.engine.Resume(*ss)
	} else {
		next, err = s.engine.Start(*ss)
	}
	if err != nil {
		return nil, err
	}

	if err := s.saveSession(ctx, *ss, next); err != nil {
		return nil, err
	}

	if next.Finished() {
		s.eb.Publish(ctx, domain.EventGameFinished{Session: next})
	}

	return &next, nil
}

// NextChallenge selects the next challenge for the current turn holder and
// resolves its participants. An exhausted pool finishes the session with
// its distinct end reason.
func (s *Service) NextChallenge(ctx context.Context, sessionID string) (*domain.Session, error) {
	defer s.lock(sessionID)()

	ss, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	pool, err := s.catalog.ListChallenges(ctx)
	if err != nil {
		return nil, fmt.Errorf("load challenge pool: %w", err)
	}

	next, err := s.engine.NextChallenge(*ss, pool)
	if err != nil {
		return nil, err
	}

	if err := s.saveSession(ctx, *ss, next); err != nil {
		return nil, err
	}

	if next.Finished() {
		s.eb.Publish(ctx, domain.EventGameFinished{Session: next})
		return &next, nil
	}

	s.eb.Publish(ctx, domain.EventTurnStarted{
		SessionID:    next.SessionID,
		Round:        next.Round,
		Challenge:    *next.CurrentChallenge,
		Participants: *next.CurrentParticipants,
	})

	return &next, nil
}

// CompleteChallengeRequest mirrors the presentation layer's completion
// signal for the in-flight challenge.
type CompleteChallengeRequest struct {
	SessionID      string
	Completed      bool
	WinnerID       string
	ExplicitScores map[string]int
}

// CompleteChallenge applies the outcome, persists the snapshot and the
// appended result row atomically, then publishes score, punishment and
// finish events.
func (s *Service) CompleteChallenge(ctx context.Context, req CompleteChallengeRequest) (*domain.Session, error) {
	defer s.lock(req.SessionID)()

	ss, err := s.loadSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	elapsed := time.Duration(0)
	if !ss.StartTime.IsZero() {
		elapsed = time.Since(ss.StartTime)
	}

	next, err := s.engine.CompleteChallenge(*ss, game.Outcome{
		Completed:      req.Completed,
		WinnerID:       req.WinnerID,
		ExplicitScores: req.ExplicitScores,
	}, elapsed)
	if err != nil {
		return nil, err
	}

	if err := s.saveSession(ctx, *ss, next); err != nil {
		return nil, err
	}

	s.publishOutcomeEvents(ctx, next)

	return &next, nil
}

// GetSession returns the stored session.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.loadSession(ctx, sessionID)
}

func (s *Service) publishOutcomeEvents(ctx context.Context, ss domain.Session) {
	if len(ss.Results) > 0 {
		r := ss.Results[len(ss.Results)-1]

		for _, id := range r.ParticipantIDs {
			total, _ := ss.ScoreOf(id)
			s.eb.Publish(ctx, domain.EventScoreUpdated{
				SessionID:     ss.SessionID,
				ParticipantID: id,
				Delta:         r.ScoreDeltas[id],
				TotalScore:    total,
				Result:        r,
			})
		}

		if r.PunishmentTarget != "" {
			s.eb.Publish(ctx, domain.EventPunishmentAssigned{
				SessionID: ss.SessionID,
				TargetID:  r.PunishmentTarget,
				Result:    r,
			})
		}
	}

	if ss.Finished() {
		s.eb.Publish(ctx, domain.EventGameFinished{Session: ss})
	}
}

func (s *Service) insertSession(ctx context.Context, ss domain.Session) error {
	snapshot, err := json.Marshal(ss)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	const stmt = `
INSERT INTO game_sessions (session_id, phase, finished, snapshot, create_time, update_time)
VALUES ($1, $2, $3, $4, NOW(), NOW());`

	if _, err := s.db.Exec(ctx, stmt, ss.SessionID, string(ss.Phase), ss.Finished(), snapshot); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

func (s *Service) loadSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	const stmt = `SELECT snapshot FROM game_sessions WHERE session_id = $1;`

	var snapshot []byte
	err := s.db.QueryRow(ctx, stmt, sessionID).Scan(&snapshot)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.New(errors.CodeNotFound,
			errors.WithMessagef("session %s not found", sessionID))
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	ss := new(domain.Session)
	if err := json.Unmarshal(snapshot, ss); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if ss.UsedChallengeIDs == nil {
		ss.UsedChallengeIDs = make(map[string]struct{})
	}

	return ss, nil
}

// saveSession writes the new snapshot and mirrors results appended since
// the previous state into the append-only result log, in one transaction.
func (s *Service) saveSession(ctx context.Context, prev, next domain.Session) (err error) {
	snapshot, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = stderrors.Join(err, tx.Rollback(ctx))
		}
	}()

	const (
		updSessionStmt = `
UPDATE game_sessions SET phase = $2, finished = $3, snapshot = $4, update_time = NOW()
WHERE session_id = $1;`
		insResultStmt = `
INSERT INTO game_results (result_id, session_id, challenge_id, participant_ids, completed, winner_id, score_deltas, punishment_target, record_time)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	)

	_, err = tx.Exec(ctx, updSessionStmt, next.SessionID, string(next.Phase), next.Finished(), snapshot)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	for _, r := range next.Results[len(prev.Results):] {
		participants, err := json.Marshal(r.ParticipantIDs)
		if err != nil {
			return fmt.Errorf("marshal participants: %w", err)
		}
		deltas, err := json.Marshal(r.ScoreDeltas)
		if err != nil {
			return fmt.Errorf("marshal score deltas: %w", err)
		}

		_, err = tx.Exec(ctx, insResultStmt,
			r.ResultID, next.SessionID, r.ChallengeID, participants, r.Completed, r.WinnerID, deltas, r.PunishmentTarget, r.RecordTime)
		if err != nil {
			return fmt.Errorf("insert result: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func validateCreate(req CreateSessionRequest) error {
	switch req.Mode {
	case domain.ModeFreeForAll:
		if len(req.Teams) > 0 {
			return errors.New(errors.CodeInvalidArgument,
				errors.WithMessagef("free-for-all sessions cannot have teams"))
		}
	case domain.ModeTeams:
		if len(req.Teams) == 0 {
			return errors.New(errors.CodeInvalidArgument,
				errors.WithMessagef("teams mode needs at least one team"))
		}
		switch req.AllVsAllScope {
		case domain.ScopeRepresentatives, domain.ScopeAllPlayers:
		default:
			return errors.New(errors.CodeInvalidArgument,
				errors.WithMessagef("teams mode needs an explicit all-vs-all scope"))
		}
	default:
		return errors.New(errors.CodeInvalidArgument,
			errors.WithMessagef("unknown game mode %q", req.Mode))
	}

	switch req.Duration.Type {
	case domain.DurationChallenges, domain.DurationTime:
		if req.Duration.Value <= 0 {
			return errors.New(errors.CodeInvalidArgument,
				errors.WithMessagef("game duration must be positive"))
		}
	default:
		return errors.New(errors.CodeInvalidArgument,
			errors.WithMessagef("unknown duration type %q", req.Duration.Type))
	}

	return nil
}
