package catalog

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prostkit/prost/internal/domain"
	"github.com/prostkit/prost/internal/errors"
)

type Config struct {
	DB *pgxpool.Pool
}

// Service serves the challenge pool: the built-in set plus user-authored
// custom challenges persisted in storage.
type Service struct {
	db *pgxpool.Pool
}

func NewService(c Config) *Service {
	return &Service{
		db: c.DB,
	}
}

type CreateChallengeRequest struct {
	Title       string
	Description string
	Type        domain.ChallengeType
	Points      int
	CanReuse    bool
	Punishment  *domain.Punishment
}

// CreateChallenge stores a custom challenge. Titles are unique across
// custom challenges.
func (s *Service) CreateChallenge(ctx context.Context, req CreateChallengeRequest) (*domain.Challenge, error) {
	if err := validateChallenge(req); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate challenge ID: %w", err)
	}

	ch := domain.Challenge{
		ChallengeID: id.String(),
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Points:      req.Points,
		CanReuse:    req.CanReuse,
		Punishment:  req.Punishment,
		Custom:      true,
	}

	var punishment []byte
	if ch.Punishment != nil {
		punishment, err = json.Marshal(ch.Punishment)
		if err != nil {
			return nil, fmt.Errorf("marshal punishment: %w", err)
		}
	}

	const stmt = `
INSERT INTO challenges (challenge_id, title, description, challenge_type, points, can_reuse, punishment)
VALUES ($1, $2, $3, $4, $5, $6, $7);`

	_, err = s.db.Exec(ctx, stmt, ch.ChallengeID, ch.Title, ch.Description, string(ch.Type), ch.Points, ch.CanReuse, punishment)

	var pgErr *pgconn.PgError
	const codeUniqueViolation = "23505"
	if stderrors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return nil, errors.New(errors.CodeAlreadyExists,
			errors.WithMessagef("challenge with title %q already exists", ch.Title),
			errors.WithCause(err))
	}
	if err != nil {
		return nil, fmt.Errorf("insert challenge: %w", err)
	}

	return &ch, nil
}

// ListChallenges returns the full pool: built-in challenges followed by
// custom ones.
func (s *Service) ListChallenges(ctx context.Context) ([]domain.Challenge, error) {
	const stmt = `
SELECT challenge_id, title, description, challenge_type, points, can_reuse, punishment
FROM challenges
ORDER BY challenge_id;`

	rows, err := s.db.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}

	custom, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (domain.Challenge, error) {
		var (
			ch         domain.Challenge
			typ        string
			punishment []byte
		)
		if err := r.Scan(&ch.ChallengeID, &ch.Title, &ch.Description, &typ, &ch.Points, &ch.CanReuse, &punishment); err != nil {
			return domain.Challenge{}, err
		}
		ch.Type = domain.ChallengeType(typ)
		ch.Custom = true
		if len(punishment) > 0 {
			ch.Punishment = new(domain.Punishment)
			if err := json.Unmarshal(punishment, ch.Punishment); err != nil {
				return domain.Challenge{}, fmt.Errorf("unmarshal punishment: %w", err)
			}
		}
		return ch, nil
	})
	if err != nil {
		return nil, err
	}

	return append(Builtin(), custom...), nil
}

func validateChallenge(req CreateChallengeRequest) error {
	if req.Title == "" {
		return errors.New(errors.CodeInvalidArgument, errors.WithMessagef("challenge title is required"))
	}

	switch req.Type {
	case domain.TypeIndividual, domain.TypeOneOnOne, domain.TypeTeam, domain.TypeAllVsAll:
	default:
		return errors.New(errors.CodeInvalidArgument, errors.WithMessagef("unknown challenge type %q", req.Type))
	}

	if req.Points < 0 {
		return errors.New(errors.CodeInvalidArgument, errors.WithMessagef("points must not be negative"))
	}

	if p := req.Punishment; p != nil {
		switch p.Kind {
		case domain.PunishmentSips:
			if p.Sips <= 0 {
				return errors.New(errors.CodeInvalidArgument, errors.WithMessagef("sips punishment needs a positive sip count"))
			}
		case domain.PunishmentCustom:
			if p.Description == "" {
				return errors.New(errors.CodeInvalidArgument, errors.WithMessagef("custom punishment needs a description"))
			}
		default:
			return errors.New(errors.CodeInvalidArgument, errors.WithMessagef("unknown punishment kind %q", p.Kind))
		}
	}

	return nil
}
