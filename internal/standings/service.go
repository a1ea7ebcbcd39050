package standings

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prostkit/prost/internal/domain"
	"github.com/prostkit/prost/internal/errors"
	"github.com/prostkit/prost/internal/event"
)

const (
	publishInterval = 200 * time.Millisecond
)

type Config struct {
	EventBus *event.Bus
	Redis    redis.UniversalClient
	Prefix   string
}

// Service keeps the live standings of running sessions in redis sorted
// sets, fed by score events from outcome application.
type Service struct {
	eb     *event.Bus
	redis  redis.UniversalClient
	prefix string
}

func NewService(c Config) *Service {
	s := &Service{
		eb:     c.EventBus,
		redis:  c.Redis,
		prefix: c.Prefix,
	}

	s.eb.Subscribe(domain.EventNameScoreUpdated, func(ctx context.Context, e event.Event) error {
		return s.UpdateStandings(ctx, e.(domain.EventScoreUpdated))
	})

	return s
}

type GetStandingsRequest struct {
	SessionID string
}

// GetStandings returns all participants of a session ordered by score
// descending.
func (s *Service) GetStandings(ctx context.Context, req GetStandingsRequest) (*domain.Standings, error) {
	res, err := s.redis.ZRevRangeWithScores(ctx, s.standingsKey(req.SessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("get standings: %w", err)
	}

	if len(res) == 0 {
		return nil, errors.New(errors.CodeNotFound, errors.WithMessagef("standings not found: session=%s", req.SessionID))
	}

	entries := make([]domain.StandingsEntry, 0, len(res))
	for _, z := range res {
		entries = append(entries, domain.StandingsEntry{
			ParticipantID: z.Member.(string),
			Score:         z.Score,
		})
	}

	return &domain.Standings{
		SessionID: req.SessionID,
		Entries:   entries,
	}, nil
}

// UpdateStandings overwrites the participant's score in the session's
// sorted set.
func (s *Service) UpdateStandings(ctx context.Context, e domain.EventScoreUpdated) error {
	if err := s.redis.ZAdd(ctx, s.standingsKey(e.SessionID), redis.Z{
		Score:  float64(e.TotalScore),
		Member: e.ParticipantID,
	}).Err(); err != nil {
		return fmt.Errorf("update standings: %w", err)
	}

	return s.schedulePublishStandings(ctx, e)
}

// schedulePublishStandings publishes standings changes at most once per
// interval: one outcome fans out into one score event per participant, and
// publishing once per event would flood subscribers.
func (s *Service) schedulePublishStandings(ctx context.Context, e domain.EventScoreUpdated) error {
	ok, err := s.redis.SetNX(ctx, s.publishTimeKey(e.SessionID), e.Result.RecordTime.UnixMilli(), publishInterval).Result()
	if err != nil {
		return fmt.Errorf("setnx: %w", err)
	}

	if !ok {
		return nil
	}

	return s.publishStandings(ctx, e)
}

func (s *Service) publishStandings(ctx context.Context, e domain.EventScoreUpdated) error {
	st, err := s.GetStandings(ctx, GetStandingsRequest{
		SessionID: e.SessionID,
	})
	if err != nil {
		return fmt.Errorf("get standings failed: session=%s: %w", e.SessionID, err)
	}

	s.eb.Publish(ctx, domain.EventStandingsUpdated{
		Standings: *st,
	})

	return s.redis.Set(ctx, s.publishTimeKey(e.SessionID), e.Result.RecordTime.UnixMilli(), publishInterval).Err()
}

func (s *Service) standingsKey(session string) string {
	return fmt.Sprintf("%s:%s:standings", s.prefix, session)
}

func (s *Service) publishTimeKey(session string) string {
	return fmt.Sprintf("%s:%s:time", s.prefix, session)
}
