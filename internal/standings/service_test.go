package standings_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/prostkit/prost/internal/domain"
	"github.com/prostkit/prost/internal/event"
	"github.com/prostkit/prost/internal/standings"
)

func TestService_UpdateStandings(t *testing.T) {
	s, _ := makeService(t)

	err := s.UpdateStandings(context.Background(), scoreUpdated("s1", "p1", 2))
	require.NoError(t, err)
	err = s.UpdateStandings(context.Background(), scoreUpdated("s1", "p2", 5))
	require.NoError(t, err)

	resp, err := s.GetStandings(context.Background(), standings.GetStandingsRequest{
		SessionID: "s1",
	})
	require.NoError(t, err)

	want := &domain.Standings{
		SessionID: "s1",
		Entries: []domain.StandingsEntry{
			{ParticipantID: "p2", Score: 5},
			{ParticipantID: "p1", Score: 2},
		},
	}
	require.Equal(t, want, resp)
}

func TestService_UpdateStandings_OverwritesScore(t *testing.T) {
	s, _ := makeService(t)

	require.NoError(t, s.UpdateStandings(context.Background(), scoreUpdated("s1", "p1", 2)))
	require.NoError(t, s.UpdateStandings(context.Background(), scoreUpdated("s1", "p1", 7)))

	resp, err := s.GetStandings(context.Background(), standings.GetStandingsRequest{SessionID: "s1"})
	require.NoError(t, err)
	require.Equal(t, []domain.StandingsEntry{{ParticipantID: "p1", Score: 7}}, resp.Entries)
}

func TestService_GetStandings_NotFound(t *testing.T) {
	s, _ := makeService(t)

	_, err := s.GetStandings(context.Background(), standings.GetStandingsRequest{
		SessionID: "missing",
	})
	require.Error(t, err)
}

func TestService_PublishStandingsUpdated(t *testing.T) {
	type (
		inputs struct {
			receivedEvents []domain.EventScoreUpdated
		}

		outputs struct {
			publishedEvents []domain.EventStandingsUpdated
		}
	)

	tests := map[string]struct {
		arrange func() inputs
		assert  func(t *testing.T, out outputs)
	}{
		"should publish standings.updated after receiving score.updated": {
			arrange: func() inputs {
				return inputs{
					receivedEvents: []domain.EventScoreUpdated{
						scoreUpdated("s1", "p1", 2),
					},
				}
			},

			assert: func(t *testing.T, out outputs) {
				require.Len(t, out.publishedEvents, 1, "should receive 1 standings updated event")
				require.Equal(t, domain.Standings{
					SessionID: "s1",
					Entries: []domain.StandingsEntry{
						{ParticipantID: "p1", Score: 2},
					},
				}, out.publishedEvents[0].Standings)
			},
		},

		"should publish separately for different sessions": {
			arrange: func() inputs {
				return inputs{
					receivedEvents: []domain.EventScoreUpdated{
						scoreUpdated("s1", "p1", 2),
						scoreUpdated("s2", "p2", 3),
					},
				}
			},

			assert: func(t *testing.T, out outputs) {
				require.Len(t, out.publishedEvents, 2, "should receive 2 standings updated events")
			},
		},

		"should publish once for a burst of score updates in one session": {
			arrange: func() inputs {
				return inputs{
					receivedEvents: []domain.EventScoreUpdated{
						scoreUpdated("s1", "p1", 2),
						scoreUpdated("s1", "p2", 0),
						scoreUpdated("s1", "p3", 0),
					},
				}
			},

			assert: func(t *testing.T, out outputs) {
				require.Len(t, out.publishedEvents, 1, "should receive 1 standings updated event")
			},
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			in := tt.arrange()

			s, eb := makeService(t)

			mu := sync.Mutex{}
			out := outputs{}
			eb.Subscribe(domain.EventNameStandingsUpdated, func(ctx context.Context, e event.Event) error {
				mu.Lock()
				out.publishedEvents = append(out.publishedEvents, e.(domain.EventStandingsUpdated))
				mu.Unlock()
				return nil
			})

			for _, e := range in.receivedEvents {
				require.NoError(t, s.UpdateStandings(context.Background(), e))
			}
			eb.Stop()

			tt.assert(t, out)
		})
	}
}

func makeService(t *testing.T) (*standings.Service, *event.Bus) {
	t.Helper()

	mr := miniredis.RunT(t)
	r := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	t.Cleanup(func() { _ = r.Close() })

	eb := event.NewBus()

	s := standings.NewService(standings.Config{
		EventBus: eb,
		Redis:    r,
		Prefix:   "test",
	})

	return s, eb
}

func scoreUpdated(session, participant string, total int) domain.EventScoreUpdated {
	return domain.EventScoreUpdated{
		SessionID:     session,
		ParticipantID: participant,
		Delta:         total,
		TotalScore:    total,
		Result: domain.Result{
			ResultID:   "r1",
			RecordTime: time.Now(),
		},
	}
}
