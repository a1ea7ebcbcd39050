package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prostkit/prost/internal/domain"
	"github.com/prostkit/prost/internal/errors"
	"github.com/prostkit/prost/internal/session"
)

func TestCreateSession_Validation(t *testing.T) {
	// Validation runs before storage is touched.
	s := session.NewService(session.Config{})

	tests := map[string]session.CreateSessionRequest{
		"unknown mode": {
			Mode: "BATTLE_ROYALE",
		},
		"free-for-all with teams": {
			Mode:     domain.ModeFreeForAll,
			Teams:    []domain.Team{{TeamID: "a"}},
			Duration: domain.GameDuration{Type: domain.DurationChallenges, Value: 3},
		},
		"teams mode without teams": {
			Mode:     domain.ModeTeams,
			Duration: domain.GameDuration{Type: domain.DurationChallenges, Value: 3},
		},
		"teams mode without an all-vs-all scope": {
			Mode:     domain.ModeTeams,
			Teams:    []domain.Team{{TeamID: "a", PlayerIDs: []string{"p1"}}},
			Duration: domain.GameDuration{Type: domain.DurationChallenges, Value: 3},
		},
		"unknown duration type": {
			Mode:     domain.ModeFreeForAll,
			Duration: domain.GameDuration{Type: "rounds", Value: 3},
		},
		"non-positive duration": {
			Mode:     domain.ModeFreeForAll,
			Duration: domain.GameDuration{Type: domain.DurationTime, Value: 0},
		},
	}

	for name, req := range tests {
		req := req
		t.Run(name, func(t *testing.T) {
			_, err := s.CreateSession(context.Background(), req)
			require.True(t, errors.HasCode(err, errors.CodeInvalidArgument), "got %v", err)
		})
	}
}
