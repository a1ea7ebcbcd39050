package game_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prostkit/prost/internal/domain"
	"github.com/prostkit/prost/internal/game"
)

func TestFilterEligible(t *testing.T) {
	pool := []domain.Challenge{
		{ChallengeID: "c1", Type: domain.TypeIndividual, CanReuse: true},
		{ChallengeID: "c2", Type: domain.TypeIndividual, CanReuse: false},
		{ChallengeID: "c3", Type: domain.TypeTeam, CanReuse: true},
		{ChallengeID: "c4", Type: domain.TypeOneOnOne, CanReuse: false},
	}

	type (
		inputs struct {
			used map[string]struct{}
			mode domain.GameMode
		}
	)

	tests := map[string]struct {
		arrange func() inputs
		assert  func(t *testing.T, eligible []domain.Challenge)
	}{
		"nothing used keeps the full pool in teams mode": {
			arrange: func() inputs {
				return inputs{used: map[string]struct{}{}, mode: domain.ModeTeams}
			},
			assert: func(t *testing.T, eligible []domain.Challenge) {
				require.Len(t, eligible, 4)
			},
		},

		"used non-reusable challenges are excluded": {
			arrange: func() inputs {
				return inputs{
					used: map[string]struct{}{"c2": {}, "c4": {}},
					mode: domain.ModeTeams,
				}
			},
			assert: func(t *testing.T, eligible []domain.Challenge) {
				require.Equal(t, []string{"c1", "c3"}, ids(eligible))
			},
		},

		"used reusable challenges stay eligible": {
			arrange: func() inputs {
				return inputs{
					used: map[string]struct{}{"c1": {}},
					mode: domain.ModeTeams,
				}
			},
			assert: func(t *testing.T, eligible []domain.Challenge) {
				require.Contains(t, ids(eligible), "c1")
			},
		},

		"team challenges are excluded in free-for-all": {
			arrange: func() inputs {
				return inputs{used: map[string]struct{}{}, mode: domain.ModeFreeForAll}
			},
			assert: func(t *testing.T, eligible []domain.Challenge) {
				require.NotContains(t, ids(eligible), "c3")
				require.Len(t, eligible, 3)
			},
		},

		"fully consumed pool returns empty, not an error": {
			arrange: func() inputs {
				return inputs{
					used: map[string]struct{}{"c2": {}, "c4": {}},
					mode: domain.ModeFreeForAll,
				}
			},
			assert: func(t *testing.T, eligible []domain.Challenge) {
				require.Equal(t, []string{"c1"}, ids(eligible))
			},
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			in := tt.arrange()
			tt.assert(t, game.FilterEligible(pool, in.used, in.mode))
		})
	}
}

func TestSelectNext(t *testing.T) {
	t.Run("returns nil on empty pool", func(t *testing.T) {
		require.Nil(t, game.SelectNext(nil, fixedRand(0)))
	})

	t.Run("picks the element the source points at", func(t *testing.T) {
		pool := []domain.Challenge{
			{ChallengeID: "c1"},
			{ChallengeID: "c2"},
			{ChallengeID: "c3"},
		}

		ch := game.SelectNext(pool, fixedRand(2))
		require.NotNil(t, ch)
		require.Equal(t, "c3", ch.ChallengeID)
	})
}

func ids(pool []domain.Challenge) []string {
	out := make([]string, 0, len(pool))
	for _, ch := range pool {
		out = append(out, ch.ChallengeID)
	}
	return out
}
