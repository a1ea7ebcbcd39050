package game_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prostkit/prost/internal/domain"
	"github.com/prostkit/prost/internal/game"
)

func TestAdvance(t *testing.T) {
	t.Run("rotates round-robin over players in free-for-all", func(t *testing.T) {
		s := ffaSession("p1", "p2", "p3")

		var order []int
		for i := 0; i < 6; i++ {
			order = append(order, s.TurnIndex)
			s = game.Advance(s)
		}
		require.Equal(t, []int{0, 1, 2, 0, 1, 2}, order)
	})

	t.Run("rotates over teams in teams mode", func(t *testing.T) {
		s := teamsSession(team("a", "p1"), team("b", "p2"))

		s = game.Advance(s)
		require.Equal(t, 1, s.TurnIndex)
		s = game.Advance(s)
		require.Equal(t, 0, s.TurnIndex)
	})

	t.Run("counts one round per challenge", func(t *testing.T) {
		s := ffaSession("p1", "p2")
		require.Equal(t, 0, s.Round)

		s = game.Advance(s)
		s = game.Advance(s)
		require.Equal(t, 2, s.Round)
	})

	t.Run("tolerates a roster of one", func(t *testing.T) {
		s := ffaSession("solo")

		for i := 0; i < 3; i++ {
			s = game.Advance(s)
			require.Equal(t, 0, s.TurnIndex)
		}
	})

	t.Run("clamps a corrupt turn index instead of panicking", func(t *testing.T) {
		s := ffaSession("p1", "p2", "p3")
		s.TurnIndex = 17

		s = game.Advance(s)
		require.Equal(t, 1, s.TurnIndex)
	})

	t.Run("does not mutate its input", func(t *testing.T) {
		s := ffaSession("p1", "p2")
		_ = game.Advance(s)
		require.Equal(t, 0, s.TurnIndex)
		require.Equal(t, 0, s.Round)
	})
}

func TestCurrentParticipantID(t *testing.T) {
	t.Run("returns the current player in free-for-all", func(t *testing.T) {
		s := ffaSession("p1", "p2")
		s.TurnIndex = 1

		id, err := game.CurrentParticipantID(s)
		require.NoError(t, err)
		require.Equal(t, "p2", id)
	})

	t.Run("returns the current team in teams mode", func(t *testing.T) {
		s := teamsSession(team("a", "p1"), team("b", "p2"))
		s.TurnIndex = 1

		id, err := game.CurrentParticipantID(s)
		require.NoError(t, err)
		require.Equal(t, "b", id)
	})

	t.Run("fails on an empty roster", func(t *testing.T) {
		var s domain.Session
		s.Mode = domain.ModeFreeForAll

		_, err := game.CurrentParticipantID(s)
		require.Error(t, err)
	})
}
