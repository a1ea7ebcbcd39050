package game

import (
	"github.com/prostkit/prost/internal/domain"
)

// FilterEligible computes the subset of the challenge pool eligible for
// selection: used non-reusable challenges are excluded, and TEAM-type
// challenges are excluded in free-for-all since they structurally require
// teams. An empty result means the pool is exhausted, which is a normal
// terminal condition for the session rather than an error.
func FilterEligible(pool []domain.Challenge, used map[string]struct{}, mode domain.GameMode) []domain.Challenge {
	eligible := make([]domain.Challenge, 0, len(pool))
	for _, ch := range pool {
		if !ch.CanReuse {
			if _, ok := used[ch.ChallengeID]; ok {
				continue
			}
		}
		if mode == domain.ModeFreeForAll && ch.Type == domain.TypeTeam {
			continue
		}
		eligible = append(eligible, ch)
	}
	return eligible
}

// SelectNext picks one eligible challenge uniformly at random. Returns nil
// on an empty pool.
func SelectNext(eligible []domain.Challenge, rng Rand) *domain.Challenge {
	if len(eligible) == 0 {
		return nil
	}
	ch := eligible[rng.IntN(len(eligible))]
	return &ch
}
