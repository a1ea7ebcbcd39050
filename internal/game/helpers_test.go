package game_test

import (
	"math/rand/v2"

	"github.com/prostkit/prost/internal/domain"
)

// fixedRand always yields the same value, clamped to the requested range.
type fixedRand int

func (r fixedRand) IntN(n int) int {
	return int(r) % n
}

func seededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func ffaSession(names ...string) domain.Session {
	players := make([]domain.Player, 0, len(names))
	for _, n := range names {
		players = append(players, domain.Player{PlayerID: n, Name: n})
	}
	return domain.Session{
		SessionID:        "s1",
		Mode:             domain.ModeFreeForAll,
		Phase:            domain.PhaseNotStarted,
		Players:          players,
		UsedChallengeIDs: map[string]struct{}{},
		Duration:         domain.GameDuration{Type: domain.DurationChallenges, Value: 100},
	}
}

// teamsSession builds a TEAMS session from team ID to member IDs, keeping
// the given order.
func teamsSession(teams ...domain.Team) domain.Session {
	s := domain.Session{
		SessionID:        "s1",
		Mode:             domain.ModeTeams,
		Phase:            domain.PhaseNotStarted,
		Teams:            teams,
		UsedChallengeIDs: map[string]struct{}{},
		Duration:         domain.GameDuration{Type: domain.DurationChallenges, Value: 100},
		AllVsAllScope:    domain.ScopeRepresentatives,
	}
	for _, t := range teams {
		for _, p := range t.PlayerIDs {
			s.Players = append(s.Players, domain.Player{PlayerID: p, Name: p, TeamID: t.TeamID})
		}
	}
	return s
}

func team(id string, members ...string) domain.Team {
	return domain.Team{TeamID: id, Name: id, PlayerIDs: members}
}

func awaiting(s domain.Session, ch domain.Challenge, ps domain.ParticipantSet) domain.Session {
	s.Phase = domain.PhaseAwaitingOutcome
	s.CurrentChallenge = &ch
	s.CurrentParticipants = &ps
	return s
}
