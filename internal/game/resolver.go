package game

import (
	"github.com/prostkit/prost/internal/domain"
	"github.com/prostkit/prost/internal/errors"
)

// ResolveParticipants materializes the concrete participant set for one
// challenge instance, branching once on (game mode, challenge type) so
// that scoring and display never re-derive the branch.
//
// Team-member draws rotate with the round counter modulo team size, so
// over a team's consecutive turns every member gets selected, never always
// the first one. The rotation index advances once per full roster cycle:
// teams play round-robin, so dividing the round counter by the roster size
// counts how often this team has played, which is what must rotate.
// Opponent picks (the second player or team in one-on-one) come from the
// injected randomness source.
func ResolveParticipants(s domain.Session, ch domain.Challenge, rng Rand) (domain.ParticipantSet, error) {
	switch ch.Type {
	case domain.TypeIndividual:
		return resolveIndividual(s)
	case domain.TypeOneOnOne:
		return resolveOneOnOne(s, rng)
	case domain.TypeTeam:
		return resolveTeam(s, ch)
	case domain.TypeAllVsAll:
		return resolveAllVsAll(s)
	default:
		return domain.ParticipantSet{}, errors.New(errors.CodeInvalidArgument,
			errors.WithMessagef("unknown challenge type %q", ch.Type))
	}
}

func resolveIndividual(s domain.Session) (domain.ParticipantSet, error) {
	i := normalizeTurnIndex(s)

	if s.Mode == domain.ModeFreeForAll {
		if len(s.Players) == 0 {
			return domain.ParticipantSet{}, emptyRosterErr(s)
		}
		id := s.Players[i].PlayerID
		return domain.ParticipantSet{
			Kind:              domain.ParticipantsPlayers,
			ParticipantIDs:    []string{id},
			SelectedPlayerIDs: []string{id},
		}, nil
	}

	if len(s.Teams) == 0 {
		return domain.ParticipantSet{}, emptyRosterErr(s)
	}
	team := s.Teams[i]
	member, err := rotateMember(team, rotationIndex(s))
	if err != nil {
		return domain.ParticipantSet{}, err
	}
	return domain.ParticipantSet{
		Kind:              domain.ParticipantsTeams,
		ParticipantIDs:    []string{team.TeamID},
		SelectedPlayerIDs: []string{member},
	}, nil
}

func resolveOneOnOne(s domain.Session, rng Rand) (domain.ParticipantSet, error) {
	i := normalizeTurnIndex(s)

	if s.Mode == domain.ModeFreeForAll {
		if len(s.Players) < 2 {
			return domain.ParticipantSet{}, errors.New(errors.CodeFailedPrecondition,
				errors.WithMessagef("one-on-one needs at least 2 players, have %d", len(s.Players)))
		}
		j := otherIndex(i, len(s.Players), rng)
		ids := []string{s.Players[i].PlayerID, s.Players[j].PlayerID}
		return domain.ParticipantSet{
			Kind:              domain.ParticipantsPlayers,
			ParticipantIDs:    ids,
			SelectedPlayerIDs: ids,
		}, nil
	}

	if len(s.Teams) < 2 {
		return domain.ParticipantSet{}, errors.New(errors.CodeFailedPrecondition,
			errors.WithMessagef("one-on-one needs at least 2 teams, have %d", len(s.Teams)))
	}
	j := otherIndex(i, len(s.Teams), rng)

	home, away := s.Teams[i], s.Teams[j]
	homePlayer, err := rotateMember(home, rotationIndex(s))
	if err != nil {
		return domain.ParticipantSet{}, err
	}
	awayPlayer, err := rotateMember(away, rotationIndex(s))
	if err != nil {
		return domain.ParticipantSet{}, err
	}

	return domain.ParticipantSet{
		Kind:              domain.ParticipantsTeams,
		ParticipantIDs:    []string{home.TeamID, away.TeamID},
		SelectedPlayerIDs: []string{homePlayer, awayPlayer},
	}, nil
}

func resolveTeam(s domain.Session, ch domain.Challenge) (domain.ParticipantSet, error) {
	// Pool filtering keeps TEAM challenges out of free-for-all sessions;
	// reaching this branch in that mode is a defect upstream.
	if s.Mode != domain.ModeTeams {
		return domain.ParticipantSet{}, errors.New(errors.CodeFailedPrecondition,
			errors.WithMessagef("challenge %s is team-typed but session %s is free-for-all", ch.ChallengeID, s.SessionID))
	}
	if len(s.Teams) == 0 {
		return domain.ParticipantSet{}, emptyRosterErr(s)
	}

	ids := make([]string, 0, len(s.Teams))
	for _, t := range s.Teams {
		ids = append(ids, t.TeamID)
	}
	return domain.ParticipantSet{
		Kind:           domain.ParticipantsTeams,
		ParticipantIDs: ids,
	}, nil
}

func resolveAllVsAll(s domain.Session) (domain.ParticipantSet, error) {
	if s.Mode == domain.ModeFreeForAll || s.AllVsAllScope == domain.ScopeAllPlayers {
		if len(s.Players) == 0 {
			return domain.ParticipantSet{}, emptyRosterErr(s)
		}
		ids := make([]string, 0, len(s.Players))
		for _, p := range s.Players {
			ids = append(ids, p.PlayerID)
		}
		return domain.ParticipantSet{
			Kind:              domain.ParticipantsPlayers,
			ParticipantIDs:    ids,
			SelectedPlayerIDs: ids,
		}, nil
	}

	if s.AllVsAllScope != domain.ScopeRepresentatives {
		return domain.ParticipantSet{}, errors.New(errors.CodeInvalidArgument,
			errors.WithMessagef("session %s has no all-vs-all scope configured", s.SessionID))
	}

	if len(s.Teams) == 0 {
		return domain.ParticipantSet{}, emptyRosterErr(s)
	}

	teamIDs := make([]string, 0, len(s.Teams))
	reps := make([]string, 0, len(s.Teams))
	for _, t := range s.Teams {
		member, err := rotateMember(t, rotationIndex(s))
		if err != nil {
			return domain.ParticipantSet{}, err
		}
		teamIDs = append(teamIDs, t.TeamID)
		reps = append(reps, member)
	}
	return domain.ParticipantSet{
		Kind:              domain.ParticipantsTeams,
		ParticipantIDs:    teamIDs,
		SelectedPlayerIDs: reps,
	}, nil
}

// rotationIndex counts how many full roster cycles the session has played,
// which equals the number of turns each team has had so far.
func rotationIndex(s domain.Session) int {
	n := s.RosterSize()
	if n == 0 || s.Round < 0 {
		return 0
	}
	return s.Round / n
}

// rotateMember draws one player out of a team, rotating by cycle index so
// consecutive draws cycle fairly through the whole team.
func rotateMember(t domain.Team, cycle int) (string, error) {
	if len(t.PlayerIDs) == 0 {
		return "", errors.New(errors.CodeFailedPrecondition,
			errors.WithMessagef("team %s has no players", t.TeamID))
	}
	return t.PlayerIDs[cycle%len(t.PlayerIDs)], nil
}

// otherIndex draws a uniformly random index distinct from i.
func otherIndex(i, n int, rng Rand) int {
	j := rng.IntN(n - 1)
	if j >= i {
		j++
	}
	return j
}

func emptyRosterErr(s domain.Session) error {
	return errors.New(errors.CodeFailedPrecondition,
		errors.WithMessagef("session %s has an empty roster", s.SessionID))
}
