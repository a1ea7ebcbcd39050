package catalog

import (
	"github.com/prostkit/prost/internal/domain"
)

func sips(n int) *domain.Punishment {
	return &domain.Punishment{Kind: domain.PunishmentSips, Sips: n}
}

// builtin is the stock challenge pool shipped with the app. Custom,
// user-authored challenges are layered on top from storage.
var builtin = []domain.Challenge{
	{
		ChallengeID: "builtin-waterfall",
		Title:       "Waterfall",
		Description: "Start drinking; the next player cannot stop until you do.",
		Type:        domain.TypeAllVsAll,
		Points:      2,
		CanReuse:    true,
	},
	{
		ChallengeID: "builtin-impression",
		Title:       "Impression",
		Description: "Do your best impression of another player until someone guesses who it is.",
		Type:        domain.TypeIndividual,
		Points:      2,
		CanReuse:    true,
		Punishment:  sips(2),
	},
	{
		ChallengeID: "builtin-staring-contest",
		Title:       "Staring contest",
		Description: "First to blink loses.",
		Type:        domain.TypeOneOnOne,
		Points:      3,
		CanReuse:    true,
		Punishment:  sips(3),
	},
	{
		ChallengeID: "builtin-team-anthem",
		Title:       "Team anthem",
		Description: "Each team invents and performs a 15-second anthem. Best one wins.",
		Type:        domain.TypeTeam,
		Points:      5,
		CanReuse:    false,
	},
	{
		ChallengeID: "builtin-categories",
		Title:       "Categories",
		Description: "Name items in the category until someone repeats or goes blank.",
		Type:        domain.TypeAllVsAll,
		Points:      3,
		CanReuse:    true,
		Punishment:  sips(2),
	},
	{
		ChallengeID: "builtin-never-have-i-ever",
		Title:       "Never have I ever",
		Description: "Say something you have never done. Everyone who has done it drinks.",
		Type:        domain.TypeIndividual,
		Points:      1,
		CanReuse:    false,
	},
	{
		ChallengeID: "builtin-arm-wrestle",
		Title:       "Arm wrestle",
		Description: "Classic arm wrestling, elbows on the table.",
		Type:        domain.TypeOneOnOne,
		Points:      3,
		CanReuse:    true,
		Punishment:  sips(3),
	},
	{
		ChallengeID: "builtin-tower-build",
		Title:       "Tower build",
		Description: "Teams get one minute to build the tallest tower from whatever is on the table.",
		Type:        domain.TypeTeam,
		Points:      4,
		CanReuse:    false,
	},
}

// Builtin returns a copy of the stock challenge pool.
func Builtin() []domain.Challenge {
	return append([]domain.Challenge(nil), builtin...)
}
