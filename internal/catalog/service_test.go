package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prostkit/prost/internal/catalog"
	"github.com/prostkit/prost/internal/domain"
	"github.com/prostkit/prost/internal/errors"
)

func TestBuiltin_ReturnsACopy(t *testing.T) {
	a := catalog.Builtin()
	require.NotEmpty(t, a)

	a[0].Title = "mutated"
	b := catalog.Builtin()
	require.NotEqual(t, "mutated", b[0].Title)
}

func TestBuiltin_CoversAllChallengeTypes(t *testing.T) {
	types := map[domain.ChallengeType]bool{}
	for _, ch := range catalog.Builtin() {
		types[ch.Type] = true
	}

	for _, typ := range []domain.ChallengeType{
		domain.TypeIndividual,
		domain.TypeOneOnOne,
		domain.TypeTeam,
		domain.TypeAllVsAll,
	} {
		require.True(t, types[typ], "no builtin challenge of type %s", typ)
	}
}

func TestCreateChallenge_Validation(t *testing.T) {
	// Validation runs before storage is touched.
	s := catalog.NewService(catalog.Config{})

	tests := map[string]catalog.CreateChallengeRequest{
		"missing title": {
			Type: domain.TypeIndividual,
		},
		"unknown type": {
			Title: "ok",
			Type:  "TAG_TEAM",
		},
		"negative points": {
			Title:  "ok",
			Type:   domain.TypeIndividual,
			Points: -1,
		},
		"sips punishment without a count": {
			Title:      "ok",
			Type:       domain.TypeIndividual,
			Punishment: &domain.Punishment{Kind: domain.PunishmentSips},
		},
		"custom punishment without a description": {
			Title:      "ok",
			Type:       domain.TypeIndividual,
			Punishment: &domain.Punishment{Kind: domain.PunishmentCustom},
		},
	}

	for name, req := range tests {
		req := req
		t.Run(name, func(t *testing.T) {
			_, err := s.CreateChallenge(context.Background(), req)
			require.True(t, errors.HasCode(err, errors.CodeInvalidArgument))
		})
	}
}
