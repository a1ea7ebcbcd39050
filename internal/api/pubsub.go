package api

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/prostkit/prost/internal/domain"
)

const maxConcurrent = 100

type (
	Notification struct {
		Event string `json:"event"`
		Data  any    `json:"data"`
	}

	Turn struct {
		SessionID    string                `json:"session_id"`
		Round        int                   `json:"round"`
		Challenge    domain.Challenge      `json:"challenge"`
		Participants domain.ParticipantSet `json:"participants"`
	}

	StandingsData struct {
		SessionID string           `json:"session_id"`
		Entries   []StandingsEntry `json:"entries"`
	}

	StandingsEntry struct {
		ParticipantID string  `json:"participant_id"`
		Score         float64 `json:"score"`
	}

	PunishmentData struct {
		SessionID string        `json:"session_id"`
		TargetID  string        `json:"target_id"`
		Result    domain.Result `json:"result"`
	}

	GameFinishedData struct {
		SessionID string           `json:"session_id"`
		EndReason domain.EndReason `json:"end_reason"`
	}
)

// PublishTurnStarted pushes the new turn to every player drawn into the
// challenge, on their personal channels.
func (a *API) PublishTurnStarted(ctx context.Context, e domain.EventTurnStarted) error {
	data := Turn{
		SessionID:    e.SessionID,
		Round:        e.Round,
		Challenge:    e.Challenge,
		Participants: e.Participants,
	}

	var eg errgroup.Group
	eg.SetLimit(maxConcurrent)

	for _, player := range e.Participants.SelectedPlayerIDs {
		eg.Go(func() error {
			return a.publishNotification(ctx, a.playerChannel(player), e.Name(), data)
		})
	}

	return eg.Wait()
}

// PublishStandingsUpdated pushes the refreshed standings to the session
// channel.
func (a *API) PublishStandingsUpdated(ctx context.Context, e domain.EventStandingsUpdated) error {
	st := e.Standings

	data := StandingsData{
		SessionID: st.SessionID,
		Entries:   make([]StandingsEntry, 0, len(st.Entries)),
	}
	for _, entry := range st.Entries {
		data.Entries = append(data.Entries, StandingsEntry{
			ParticipantID: entry.ParticipantID,
			Score:         entry.Score,
		})
	}

	return a.publishNotification(ctx, a.sessionChannel(st.SessionID), e.Name(), data)
}

// PublishPunishmentAssigned pushes the punishment to its target's channel.
func (a *API) PublishPunishmentAssigned(ctx context.Context, e domain.EventPunishmentAssigned) error {
	return a.publishNotification(ctx, a.playerChannel(e.TargetID), e.Name(), PunishmentData{
		SessionID: e.SessionID,
		TargetID:  e.TargetID,
		Result:    e.Result,
	})
}

// PublishGameFinished pushes the terminal state to the session channel.
func (a *API) PublishGameFinished(ctx context.Context, e domain.EventGameFinished) error {
	return a.publishNotification(ctx, a.sessionChannel(e.Session.SessionID), e.Name(), GameFinishedData{
		SessionID: e.Session.SessionID,
		EndReason: e.Session.EndReason,
	})
}

func (a *API) publishNotification(ctx context.Context, channel, event string, data any) error {
	n := Notification{
		Event: event,
		Data:  data,
	}

	b, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("pubsub: marshal %s: %v", event, err)
	}

	return a.redis.Publish(ctx, channel, b).Err()
}

func (a *API) playerChannel(playerID string) string {
	return fmt.Sprintf("%s:player:%s", a.prefix, playerID)
}

func (a *API) sessionChannel(sessionID string) string {
	return fmt.Sprintf("%s:session:%s", a.prefix, sessionID)
}
