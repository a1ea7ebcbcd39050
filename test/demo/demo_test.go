//go:build integration_test

package demo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const baseURL = "http://localhost:8080/v1"

// Plays a full 3-challenge free-for-all game through the HTTP API against
// a locally running server.
func TestPlaythrough(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	var sessionID string

	// Create the session
	{
		body := map[string]any{
			"mode": "FREE_FOR_ALL",
			"players": []map[string]any{
				{"name": "ana"},
				{"name": "bo"},
				{"name": "cy"},
				{"name": "dee"},
			},
			"duration": map[string]any{"type": "challenges", "value": 3},
		}

		resp := postJSON(t, client, baseURL+"/sessions", body)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var out struct {
			Session struct {
				SessionID string `json:"session_id"`
			} `json:"session"`
		}
		decode(t, resp, &out)
		sessionID = out.Session.SessionID
		require.NotEmpty(t, sessionID)
	}

	// Start it
	{
		resp := postJSON(t, client, fmt.Sprintf("%s/sessions/%s/start", baseURL, sessionID), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	// Play 3 turns
	for i := 0; i < 3; i++ {
		var turn struct {
			Challenge struct {
				Type string `json:"type"`
			} `json:"challenge"`
			Participants struct {
				ParticipantIDs []string `json:"participant_ids"`
			} `json:"participants"`
		}

		resp := postJSON(t, client, fmt.Sprintf("%s/sessions/%s/turn", baseURL, sessionID), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		decode(t, resp, &turn)

		outcome := map[string]any{"completed": true}
		if turn.Challenge.Type != "INDIVIDUAL" {
			outcome["winner_id"] = turn.Participants.ParticipantIDs[0]
		}

		resp = postJSON(t, client, fmt.Sprintf("%s/sessions/%s/outcome", baseURL, sessionID), outcome)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	// The session must be finished, with standings available
	{
		resp, err := client.Get(fmt.Sprintf("%s/sessions/%s", baseURL, sessionID))
		require.NoError(t, err)

		var out struct {
			Session struct {
				Phase     string `json:"phase"`
				EndReason string `json:"end_reason"`
			} `json:"session"`
		}
		decode(t, resp, &out)
		require.Equal(t, "FINISHED", out.Session.Phase)
		require.Equal(t, "duration_reached", out.Session.EndReason)

		resp, err = client.Get(fmt.Sprintf("%s/sessions/%s/standings", baseURL, sessionID))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()

	b, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := client.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
