package server

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drawdash/drawdash-backend/internal/config"
	"github.com/drawdash/drawdash-backend/internal/game"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{Bind: "127.0.0.1", Port: 8080, MinPlayers: 2}
	hub := NewHub()
	pool := game.NewPool([]string{"cat"}, rand.New(rand.NewSource(1)))
	session := game.NewSession(game.Config{
		MinPlayers:              2,
		CountdownSeconds:        0,
		RoundDuration:           time.Minute,
		SessionDuration:         time.Hour,
		Intermission:            time.Second,
		ScoreResetDelay:         time.Second,
		TickInterval:            time.Second,
		CancelCountdownBelowMin: true,
	}, hub, pool)

	ts := httptest.NewServer(New(cfg, hub, session).RegisterRoutes())
	t.Cleanup(ts.Close)
	return ts
}

func wsURL(ts *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + path
}

func dial(t *testing.T, ts *httptest.Server, name string) *websocket.Conn {
	t.Helper()
	url := wsURL(ts, "/ws")
	if name != "" {
		url += "?name=" + name
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads frames until one of msgType arrives, within a bounded
// window.
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) json.RawMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var msg game.Message[json.RawMessage]
		require.NoError(t, conn.ReadJSON(&msg), "waiting for %s", msgType)
		if msg.Type == msgType {
			return msg.Data
		}
	}
}

func TestWebsocketJoinViaQueryParam(t *testing.T) {
	ts := newTestServer(t)

	alice := dial(t, ts, "alice")

	var names []string
	require.NoError(t, json.Unmarshal(readUntil(t, alice, game.MsgUserList), &names))
	assert.Equal(t, []string{"alice"}, names)
}

func TestWebsocketJoinViaFrame(t *testing.T) {
	ts := newTestServer(t)

	carol := dial(t, ts, "")
	err := carol.WriteJSON(game.Message[string]{Type: game.EventJoin, Data: "carol"})
	require.NoError(t, err)

	var names []string
	require.NoError(t, json.Unmarshal(readUntil(t, carol, game.MsgUserList), &names))
	assert.Equal(t, []string{"carol"}, names)
}

func TestWebsocketRoundStartsAtMinimumPlayers(t *testing.T) {
	ts := newTestServer(t)

	alice := dial(t, ts, "alice")
	readUntil(t, alice, game.MsgUserList)

	bob := dial(t, ts, "bob")
	readUntil(t, bob, game.MsgUserList)

	// Zero countdown: the second join starts the session and first round
	// with alice drawing.
	var word game.WordData
	require.NoError(t, json.Unmarshal(readUntil(t, alice, game.MsgYourWord), &word))
	assert.Equal(t, "cat", word.Word)

	// Bob's first gameState is the snapshot from his own join, so read
	// past it to the round-start broadcast.
	var state game.GameStateData
	for !state.Active {
		require.NoError(t, json.Unmarshal(readUntil(t, bob, game.MsgGameState), &state))
	}
	assert.Equal(t, "alice", state.CurrentDrawerName)
}

func TestWebsocketGuessScores(t *testing.T) {
	ts := newTestServer(t)

	alice := dial(t, ts, "alice")
	bob := dial(t, ts, "bob")
	readUntil(t, alice, game.MsgYourWord)

	err := bob.WriteJSON(game.Message[game.TextData]{Type: game.EventGuess, Data: game.TextData{Text: "cat"}})
	require.NoError(t, err)

	for {
		var scores map[string]int
		require.NoError(t, json.Unmarshal(readUntil(t, alice, game.MsgScoreUpdate), &scores))
		if scores["bob"] == 0 && scores["alice"] == 0 {
			continue // initial snapshot from the joins
		}
		assert.Equal(t, 10, scores["bob"])
		assert.Equal(t, 5, scores["alice"])
		return
	}
}

func TestStateEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		GameState game.GameStateData `json:"gameState"`
		UserList  []string           `json:"userList"`
		Scores    map[string]int     `json:"scores"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.GameState.Active)
	assert.Empty(t, body.UserList)
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
