package httpserver

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m-7labs/solitaire-lite/assets"
	"github.com/m-7labs/solitaire-lite/internal/config"
	"github.com/m-7labs/solitaire-lite/internal/daily"
	"github.com/m-7labs/solitaire-lite/internal/game"
	"github.com/m-7labs/solitaire-lite/internal/savegame"
	"github.com/m-7labs/solitaire-lite/internal/store"
)

type testEnv struct {
	t   *testing.T
	cfg config.Config
	srv *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "http.db")+"?_busy_timeout=5000")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	migs, err := assets.Migrations()
	require.NoError(t, err)
	for _, m := range migs {
		_, err := db.Exec(m.SQL)
		require.NoError(t, err, m.Name)
	}

	cfg := config.Default()
	cfg.Rules.AutoComplete.DelayMS = 0
	st := store.NewLayered(store.NewMemoryStore(), store.NewSQLite(db, cfg.GameRules()))
	srv := httptest.NewServer(New(cfg, st, db).Router())
	t.Cleanup(srv.Close)
	return &testEnv{t: t, cfg: cfg, srv: srv}
}

// client is one browser: its own cookie jar.
type client struct {
	env *testEnv
	hc  *http.Client
}

func (e *testEnv) client() *client {
	jar, err := cookiejar.New(nil)
	require.NoError(e.t, err)
	return &client{env: e, hc: &http.Client{Jar: jar}}
}

// do sends body (JSON-encoded unless it is a []byte) and decodes the reply into out.
func (c *client) do(method, path string, body, out any) int {
	t := c.env.t
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		rd = bytes.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, c.env.srv.URL+path, rd)
	require.NoError(t, err)
	res, err := c.hc.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return res.StatusCode
}

type errorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

func (c *client) newGame(seed string) gameView {
	var v gameView
	require.Equal(c.env.t, http.StatusOK, c.do("POST", "/game/new", map[string]string{"seed": seed}, &v))
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	var body map[string]bool
	assert.Equal(t, http.StatusOK, env.client().do("GET", "/health", nil, &body))
	assert.True(t, body["ok"])

	var nf map[string]string
	assert.Equal(t, http.StatusNotFound, env.client().do("GET", "/nope", nil, &nf))
	assert.Equal(t, "not_found", nf["error"])
}

func TestNewGameDealsFromSeed(t *testing.T) {
	env := newTestEnv(t)
	c := env.client()
	v := c.newGame("42")

	assert.Equal(t, uint64(42), v.Seed)
	assert.Equal(t, 24, v.Stock)
	assert.Empty(t, v.Waste)
	require.Len(t, v.Tableaus, game.NumTableaus)
	for i, col := range v.Tableaus {
		require.Len(t, col, i+1)
		for j, card := range col {
			assert.Equal(t, j == i, card.FaceUp)
			if !card.FaceUp {
				assert.Empty(t, card.Suit, "face-down cards are hidden")
			}
		}
	}
	assert.False(t, v.CanUndo)

	again := c.newGame("42")
	assert.NotEqual(t, v.ID, again.ID)
	assert.Equal(t, v.Tableaus, again.Tableaus)

	var eb errorBody
	assert.Equal(t, http.StatusBadRequest, c.do("POST", "/game/new", map[string]string{"seed": "-1"}, &eb))
}

func TestNewGameWithoutBody(t *testing.T) {
	env := newTestEnv(t)
	var v gameView
	require.Equal(t, http.StatusOK, env.client().do("POST", "/game/new", nil, &v))
	assert.NotEmpty(t, v.ID)
}

func TestDrawAndUndo(t *testing.T) {
	env := newTestEnv(t)
	c := env.client()
	v := c.newGame("7")

	var drawn gameView
	require.Equal(t, http.StatusOK, c.do("POST", "/game/"+v.ID+"/draw", nil, &drawn))
	assert.Equal(t, 23, drawn.Stock)
	require.Len(t, drawn.Waste, 1)
	assert.True(t, drawn.Waste[0].FaceUp)
	assert.True(t, strings.HasPrefix(drawn.Message, "Drew "), drawn.Message)
	assert.Equal(t, 1, drawn.Moves)

	var undone gameView
	require.Equal(t, http.StatusOK, c.do("POST", "/game/"+v.ID+"/undo", nil, &undone))
	assert.Equal(t, 24, undone.Stock)
	assert.Empty(t, undone.Waste)
	assert.Equal(t, "Undid the last move.", undone.Message)

	var eb errorBody
	assert.Equal(t, http.StatusConflict, c.do("POST", "/game/"+v.ID+"/undo", nil, &eb))
	assert.Equal(t, "empty_history", eb.Error)
}

func TestInvalidMoveIsRejected(t *testing.T) {
	env := newTestEnv(t)
	c := env.client()
	v := c.newGame("7")

	var eb errorBody
	code := c.do("POST", "/game/"+v.ID+"/move", map[string]any{
		"from": map[string]any{"pile": "stock"},
		"to":   map[string]any{"pile": "tableau", "index": 0},
	}, &eb)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_move", eb.Error)
	assert.NotEmpty(t, eb.Reason)

	code = c.do("POST", "/game/"+v.ID+"/move", map[string]any{
		"from": map[string]any{"pile": "sideboard"},
		"to":   map[string]any{"pile": "tableau", "index": 0},
	}, &eb)
	assert.Equal(t, http.StatusBadRequest, code)

	var after gameView
	require.Equal(t, http.StatusOK, c.do("GET", "/game/"+v.ID, nil, &after))
	assert.Equal(t, v.Tableaus, after.Tableaus)
	assert.Equal(t, 0, after.Moves)
}

func TestGamesAreScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	v := env.client().newGame("1")

	var eb errorBody
	assert.Equal(t, http.StatusNotFound, env.client().do("GET", "/game/"+v.ID, nil, &eb))
	assert.Equal(t, http.StatusNotFound, env.client().do("POST", "/game/"+v.ID+"/draw", nil, &eb))
}

func TestResumeReturnsLatestGame(t *testing.T) {
	env := newTestEnv(t)
	c := env.client()

	var first gameView
	require.Equal(t, http.StatusOK, c.do("GET", "/game/resume", nil, &first))
	assert.Equal(t, "New game started.", first.Message)

	var again gameView
	require.Equal(t, http.StatusOK, c.do("GET", "/game/resume", nil, &again))
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Resumed game.", again.Message)
}

func TestSaveAndLoad(t *testing.T) {
	env := newTestEnv(t)
	c := env.client()
	v := c.newGame("9")
	require.Equal(t, http.StatusOK, c.do("POST", "/game/"+v.ID+"/draw", nil, nil))

	req, err := http.NewRequest("GET", env.srv.URL+"/game/"+v.ID+"/save", nil)
	require.NoError(t, err)
	res, err := c.hc.Do(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)

	st, err := savegame.Decode(raw)
	require.NoError(t, err)
	assert.Len(t, st.Waste, 1)
	assert.Len(t, st.History, 1)

	var loaded gameView
	require.Equal(t, http.StatusOK, c.do("POST", "/game/load", raw, &loaded))
	assert.NotEqual(t, v.ID, loaded.ID)
	assert.Equal(t, "Game loaded.", loaded.Message)
	assert.Equal(t, 1, loaded.Moves)
	assert.True(t, loaded.CanUndo)
}

func TestLoadCorruptSaveStartsFreshGame(t *testing.T) {
	env := newTestEnv(t)
	var v gameView
	require.Equal(t, http.StatusOK, env.client().do("POST", "/game/load", []byte(`{"stockPile":[{"suit":"moons"}]}`), &v))
	assert.Contains(t, v.Message, "unreadable")
	assert.Equal(t, 24, v.Stock)
	assert.Equal(t, 0, v.Moves)
}

// nearlyWon has every foundation at Queen and the four Kings on tableaus 1-4.
func nearlyWon(t *testing.T) []byte {
	st := &game.State{Stock: game.Pile{}, Waste: game.Pile{}}
	for i, suit := range game.Suits {
		for r := game.Ace; r < game.King; r++ {
			st.Foundations[i] = append(st.Foundations[i], game.Card{Suit: suit, Rank: r, FaceUp: true})
		}
		st.Tableaus[i] = game.Pile{{Suit: suit, Rank: game.King, FaceUp: true}}
	}
	b, err := savegame.Encode(st)
	require.NoError(t, err)
	return b
}

func TestWinningMoveAutoCompletesAndRecordsStats(t *testing.T) {
	env := newTestEnv(t)
	c := env.client()
	require.Equal(t, http.StatusOK, c.do("POST", "/auth/signup",
		map[string]string{"username": "winner", "password": "password1"}, nil))

	var v gameView
	require.Equal(t, http.StatusOK, c.do("POST", "/game/load", nearlyWon(t), &v))
	require.False(t, v.Won)

	var hint struct {
		Hint *hintView `json:"hint"`
	}
	require.Equal(t, http.StatusOK, c.do("GET", "/game/"+v.ID+"/hint", nil, &hint))
	require.NotNil(t, hint.Hint)
	assert.Equal(t, "foundation", hint.Hint.To.Pile)

	var moved gameView
	require.Equal(t, http.StatusOK, c.do("POST", "/game/"+v.ID+"/move", map[string]any{
		"from": map[string]any{"pile": "tableau", "index": 0, "card": 0},
		"to":   map[string]any{"pile": "foundation", "index": 0},
	}, &moved))
	assert.Equal(t, "Moved K of hearts to foundation 1.", moved.Message)

	// auto-complete runs inline with a zero delay
	var after gameView
	require.Equal(t, http.StatusOK, c.do("GET", "/game/"+v.ID, nil, &after))
	assert.True(t, after.Won)
	assert.Equal(t, 4, after.Moves)
	assert.Equal(t, 40, after.Score)
	for _, f := range after.Foundations {
		assert.Len(t, f, 13)
	}

	var eb errorBody
	assert.Equal(t, http.StatusConflict, c.do("POST", "/game/"+v.ID+"/undo", nil, &eb))
	assert.Equal(t, "game_over", eb.Error)

	var stats map[string]any
	require.Equal(t, http.StatusOK, c.do("GET", "/stats/me", nil, &stats))
	assert.EqualValues(t, 1, stats["wins"])
	assert.EqualValues(t, 1, stats["streak"])
}

func TestAutoCompleteEndpoint(t *testing.T) {
	env := newTestEnv(t)
	c := env.client()
	var v gameView
	require.Equal(t, http.StatusOK, c.do("POST", "/game/load", nearlyWon(t), &v))

	var ac gameView
	require.Equal(t, http.StatusOK, c.do("POST", "/game/"+v.ID+"/autocomplete", nil, &ac))
	assert.True(t, ac.Won)
	assert.Equal(t, "Auto-completed 4 cards to foundation. You won!", ac.Message)
}

func TestAuthFlowClaimsGuestGames(t *testing.T) {
	env := newTestEnv(t)
	c := env.client()
	guest := c.newGame("3")

	var eb errorBody
	assert.Equal(t, http.StatusUnauthorized, c.do("GET", "/auth/me", nil, &eb))

	creds := map[string]string{"username": "alice", "password": "password1"}
	require.Equal(t, http.StatusOK, c.do("POST", "/auth/signup", creds, nil))
	assert.Equal(t, http.StatusConflict, env.client().do("POST", "/auth/signup", creds, &eb))

	var me authUser
	require.Equal(t, http.StatusOK, c.do("GET", "/auth/me", nil, &me))
	assert.Equal(t, "alice", me.Username)

	var mine []store.Summary
	require.Equal(t, http.StatusOK, c.do("GET", "/games/mine", nil, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, guest.ID, mine[0].ID)

	var still gameView
	assert.Equal(t, http.StatusOK, c.do("GET", "/game/"+guest.ID, nil, &still))

	require.Equal(t, http.StatusOK, c.do("POST", "/auth/logout", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, c.do("GET", "/auth/me", nil, &eb))

	other := env.client()
	assert.Equal(t, http.StatusUnauthorized, other.do("POST", "/auth/login",
		map[string]string{"username": "alice", "password": "wrong-pass"}, &eb))
	require.Equal(t, http.StatusOK, other.do("POST", "/auth/login", creds, nil))
	require.Equal(t, http.StatusOK, other.do("GET", "/games/mine", nil, &mine))
	assert.Len(t, mine, 1)

	var stats map[string]any
	require.Equal(t, http.StatusOK, other.do("GET", "/stats/me", nil, &stats))
	assert.EqualValues(t, 0, stats["wins"])
}

func TestDailyDeal(t *testing.T) {
	env := newTestEnv(t)
	a, b := env.client(), env.client()
	date := daily.DateKey(time.Now())

	var ra, rb, again dailyNewRes
	require.Equal(t, http.StatusOK, a.do("POST", "/daily/new", nil, &ra))
	require.Equal(t, http.StatusOK, b.do("POST", "/daily/new", nil, &rb))
	require.NotNil(t, ra.Game)
	require.NotNil(t, rb.Game)
	assert.Equal(t, date, ra.Date)
	assert.Equal(t, date, ra.Game.Daily)
	assert.Equal(t, daily.SeedFor(date, env.cfg.Daily.Salt), ra.Game.Seed)
	assert.Equal(t, ra.Game.Tableaus, rb.Game.Tableaus)
	assert.NotEqual(t, ra.Game.ID, rb.Game.ID)

	require.Equal(t, http.StatusOK, a.do("POST", "/daily/new", nil, &again))
	require.NotNil(t, again.Game)
	assert.Equal(t, ra.Game.ID, again.Game.ID)

	var eb errorBody
	assert.Equal(t, http.StatusConflict, a.do("POST", "/daily/finish", map[string]string{"gameId": ra.Game.ID}, &eb))
	assert.Equal(t, http.StatusNotFound, b.do("POST", "/daily/finish", map[string]string{"gameId": ra.Game.ID}, &eb))

	var lb lbRes
	require.Equal(t, http.StatusOK, a.do("GET", "/daily/leaderboard", nil, &lb))
	assert.Equal(t, date, lb.Date)
	assert.Empty(t, lb.Top)
	assert.Equal(t, http.StatusBadRequest, a.do("GET", "/daily/leaderboard?date=soon", nil, &eb))
}
