package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDB struct{}

func (fakeDB) GetStatus() (string, bool) { return "connected", true }

type fakeBot struct{ ready bool }

func (b fakeBot) IsReady() bool           { return b.ready }
func (fakeBot) GuildCount() int           { return 2 }
func (fakeBot) Identity() *discordgo.User { return &discordgo.User{ID: "bot", Username: "PancyMod"} }

type fakeSettings struct{}

func (fakeSettings) All(_ context.Context, guildID string) (map[models.SettingName]string, error) {
	return map[models.SettingName]string{models.SettingPrefix: "!"}, nil
}

type fakeSanctions struct {
	limit int64
	err   error
}

func (f *fakeSanctions) ListForGuild(_ context.Context, guildID string, limit int64) ([]*models.Sanction, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return []*models.Sanction{{ID: "s1", Kind: models.KindBan, GuildID: guildID}}, nil
}

func newTestServer(t *testing.T, a *API) *Server {
	t.Helper()
	s := NewServer("", `^(localhost|example\.com)(:\d+)?$`)
	SetupAPIRoutes(s, a)
	return s
}

func do(s *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.Host = "localhost"
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	return rec
}

func TestStatusAndHealth(t *testing.T) {
	s := newTestServer(t, &API{Database: fakeDB{}, Bot: fakeBot{ready: true}, Pending: func() int { return 3 }})

	rec := do(s, http.MethodGet, "/api/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3.0, body["pendingSanctions"])
	assert.Equal(t, true, body["database"].(map[string]interface{})["isOnline"])

	rec = do(s, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBotInfo(t *testing.T) {
	s := newTestServer(t, &API{Bot: fakeBot{ready: false}})
	assert.Equal(t, http.StatusServiceUnavailable, do(s, http.MethodGet, "/api/bot").Code)

	s = newTestServer(t, &API{Bot: fakeBot{ready: true}})
	rec := do(s, http.MethodGet, "/api/bot")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "PancyMod")
}

func TestRejectsUnknownHost(t *testing.T) {
	s := newTestServer(t, &API{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Host = "evil.test"
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGuildSettings(t *testing.T) {
	s := newTestServer(t, &API{Settings: fakeSettings{}})

	rec := do(s, http.MethodGet, "/api/guilds/123/settings")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"prefix":"!"`)

	assert.Equal(t, http.StatusBadRequest, do(s, http.MethodGet, "/api/guilds/abc/settings").Code)
}

func TestGuildSanctions(t *testing.T) {
	src := &fakeSanctions{}
	s := newTestServer(t, &API{Sanctions: src})

	rec := do(s, http.MethodGet, "/api/guilds/123/sanctions")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(defaultSanctionLimit), src.limit)

	do(s, http.MethodGet, "/api/guilds/123/sanctions?limit=9999")
	assert.Equal(t, int64(maxSanctionLimit), src.limit)

	assert.Equal(t, http.StatusBadRequest, do(s, http.MethodGet, "/api/guilds/123/sanctions?limit=-1").Code)

	src.err = errors.New("mongo down")
	assert.Equal(t, http.StatusServiceUnavailable, do(s, http.MethodGet, "/api/guilds/123/sanctions").Code)
}

func TestNotFoundAndDisabledRoutes(t *testing.T) {
	s := newTestServer(t, &API{})
	assert.Equal(t, http.StatusNotFound, do(s, http.MethodGet, "/api/guilds").Code)
	assert.Equal(t, http.StatusNotFound, do(s, http.MethodGet, "/metrics").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"}))
	s := newTestServer(t, &API{Gatherer: reg})

	rec := do(s, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_total")
}

func TestRateLimit(t *testing.T) {
	engine := gin.New()
	engine.Use(rateLimitMiddleware(RateLimitConfig{Window: time.Minute, MaxRequests: 2, IdleTTL: time.Minute}))
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
