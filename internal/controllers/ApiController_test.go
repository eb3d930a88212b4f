package controllers

import (
	"bytes"
	"chatsync/internal/models"
	"chatsync/internal/providers"
	"chatsync/internal/services"
	"chatsync/internal/testutil"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDelivery struct {
	flushResult services.FlushResult
	flushes     int
	depth       int
}

func (f *fakeDelivery) Deliver(_ context.Context, _ models.SyncPayload) error { return nil }

func (f *fakeDelivery) Flush(_ context.Context) services.FlushResult {
	f.flushes++
	return f.flushResult
}

func (f *fakeDelivery) QueueDepth() int { return f.depth }

type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (c *fakeCache) Get(key string) ([]byte, bool) {
	val, ok := c.data[key]
	return val, ok
}

func (c *fakeCache) Set(key string, value []byte) { c.data[key] = value }

type apiHarness struct {
	api      *ApiController
	host     *providers.HostState
	settings services.SettingsServiceInterface
	delivery *fakeDelivery
	cache    *fakeCache
}

func newApiHarness(t *testing.T) *apiHarness {
	t.Helper()
	state := testutil.NewMockStateManager()
	logger := &testutil.MockLogger{}
	settings := services.NewSettingsService(state, logger)
	dedup := services.NewDedupService(settings, models.NewFingerprintSet(), state, logger)
	host := providers.NewHostState()
	delivery := &fakeDelivery{}
	cache := newFakeCache()
	api := NewApiController(logger, host, settings, dedup, delivery, cache)
	return &apiHarness{api: api, host: host, settings: settings, delivery: delivery, cache: cache}
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestSnapshot_FirstPush(t *testing.T) {
	h := newApiHarness(t)

	rec := doJSON(t, h.api.Snapshot, http.MethodPost, "/snapshot",
		`{"chatId":"chat-1","character":"Aria","messages":[{"role":"user","text":"hi"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"switched":false}`, rec.Body.String())
	assert.Equal(t, "chat-1", h.host.GetActiveConversationID())
	assert.Len(t, h.host.GetConversationHistory(), 1)
}

func TestSnapshot_ConversationChangeReportsSwitch(t *testing.T) {
	h := newApiHarness(t)
	doJSON(t, h.api.Snapshot, http.MethodPost, "/snapshot", `{"chatId":"chat-1","character":"Aria"}`)

	rec := doJSON(t, h.api.Snapshot, http.MethodPost, "/snapshot", `{"chatId":"chat-2","character":"Bram"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"switched":true}`, rec.Body.String())
}

func TestSnapshot_BadRequest(t *testing.T) {
	h := newApiHarness(t)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, h.api.Snapshot, http.MethodPost, "/snapshot", "{bad").Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, h.api.Snapshot, http.MethodPost, "/snapshot", `{"character":"Aria"}`).Code)
}

func TestTurn_FiresHandlers(t *testing.T) {
	h := newApiHarness(t)
	var fired []int
	h.host.OnTurnCompleted(func(i int) { fired = append(fired, i) })

	rec := doJSON(t, h.api.Turn, http.MethodPost, "/turn", `{"index":2}`)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []int{2}, fired)
}

func TestTurn_BadRequest(t *testing.T) {
	h := newApiHarness(t)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, h.api.Turn, http.MethodPost, "/turn", "nope").Code)
}

func TestFlushQueue_ReturnsResult(t *testing.T) {
	h := newApiHarness(t)
	h.delivery.flushResult = services.FlushResult{Flushed: 2, Remaining: 1}

	rec := doJSON(t, h.api.FlushQueue, http.MethodPost, "/flush", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"flushed":2,"remaining":1}`, rec.Body.String())
	assert.Equal(t, 1, h.delivery.flushes)
}

func TestGetSettings(t *testing.T) {
	h := newApiHarness(t)

	rec := doJSON(t, h.api.GetSettings, http.MethodGet, "/settings", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var s models.SyncSettings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, models.DefaultSyncSettings(), s)
}

func TestUpdateSettings_PartialPatch(t *testing.T) {
	h := newApiHarness(t)

	rec := doJSON(t, h.api.UpdateSettings, http.MethodPut, "/settings", `{"realtimeSync":false,"maxBufferSize":50}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var s models.SyncSettings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.False(t, s.RealtimeSync)
	assert.Equal(t, 50, s.MaxBufferSize)
	assert.True(t, s.Enabled)
	assert.False(t, h.settings.Get().RealtimeSync)
}

func TestUpdateSettings_BadRequest(t *testing.T) {
	h := newApiHarness(t)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, h.api.UpdateSettings, http.MethodPut, "/settings", "{oops").Code)
}

func TestStatus_ComputesAndCaches(t *testing.T) {
	h := newApiHarness(t)
	h.delivery.depth = 3

	rec := doJSON(t, h.api.Status, http.MethodGet, "/status", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(3), resp["queueDepth"])
	assert.Nil(t, resp["lastSyncTime"])
	assert.Contains(t, h.cache.data, "status")
}

func TestStatus_ServesCachedBytes(t *testing.T) {
	h := newApiHarness(t)
	h.cache.Set("status", []byte(`{"cached":true}`))

	rec := doJSON(t, h.api.Status, http.MethodGet, "/status", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cached":true}`, rec.Body.String())
}

func TestStatus_FormatsLastSyncTime(t *testing.T) {
	h := newApiHarness(t)
	synced := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	h.settings.Update(func(s *models.SyncSettings) { s.LastSyncTime = &synced })

	rec := doJSON(t, h.api.Status, http.MethodGet, "/status", "")

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2025-06-01T10:30:00Z", resp["lastSyncTime"])
}

func TestSnapshot_OversizedBodyRejected(t *testing.T) {
	h := newApiHarness(t)
	big := bytes.Repeat([]byte("a"), maxRequestBodySize+1)
	body := `{"chatId":"chat-1","character":"` + string(big) + `"}`

	rec := doJSON(t, h.api.Snapshot, http.MethodPost, "/snapshot", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
