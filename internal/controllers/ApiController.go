package controllers

import (
	"chatsync/internal/models"
	"chatsync/internal/providers"
	"chatsync/internal/services"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger   providers.Logger
	host     *providers.HostState
	settings services.SettingsServiceInterface
	dedup    services.DedupServiceInterface
	delivery services.DeliveryServiceInterface
	cache    providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, host *providers.HostState, settings services.SettingsServiceInterface, dedup services.DedupServiceInterface, delivery services.DeliveryServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:   logger,
		host:     host,
		settings: settings,
		dedup:    dedup,
		delivery: delivery,
		cache:    cache,
	}
}

type snapshotRequest struct {
	ChatID    string                  `json:"chatId"`
	Character string                  `json:"character"`
	Messages  []models.HistoryMessage `json:"messages"`
}

type turnRequest struct {
	Index int `json:"index"`
}

type statusResponse struct {
	Enabled              bool    `json:"enabled"`
	RealtimeSync         bool    `json:"realtimeSync"`
	FullConversationSync bool    `json:"fullConversationSync"`
	QueueDepth           int     `json:"queueDepth"`
	Fingerprints         int     `json:"fingerprints"`
	LastSyncTime         *string `json:"lastSyncTime"`
}

func (ac *ApiController) writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// Snapshot receives the host's current conversation state. A conversation id
// change fires the switch handlers before the reply is written.
func (ac *ApiController) Snapshot(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload snapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if payload.ChatID == "" {
		http.Error(w, "chatId is required", http.StatusBadRequest)
		return
	}
	switched := ac.host.SetSnapshot(payload.ChatID, payload.Character, payload.Messages)
	ac.writeJSON(w, http.StatusOK, map[string]bool{"switched": switched})
}

// Turn fires the turn-completed handlers for the message at the given index.
func (ac *ApiController) Turn(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload turnRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	ac.host.FireTurnCompleted(payload.Index)
	w.WriteHeader(http.StatusAccepted)
}

// FlushQueue is the explicit manual flush trigger.
func (ac *ApiController) FlushQueue(w http.ResponseWriter, r *http.Request) {
	result := ac.delivery.Flush(r.Context())
	ac.writeJSON(w, http.StatusOK, result)
}

func (ac *ApiController) GetSettings(w http.ResponseWriter, r *http.Request) {
	ac.writeJSON(w, http.StatusOK, ac.settings.Get())
}

func (ac *ApiController) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	updated, err := ac.settings.Patch(raw)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	ac.logger.Infof(providers.TypeApp, "Settings updated")
	ac.writeJSON(w, http.StatusOK, updated)
}

func (ac *ApiController) Status(w http.ResponseWriter, r *http.Request) {
	if data, ok := ac.cache.Get("status"); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	s := ac.settings.Get()
	resp := statusResponse{
		Enabled:              s.Enabled,
		RealtimeSync:         s.RealtimeSync,
		FullConversationSync: s.FullConversationSync,
		QueueDepth:           ac.delivery.QueueDepth(),
		Fingerprints:         ac.dedup.Size(),
	}
	if s.LastSyncTime != nil {
		formatted := s.LastSyncTime.Format(time.RFC3339)
		resp.LastSyncTime = &formatted
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.cache.Set("status", gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}
