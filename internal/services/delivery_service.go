package services

import (
	"bytes"
	"chatsync/internal/models"
	"chatsync/internal/providers"
	"chatsync/internal/syncstate/interfaces"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
)

// DeliveryError distinguishes a transport-level failure (endpoint
// unreachable) from an endpoint rejection (request completed, non-2xx).
// The flush loop aborts on the former and continues past the latter.
type DeliveryError struct {
	Transport  bool
	StatusCode int
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.Transport {
		return fmt.Sprintf("transport error: %s", e.Err)
	}
	return fmt.Sprintf("endpoint rejected payload: status %d", e.StatusCode)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

type FlushResult struct {
	Flushed   int `json:"flushed"`
	Remaining int `json:"remaining"`
}

type DeliveryServiceInterface interface {
	// Deliver attempts one network submission. On failure the payload is
	// buffered (when enabled) and the error returned for the caller to
	// log and discard — it must never propagate to the host.
	Deliver(ctx context.Context, p models.SyncPayload) error
	// Flush drains the offline queue oldest-first over the same transport
	// path. A transport failure aborts the pass; an endpoint rejection
	// retains the item and continues.
	Flush(ctx context.Context) FlushResult
	QueueDepth() int
}

type DeliveryService struct {
	settings SettingsServiceInterface
	dedup    DedupServiceInterface
	queue    *models.OfflineQueue
	state    interfaces.StateManagerInterface
	notifier providers.NotifierInterface
	metrics  providers.MetricsProviderInterface
	logger   providers.Logger
	client   *http.Client
	flushing atomic.Bool
}

func NewDeliveryService(settings SettingsServiceInterface, dedup DedupServiceInterface, queue *models.OfflineQueue, state interfaces.StateManagerInterface, notifier providers.NotifierInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) DeliveryServiceInterface {
	return &DeliveryService{
		settings: settings,
		dedup:    dedup,
		queue:    queue,
		state:    state,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
		// No client timeout: the transport defaults are the only bound,
		// retries belong to the offline queue, never to the request.
		client: &http.Client{},
	}
}

func (d *DeliveryService) Deliver(ctx context.Context, p models.SyncPayload) error {
	s := d.settings.Get()

	// Real-time path dedup; conversation payloads are suppressed by the
	// aggregator under their own key before they reach the engine.
	if p.Kind == models.KindMessage && d.dedup.ShouldSuppress(p) {
		d.metrics.IncDelivery(p.Kind, providers.OutcomeSuppressed)
		return nil
	}

	start := time.Now()
	derr := d.post(ctx, s.EndpointURL, &p)
	d.metrics.ObserveDeliveryDuration(time.Since(start))

	if derr == nil {
		d.metrics.IncDelivery(p.Kind, providers.OutcomeOK)
		now := time.Now()
		d.settings.Update(func(s *models.SyncSettings) {
			s.LastSyncTime = &now
		})
		if s.NotifyOnSuccess {
			d.notifier.Notify(providers.NotifySuccess, fmt.Sprintf("Synced %s payload for chat %s", p.Kind, p.ChatID))
		}
		// Reachability just confirmed — the only flush trigger besides an
		// explicit manual request.
		d.Flush(ctx)
		return nil
	}

	if derr.Transport {
		d.metrics.IncDelivery(p.Kind, providers.OutcomeTransportError)
	} else {
		d.metrics.IncDelivery(p.Kind, providers.OutcomeHttpError)
	}

	if s.OfflineBufferEnabled {
		d.queue.SetMax(s.MaxBufferSize)
		if dropped := d.queue.Push(p); dropped > 0 {
			d.metrics.IncQueueDropped()
			d.logger.Warnf(providers.TypeQueue, "Offline queue full, dropped %d oldest payload(s)", dropped)
		}
		d.persistQueue()
		d.logger.Debugf(providers.TypeQueue, "Buffered %s payload for chat %s: %s", p.Kind, p.ChatID, derr)
	}

	if s.NotifyOnError {
		d.notifier.Notify(providers.NotifyError, fmt.Sprintf("Memory sync failed: %s", derr))
	}
	return derr
}

func (d *DeliveryService) Flush(ctx context.Context) FlushResult {
	// A delivery success inside a flush must not start a second pass.
	if !d.flushing.CompareAndSwap(false, true) {
		return FlushResult{Remaining: d.queue.Len()}
	}
	defer d.flushing.Store(false)

	entries := d.queue.Entries()
	if len(entries) == 0 {
		return FlushResult{}
	}

	endpoint := d.settings.Get().EndpointURL
	delivered := make([]uint64, 0, len(entries))
	for i := range entries {
		derr := d.post(ctx, endpoint, &entries[i].Payload)
		if derr == nil {
			delivered = append(delivered, entries[i].Seq)
			continue
		}
		if derr.Transport {
			// Still offline: leave this and everything after it queued.
			d.logger.Debugf(providers.TypeQueue, "Flush aborted at %d/%d: %s", i, len(entries), derr)
			break
		}
		// Endpoint rejected this one item; retain it and keep going.
	}

	// Remove only what was delivered, under the queue's own lock. A payload
	// buffered while this pass was on the wire stays queued.
	flushed := d.queue.Remove(delivered)
	d.persistQueue()
	d.metrics.AddFlushed(flushed)

	remaining := d.queue.Len()
	if flushed > 0 {
		d.logger.Infof(providers.TypeQueue, "Flushed %d payload(s), %d remaining", flushed, remaining)
		if remaining == 0 && d.settings.Get().NotifyOnSuccess {
			d.notifier.Notify(providers.NotifySuccess, fmt.Sprintf("Offline buffer drained: %d payload(s) delivered", flushed))
		}
	}
	return FlushResult{Flushed: flushed, Remaining: remaining}
}

func (d *DeliveryService) QueueDepth() int {
	return d.queue.Len()
}

// post performs the single wire operation of the outbound protocol: one POST
// of the JSON payload, success iff 2xx.
func (d *DeliveryService) post(ctx context.Context, endpoint string, p *models.SyncPayload) *DeliveryError {
	body, err := json.Marshal(p)
	if err != nil {
		return &DeliveryError{Transport: true, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &DeliveryError{Transport: true, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return &DeliveryError{Transport: true, Err: err}
	}
	defer resp.Body.Close()
	// Response body only matters for diagnostics.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &DeliveryError{StatusCode: resp.StatusCode}
	}
	return nil
}

func (d *DeliveryService) persistQueue() {
	if err := d.state.SaveRecord(interfaces.RecordQueue, d.queue.Items()); err != nil {
		d.logger.Warnf(providers.TypeQueue, "Failed to persist offline queue: %s", err)
	}
}
