package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"
	"github.com/rupert648/feed-the-moose/internal/model"
)

// Reminder TTL: a feeding reminder is pointless a day later.
const messageTTL = 86400

// ErrNotConfigured is returned when the VAPID credentials are missing.
var ErrNotConfigured = errors.New("push credentials not configured")

// SubscriptionStore is the slice of the subscription table the dispatcher
// needs: the full set for fan-out, and deletion for stale-endpoint pruning.
type SubscriptionStore interface {
	GetAll() ([]model.PushSubscription, error)
	Remove(endpoint string) error
}

// Credentials holds the VAPID key pair and the administrative contact
// (mailto: or https: URL) push services use to authenticate our requests.
type Credentials struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subject         string
}

// Payload is the notification content delivered to each device.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

// Result aggregates one SendToAll fan-out.
type Result struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
	Total  int `json:"total"`
}

// wireMessage is what the service worker receives.
type wireMessage struct {
	Title string          `json:"title"`
	Body  string          `json:"body"`
	Data  wireMessageData `json:"data"`
}

type wireMessageData struct {
	URL string `json:"url"`
}

// Dispatcher fans a notification out to every registered push endpoint.
// Each send is independent; a hung or failing endpoint never affects the
// others, and endpoints the provider reports gone (404/410) are deleted.
type Dispatcher struct {
	store  SubscriptionStore
	creds  Credentials
	client *http.Client
	logger zerolog.Logger
}

// NewDispatcher creates a push dispatcher. client may be nil, in which case
// http.DefaultClient is used.
func NewDispatcher(store SubscriptionStore, creds Credentials, client *http.Client, logger zerolog.Logger) *Dispatcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Dispatcher{
		store:  store,
		creds:  creds,
		client: client,
		logger: logger,
	}
}

// SendToAll sends the payload to every subscription concurrently and waits
// for all attempts to settle. Individual failures are counted, never
// propagated; the returned error covers only being unable to read the
// subscription list or missing credentials.
func (d *Dispatcher) SendToAll(ctx context.Context, payload Payload) (Result, error) {
	if d.creds.VAPIDPrivateKey == "" || d.creds.VAPIDPublicKey == "" {
		return Result{}, ErrNotConfigured
	}

	subs, err := d.store.GetAll()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read subscriptions: %w", err)
	}

	url := payload.URL
	if url == "" {
		url = "/"
	}
	message, err := json.Marshal(wireMessage{
		Title: payload.Title,
		Body:  payload.Body,
		Data:  wireMessageData{URL: url},
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	outcomes := make(chan bool, len(subs))
	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub model.PushSubscription) {
			defer wg.Done()
			outcomes <- d.sendOne(ctx, sub, message)
		}(sub)
	}
	wg.Wait()
	close(outcomes)

	result := Result{Total: len(subs)}
	for ok := range outcomes {
		if ok {
			result.Sent++
		} else {
			result.Failed++
		}
	}

	d.logger.Info().
		Int("sent", result.Sent).
		Int("failed", result.Failed).
		Int("total", result.Total).
		Str("title", payload.Title).
		Msg("push fan-out complete")

	return result, nil
}

// sendOne delivers to a single endpoint and reports success. It never
// returns an error: every failure mode folds into false.
func (d *Dispatcher) sendOne(ctx context.Context, sub model.PushSubscription, message []byte) bool {
	resp, err := webpush.SendNotificationWithContext(ctx, message, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dhKey,
			Auth:   sub.AuthKey,
		},
	}, &webpush.Options{
		HTTPClient:      d.client,
		Subscriber:      d.creds.Subject,
		TTL:             messageTTL,
		Urgency:         webpush.UrgencyNormal,
		VAPIDPublicKey:  d.creds.VAPIDPublicKey,
		VAPIDPrivateKey: d.creds.VAPIDPrivateKey,
	})
	if err != nil {
		d.logger.Warn().Err(err).Str("endpoint", sub.Endpoint).Msg("push send failed")
		return false
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		// Endpoint is permanently gone; prune the subscription.
		if err := d.store.Remove(sub.Endpoint); err != nil {
			d.logger.Error().Err(err).Str("endpoint", sub.Endpoint).Msg("failed to prune stale subscription")
		} else {
			d.logger.Info().Str("endpoint", sub.Endpoint).Int("status", resp.StatusCode).Msg("pruned stale subscription")
		}
		return false
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		d.logger.Warn().
			Str("endpoint", sub.Endpoint).
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Msg("push rejected by provider")
		return false
	}
}
