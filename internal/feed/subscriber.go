package feed

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fleet_console/internal/logger"
	"fleet_console/internal/models"
	"fleet_console/internal/repository"

	"github.com/gorilla/websocket"
)

// Reconnect/backoff and read tuning for the upstream subscription.
const (
	initialBackoff   = 1 * time.Second
	maxBackoff       = 30 * time.Second
	handshakeTimeout = 10 * time.Second
	readLimit        = 16 << 20 // full fleet snapshots can be large
)

// snapshot is the wire shape of one feed message.
type snapshot struct {
	Items []models.Twin `json:"items"`
}

// Subscriber owns the single long-lived subscription to the twin feed.
// Each message carries the complete fleet and replaces the local collection
// wholesale; the feed never publishes deltas, so a late or reordered
// message simply overwrites prior state. Malformed messages are discarded
// and the collection is left as-is.
type Subscriber struct {
	url   string
	twins repository.TwinRepo
	log   *logger.Logger

	dialer *websocket.Dialer
}

func NewSubscriber(url string, twins repository.TwinRepo, log *logger.Logger) *Subscriber {
	return &Subscriber{
		url:    url,
		twins:  twins,
		log:    log,
		dialer: &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
	}
}

// Run connects and consumes the feed until ctx is canceled. Transport
// failures mark the collection unhealthy and trigger a reconnect with
// capped exponential backoff; the next valid message heals the state.
func (s *Subscriber) Run(ctx context.Context) {
	backoff := initialBackoff
	for {
		if err := s.consume(ctx); err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			s.twins.SetHealthy(false)
			if s.log != nil {
				s.log.Errorw("feed_disconnected", "err", err, "retry_in", backoff)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// consume runs one connection: dial, then read messages until the
// connection or the context dies.
func (s *Subscriber) consume(ctx context.Context) error {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(readLimit)
	s.twins.SetHealthy(true)
	if s.log != nil {
		s.log.Infow("feed_connected", "url", s.url)
	}

	// Close the connection when ctx ends so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		s.apply(raw)
	}
}

// apply parses one message and replaces the collection. Parse failures are
// logged for diagnostics and leave the previous collection untouched.
func (s *Subscriber) apply(raw []byte) {
	items, err := parseSnapshot(raw)
	if err != nil {
		if s.log != nil {
			s.log.Errorw("feed_message_malformed", "err", err, "bytes", len(raw))
		}
		return
	}
	s.twins.Replace(items)
	s.twins.SetHealthy(true)
}

// parseSnapshot decodes a feed message. A missing items field is an empty
// fleet, which is a valid snapshot.
func parseSnapshot(raw []byte) ([]models.Twin, error) {
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}
	return snap.Items, nil
}
