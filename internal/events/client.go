package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// NATS subjects published by knowji.
const (
	SubjectSessionCreated   = "knowji.session.created"
	SubjectSessionDeleted   = "knowji.session.deleted"
	SubjectContentProcessed = "knowji.content.processed"
)

// SessionEvent is emitted when a learning session is saved or removed.
type SessionEvent struct {
	SessionID  string `json:"session_id"`
	UserID     string `json:"user_id"`
	Title      string `json:"title,omitempty"`
	Flashcards int    `json:"flashcards,omitempty"`
}

// ContentProcessed is emitted after a pipeline run succeeds.
type ContentProcessed struct {
	Kind       string `json:"kind"`
	Summary    int    `json:"summary"`
	Insights   int    `json:"insights"`
	Flashcards int    `json:"flashcards"`
}

// Client publishes knowji events on NATS. It never subscribes.
type Client struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// NewClient connects to url, retrying in the background if the server is not up yet.
func NewClient(ctx context.Context, url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.Name("knowji"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.ConnectHandler(func(nc *nats.Conn) {
			logger.Info("nats connected", "server", nc.ConnectedUrl())
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected, events buffered until reconnect", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "server", nc.ConnectedUrl())
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	return &Client{conn: nc, logger: logger}, nil
}

// Publish JSON-encodes event and sends it on subject.
func (c *Client) Publish(subject string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", subject, err)
	}
	if err := c.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	c.logger.Debug("event published", "subject", subject, "bytes", len(payload))
	return nil
}

// Close flushes pending events, waiting at most timeout, then closes the connection.
func (c *Client) Close(timeout time.Duration) {
	if c.conn.IsConnected() {
		if err := c.conn.FlushTimeout(timeout); err != nil {
			c.logger.Warn("nats flush before close failed", "error", err)
		}
	}
	c.conn.Close()
}
