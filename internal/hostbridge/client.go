// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package hostbridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/runestatus-sync/internal/logging"
)

// ErrNotConnected is returned by Send while no plugin connection is open.
var ErrNotConnected = errors.New("host bridge not connected")

const (
	minReconnectDelay = 1 * time.Second
	maxReconnectDelay = 32 * time.Second
	readTimeout       = 60 * time.Second
	pingInterval      = 30 * time.Second
	writeTimeout      = 5 * time.Second
)

// FrameHandler receives connection events. HandleFrame is called on the
// reader goroutine, one frame at a time.
type FrameHandler interface {
	HandleFrame(data []byte)
	HandleConnected()
	HandleDisconnected()
}

// Client keeps a WebSocket connection to the plugin open, reconnecting with
// exponential backoff. It implements suture.Service and Commander.
type Client struct {
	url              string
	handshakeTimeout time.Duration
	handler          FrameHandler

	// connMu guards conn and serializes writes.
	connMu sync.Mutex
	conn   *websocket.Conn

	// reconnect delays, overridable in tests
	minDelay time.Duration
	maxDelay time.Duration
}

// NewClient creates a client for url. Frames go to handler.
func NewClient(url string, handshakeTimeout time.Duration, handler FrameHandler) *Client {
	return &Client{
		url:              url,
		handshakeTimeout: handshakeTimeout,
		handler:          handler,
		minDelay:         minReconnectDelay,
		maxDelay:         maxReconnectDelay,
	}
}

// SetHandler replaces the frame handler. Must be called before Serve.
func (c *Client) SetHandler(h FrameHandler) { c.handler = h }

// Serve connects and reads frames until ctx is canceled.
func (c *Client) Serve(ctx context.Context) error {
	delay := c.minDelay
	for {
		conn, err := c.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logging.Info().Err(err).Dur("delay", delay).Str("url", c.url).Msg("Host bridge unavailable, retrying")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
			continue
		}

		delay = c.minDelay
		c.session(ctx, conn)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: c.handshakeTimeout}
	conn, resp, err := dialer.DialContext(ctx, c.url, nil)
	if resp != nil && resp.Body != nil {
		if cerr := resp.Body.Close(); cerr != nil {
			logging.Debug().Err(cerr).Msg("Failed to close handshake response body")
		}
	}
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	return conn, nil
}

// session runs one connection until it fails or ctx ends.
func (c *Client) session(ctx context.Context, conn *websocket.Conn) {
	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	logging.Info().Str("url", c.url).Msg("Host bridge connected")
	c.handler.HandleConnected()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.keepAlive(ctx, conn, done)
	}()

	c.readLoop(ctx, conn)

	close(done)
	wg.Wait()
	c.closeConnection()
	c.handler.HandleDisconnected()
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		logging.Debug().Err(err).Msg("Failed to set read deadline")
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			switch {
			case ctx.Err() != nil:
			case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
				logging.Info().Msg("Host bridge closed by plugin")
			default:
				logging.Warn().Err(err).Msg("Host bridge read failed")
			}
			return
		}
		if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			logging.Debug().Err(err).Msg("Failed to extend read deadline")
		}
		if msgType != websocket.TextMessage {
			continue
		}
		c.handler.HandleFrame(data)
	}
}

// keepAlive pings the plugin and closes the connection when ctx ends, which
// unblocks the reader.
func (c *Client) keepAlive(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			c.closeConnection()
			return
		case <-ticker.C:
			c.connMu.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
			c.connMu.Unlock()
			if err != nil {
				logging.Warn().Err(err).Msg("Host bridge ping failed")
				c.closeConnection()
				return
			}
		}
	}
}

// closeConnection sends a close frame and drops the connection. Safe to call
// more than once.
func (c *Client) closeConnection() {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return
	}
	if err := c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	); err != nil {
		logging.Debug().Err(err).Msg("Failed to send close message")
	}
	if err := c.conn.Close(); err != nil {
		logging.Debug().Err(err).Msg("Failed to close host bridge connection")
	}
	c.conn = nil
}

// Send writes one command. Safe for concurrent use.
func (c *Client) Send(cmd Command) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to encode command: %w", err)
	}

	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write command: %w", err)
	}
	return nil
}

// IsConnected reports whether a plugin connection is open.
func (c *Client) IsConnected() bool {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	return c.conn != nil
}

func (c *Client) String() string { return "host-bridge" }
