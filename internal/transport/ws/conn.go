// Package ws carries session frames over a websocket.
package ws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var (
	ErrClosed = errors.New("connection closed")
	// ErrSendBufferFull means the frame was dropped and the connection is
	// still usable.
	ErrSendBufferFull error = temporaryError("send buffer full")
)

type temporaryError string

func (e temporaryError) Error() string   { return string(e) }
func (e temporaryError) Temporary() bool { return true }

// Options tune a connection. Zero values use the defaults below.
type Options struct {
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	SendBuffer       int
}

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultWriteTimeout     = 10 * time.Second
	defaultSendBuffer       = 256
)

func (o Options) withDefaults() Options {
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = defaultHandshakeTimeout
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = defaultWriteTimeout
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = defaultSendBuffer
	}
	return o
}

// SessionURL returns the endpoint of retro sessionID on the server at base.
// http and https bases are mapped to ws and wss.
func SessionURL(base, sessionID string) (string, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return "", fmt.Errorf("invalid session id %q: %w", sessionID, err)
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("server url has no host")
	}

	u.Path = path.Join("/", u.Path, "ws", "retro", id.String()) + "/"
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// Conn is a session connection. Send may be called from any goroutine;
// frames are written in order by a single writer.
type Conn struct {
	conn         *websocket.Conn
	send         chan []byte
	done         chan struct{}
	writeTimeout time.Duration
	log          zerolog.Logger

	closeOnce sync.Once
	mu        sync.Mutex
	err       error
}

// Dial opens a connection to rawURL.
func Dial(ctx context.Context, rawURL string, opts Options, logger zerolog.Logger) (*Conn, error) {
	opts = opts.withDefaults()
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: opts.HandshakeTimeout,
	}

	conn, resp, err := dialer.DialContext(ctx, rawURL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", rawURL, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", rawURL, err)
	}

	c := &Conn{
		conn:         conn,
		send:         make(chan []byte, opts.SendBuffer),
		done:         make(chan struct{}),
		writeTimeout: opts.WriteTimeout,
		log:          logger.With().Str("url", rawURL).Logger(),
	}
	go c.writeLoop()

	c.log.Info().Msg("session connection opened")
	return c, nil
}

// Send queues a text frame. It never blocks.
func (c *Conn) Send(data []byte) error {
	select {
	case <-c.done:
		return c.closedErr()
	default:
	}

	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return c.closedErr()
	default:
		return ErrSendBufferFull
	}
}

// ReadLoop hands every received text frame to handle until the connection
// fails, is closed or ctx is cancelled. It returns nil after Close.
func (c *Conn) ReadLoop(ctx context.Context, handle func([]byte)) error {
	stop := context.AfterFunc(ctx, func() { c.Close() })
	defer stop()

	for {
		typ, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return c.Err()
			default:
			}
			c.fail(err)
			return err
		}
		if typ != websocket.TextMessage {
			c.log.Debug().Int("frame_type", typ).Msg("ignoring non-text frame")
			continue
		}
		handle(data)
	}
}

// Close sends a close frame and releases the connection.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		deadline := time.Now().Add(c.writeTimeout)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, deadline)
		err = c.conn.Close()
		c.log.Info().Msg("session connection closed")
	})
	return err
}

// Err returns the error that broke the connection, if any.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Conn) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.fail(err)
				return
			}
		}
	}
}

func (c *Conn) fail(err error) {
	c.mu.Lock()
	if c.err == nil {
		c.err = err
	}
	c.mu.Unlock()

	c.log.Error().Err(err).Msg("session connection failed")
	c.Close()
}

func (c *Conn) closedErr() error {
	if err := c.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrClosed, err)
	}
	return ErrClosed
}
