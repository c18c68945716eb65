package live

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"student_dashboard_go/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrNotConnected is returned by Emit while the channel is down
var ErrNotConnected = errors.New("live channel not connected")

const writeWait = 10 * time.Second

// Client holds the websocket connection to the live channel. It reconnects
// until its context ends, pacing dial attempts with a limiter.
type Client struct {
	url      string
	header   http.Header
	dialer   *websocket.Dialer
	limiter  *rate.Limiter
	listener *Listener
	logger   *zap.Logger

	mu   sync.Mutex // guards conn and serializes writes
	conn *websocket.Conn
}

// NewClient creates a client for the channel at url. sessionCookie, when set,
// is sent as the Cookie header of every handshake, as the stats client does.
func NewClient(url, sessionCookie string, reconnectInterval time.Duration, listener *Listener, logger *zap.Logger) *Client {
	header := http.Header{}
	if sessionCookie != "" {
		header.Set("Cookie", sessionCookie)
	}
	if reconnectInterval <= 0 {
		reconnectInterval = 2 * time.Second
	}

	return &Client{
		url:      url,
		header:   header,
		dialer:   &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(reconnectInterval), 1),
		listener: listener,
		logger:   logger.Named("live"),
	}
}

// Run connects and reads events until ctx is done. It always returns a non-nil error.
func (c *Client) Run(ctx context.Context) error {
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			// the next attempt would land past the deadline
			<-ctx.Done()
			return ctx.Err()
		}

		conn, _, err := c.dialer.DialContext(ctx, c.url, c.header)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("dial failed", zap.String("url", c.url), zap.Error(err))
			continue
		}

		c.setConn(conn)
		c.listener.SetConnected(true)
		if err := c.Emit(models.EventRequestDashboardUpdate, nil); err != nil {
			c.logger.Warn("could not request dashboard update", zap.Error(err))
		}

		err = c.read(ctx, conn)
		c.setConn(nil)
		conn.Close()

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			c.logger.Warn("live channel closed", zap.Error(err))
		}
		c.listener.SetConnected(false)
	}
}

// Emit sends an event to the server
func (c *Client) Emit(name string, data map[string]interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(models.LiveEvent{Name: name, Data: data})
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

// read dispatches frames until the connection fails or ctx ends
func (c *Client) read(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var ev models.LiveEvent
		if err := json.Unmarshal(payload, &ev); err != nil || ev.Name == "" {
			c.logger.Warn("malformed live frame", zap.ByteString("frame", payload), zap.Error(err))
			continue
		}
		c.listener.Dispatch(ctx, ev)
	}
}
