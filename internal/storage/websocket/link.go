package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
)

const (
	queueSize    = 4096
	maxReconnect = 10
	maxBackoff   = 30 * time.Second
	writeWait    = 10 * time.Second
	ackTimeout   = 10 * time.Second
)

// link is the viewer connection. A single run goroutine owns the socket: it
// writes queued envelopes, and after a drop it redials and replays the
// latest save before anything else.
type link struct {
	endpoint   string
	retryDelay time.Duration
	logger     *slog.Logger

	queue   chan []byte
	done    chan struct{} // closed by close
	stopped chan struct{} // closed when run returns

	mu       sync.Mutex
	conn     *ws.Conn
	started  bool
	closed   bool
	lastSave []byte
	// waiters per envelope type, acked oldest first
	waiters map[string][]chan struct{}
}

func newLink(logger *slog.Logger) *link {
	return &link{
		retryDelay: time.Second,
		logger:     logger,
		queue:      make(chan []byte, queueSize),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		waiters:    make(map[string][]chan struct{}),
	}
}

// endpoint adds the optional secret to the viewer URL.
func endpoint(rawURL, secret string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid websocket URL: %w", err)
	}
	if secret != "" {
		q := u.Query()
		q.Set("secret", secret)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// open dials once and starts the run goroutine. Later drops are retried in
// the background.
func (l *link) open(rawURL, secret string) error {
	ep, err := endpoint(rawURL, secret)
	if err != nil {
		return err
	}
	l.endpoint = ep

	conn, _, err := ws.DefaultDialer.Dial(l.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial failed: %w", err)
	}

	l.mu.Lock()
	l.started = true
	l.mu.Unlock()
	go l.run(conn)
	return nil
}

func (l *link) run(conn *ws.Conn) {
	defer close(l.stopped)
	for conn != nil {
		l.setConn(conn)
		readErr := make(chan error, 1)
		go l.readAcks(conn, readErr)

		err := l.pump(conn, readErr)
		_ = conn.Close()
		l.setConn(nil)
		if err == nil {
			return
		}
		l.logger.Warn("Viewer connection lost", "error", err)
		conn = l.redial()
	}
}

// pump writes queued envelopes until the socket fails or the link closes.
// It returns nil only on close.
func (l *link) pump(conn *ws.Conn, readErr <-chan error) error {
	for {
		select {
		case <-l.done:
			_ = conn.WriteControl(ws.CloseMessage,
				ws.FormatCloseMessage(ws.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return nil
		case err := <-readErr:
			return err
		case data := <-l.queue:
			if err := write(conn, data); err != nil {
				return err
			}
		}
	}
}

func write(conn *ws.Conn, data []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(ws.TextMessage, data)
}

// readAcks resolves waiters until the socket fails.
func (l *link) readAcks(conn *ws.Conn, readErr chan<- error) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			readErr <- err
			return
		}
		var ack AckMessage
		if err := json.Unmarshal(msg, &ack); err != nil || ack.Type != TypeAck {
			l.logger.Debug("Ignoring viewer message", "raw", string(msg))
			continue
		}
		l.acked(ack.For)
	}
}

// redial retries with exponential backoff and replays the latest save on
// the new socket. It returns nil when the link closes or retries run out.
func (l *link) redial() *ws.Conn {
	backoff := l.retryDelay
	for attempt := 1; attempt <= maxReconnect; attempt++ {
		select {
		case <-l.done:
			return nil
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)

		conn, _, err := ws.DefaultDialer.Dial(l.endpoint, nil)
		if err != nil {
			l.logger.Warn("Viewer redial failed", "attempt", attempt, "error", err)
			continue
		}
		if save := l.latestSave(); save != nil {
			if err := write(conn, save); err != nil {
				l.logger.Warn("Save replay failed", "attempt", attempt, "error", err)
				_ = conn.Close()
				continue
			}
		}
		l.logger.Info("Viewer reconnected", "attempt", attempt)
		return conn
	}
	l.logger.Error("Giving up on viewer connection", "attempts", maxReconnect)
	return nil
}

func (l *link) setConn(conn *ws.Conn) {
	l.mu.Lock()
	l.conn = conn
	l.mu.Unlock()
}

// live reports whether a socket is up and the link is open.
func (l *link) live() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn != nil && !l.closed
}

func (l *link) rememberSave(data []byte) {
	l.mu.Lock()
	l.lastSave = data
	l.mu.Unlock()
}

func (l *link) latestSave() []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastSave
}

// enqueue hands data to run without blocking.
func (l *link) enqueue(data []byte) bool {
	select {
	case l.queue <- data:
		return true
	default:
		l.logger.Warn("Viewer queue full, dropping message")
		return false
	}
}

func (l *link) await(msgType string) chan struct{} {
	ch := make(chan struct{})
	l.mu.Lock()
	l.waiters[msgType] = append(l.waiters[msgType], ch)
	l.mu.Unlock()
	return ch
}

func (l *link) forget(msgType string, ch chan struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	list := l.waiters[msgType]
	for i, w := range list {
		if w == ch {
			l.waiters[msgType] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// acked resolves the oldest waiter for msgType. Acks of replayed saves may
// find none.
func (l *link) acked(msgType string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	list := l.waiters[msgType]
	if len(list) == 0 {
		l.logger.Debug("Ack without waiter", "for", msgType)
		return
	}
	close(list[0])
	l.waiters[msgType] = list[1:]
}

// sendAndWait queues data and blocks until the viewer acks msgType.
func (l *link) sendAndWait(msgType string, data []byte, timeout time.Duration) error {
	ch := l.await(msgType)
	if !l.enqueue(data) {
		l.forget(msgType, ch)
		return fmt.Errorf("send queue full: %s", msgType)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ch:
		return nil
	case <-timer.C:
		l.forget(msgType, ch)
		return fmt.Errorf("timeout waiting for ack of %q", msgType)
	case <-l.done:
		l.forget(msgType, ch)
		return fmt.Errorf("connection closed while waiting for ack of %q", msgType)
	}
}

// close stops run after it sends a close frame.
func (l *link) close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	close(l.done)
	started := l.started
	l.mu.Unlock()

	if started {
		<-l.stopped
	}
	return nil
}
