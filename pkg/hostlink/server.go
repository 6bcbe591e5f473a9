// Package hostlink carries the platform channel protocol over a WebSocket.
//
// A remote host framework connects to the Server, sends call frames that
// are routed through platform.HandleMethodCall on the UI sequence, and
// receives reply frames plus every notification the bridge emits. The
// Server is the process's platform.HostBridge while a session is open.
package hostlink

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	drifterrors "github.com/go-drift/textfield/pkg/errors"
	"github.com/go-drift/textfield/pkg/platform"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var _ platform.HostBridge = (*Server)(nil)

// ErrBackpressure is returned by Notify when the session's send queue is full.
var ErrBackpressure = errors.New("hostlink: send queue full")

// Options configures a Server. Zero fields take defaults.
type Options struct {
	// CallTimeout bounds how long a call may wait for the UI sequence.
	CallTimeout time.Duration
	// SendQueue is the number of frames buffered per session.
	SendQueue int
	// PingInterval is how often the server pings the host.
	PingInterval time.Duration
	// PongWait is how long the server waits for any frame or pong.
	PongWait time.Duration
	// CheckOrigin validates the upgrade request. nil accepts any origin.
	CheckOrigin func(*http.Request) bool
	// CallRate limits calls per second per session. Zero means unlimited.
	CallRate rate.Limit
	// CallBurst is the number of calls allowed above CallRate. Defaults to 32.
	CallBurst int
}

func (o Options) withDefaults() Options {
	if o.CallTimeout <= 0 {
		o.CallTimeout = 5 * time.Second
	}
	if o.SendQueue <= 0 {
		o.SendQueue = 256
	}
	if o.PingInterval <= 0 {
		o.PingInterval = 30 * time.Second
	}
	if o.PongWait <= o.PingInterval {
		o.PongWait = 2 * o.PingInterval
	}
	if o.CheckOrigin == nil {
		o.CheckOrigin = func(*http.Request) bool { return true }
	}
	if o.CallRate <= 0 {
		o.CallRate = rate.Inf
	}
	if o.CallBurst <= 0 {
		o.CallBurst = 32
	}
	return o
}

// Server accepts one host session at a time.
type Server struct {
	opts     Options
	upgrader websocket.Upgrader

	mu      sync.Mutex
	session *session
	closed  bool
}

// NewServer creates a server. Install it with platform.SetHostBridge so the
// bridge's notifications reach the connected host.
func NewServer(opts Options) *Server {
	opts = opts.withDefaults()
	return &Server{
		opts: opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     opts.CheckOrigin,
		},
	}
}

// ServeHTTP upgrades the request and runs the session until the host
// disconnects. A second concurrent host is refused with 409 Conflict.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	busy := s.session != nil
	closed := s.closed
	s.mu.Unlock()
	if closed {
		http.Error(w, "host link closed", http.StatusServiceUnavailable)
		return
	}
	if busy {
		SessionsRejected.Inc()
		http.Error(w, "host session already active", http.StatusConflict)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		Logger().Warn("host upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{
		id:     uuid.NewString(),
		conn:   conn,
		send:    make(chan Frame, s.opts.SendQueue),
		limiter: rate.NewLimiter(s.opts.CallRate, s.opts.CallBurst),
		ctx:     ctx,
		cancel:  cancel,
	}

	s.mu.Lock()
	if s.session != nil || s.closed {
		s.mu.Unlock()
		cancel()
		SessionsRejected.Inc()
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "host session already active"))
		conn.Close()
		return
	}
	s.session = sess
	s.mu.Unlock()

	SessionsActive.Inc()
	log := Logger().With(zap.String("session", sess.id), zap.String("remote_addr", r.RemoteAddr))
	log.Info("host connected")

	go sess.writePump(s.opts.PingInterval)
	s.readPump(sess, log)

	s.mu.Lock()
	if s.session == sess {
		s.session = nil
	}
	s.mu.Unlock()
	sess.close()
	SessionsActive.Dec()
	log.Info("host disconnected")
}

// readPump handles call frames in arrival order.
func (s *Server) readPump(sess *session, log *zap.Logger) {
	sess.conn.SetReadDeadline(time.Now().Add(s.opts.PongWait))
	sess.conn.SetPongHandler(func(string) error {
		sess.conn.SetReadDeadline(time.Now().Add(s.opts.PongWait))
		return nil
	})

	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				drifterrors.Report(&drifterrors.BridgeError{
					Op:   "hostlink.read",
					Kind: drifterrors.KindTransport,
					Err:  err,
				})
			}
			return
		}
		sess.conn.SetReadDeadline(time.Now().Add(s.opts.PongWait))

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			FramesReceived.WithLabelValues("invalid").Inc()
			drifterrors.Report(&drifterrors.BridgeError{
				Op:   "hostlink.decodeFrame",
				Kind: drifterrors.KindParsing,
				Err: &drifterrors.ParseError{
					Channel:  "hostlink",
					DataType: "Frame",
					Got:      string(data),
				},
			})
			continue
		}
		FramesReceived.WithLabelValues(string(frame.Kind)).Inc()

		if frame.Kind != KindCall {
			log.Debug("ignoring frame", zap.String("kind", string(frame.Kind)))
			continue
		}
		if !sess.limiter.Allow() {
			CallsThrottled.Inc()
			if err := sess.limiter.Wait(sess.ctx); err != nil {
				return
			}
		}
		reply := s.call(frame, log)
		if err := sess.enqueue(reply, true); err != nil {
			return
		}
	}
}

// call runs one host call on the UI sequence.
func (s *Server) call(frame Frame, log *zap.Logger) Frame {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.CallTimeout)
	defer cancel()

	var (
		result []byte
		err    error
	)
	if invokeErr := platform.Invoke(ctx, func() {
		result, err = platform.HandleMethodCall(frame.Channel, frame.Method, frame.Args)
	}); invokeErr != nil {
		CallTimeouts.Inc()
		log.Warn("host call timed out",
			zap.Int64("id", frame.ID),
			zap.String("channel", frame.Channel),
			zap.String("method", frame.Method),
		)
		return replyTo(frame, nil, platform.NewChannelError(platform.CodeInternal, "call timed out"))
	}
	return replyTo(frame, result, err)
}

// Notify implements platform.HostBridge. Without a session it returns
// platform.ErrNotConnected.
func (s *Server) Notify(channel, method string, args []byte) error {
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()
	if sess == nil {
		return platform.ErrNotConnected
	}
	return sess.enqueue(Frame{Kind: KindEvent, Channel: channel, Method: method, Args: args}, false)
}

// SessionID returns the id of the connected session.
func (s *Server) SessionID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return "", false
	}
	return s.session.id, true
}

// Close ends the current session and refuses new ones.
func (s *Server) Close() {
	s.mu.Lock()
	sess := s.session
	s.session = nil
	s.closed = true
	s.mu.Unlock()
	if sess != nil {
		sess.close()
	}
}

type session struct {
	id      string
	conn    *websocket.Conn
	send    chan Frame
	limiter *rate.Limiter
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
}

// enqueue queues f for writing. Replies wait for room; events are dropped
// when the queue is full.
func (ss *session) enqueue(f Frame, wait bool) error {
	if ss.ctx.Err() != nil {
		return platform.ErrNotConnected
	}
	if wait {
		select {
		case ss.send <- f:
			return nil
		case <-ss.ctx.Done():
			return platform.ErrNotConnected
		}
	}
	select {
	case ss.send <- f:
		return nil
	case <-ss.ctx.Done():
		return platform.ErrNotConnected
	default:
		FramesDropped.Inc()
		return ErrBackpressure
	}
}

func (ss *session) writePump(pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		ss.close()
	}()

	for {
		select {
		case frame := <-ss.send:
			ss.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := ss.conn.WriteJSON(frame); err != nil {
				return
			}
			FramesSent.WithLabelValues(string(frame.Kind)).Inc()

		case <-ticker.C:
			ss.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := ss.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-ss.ctx.Done():
			return
		}
	}
}

func (ss *session) close() {
	ss.once.Do(func() {
		ss.cancel()
		ss.conn.Close()
	})
}
