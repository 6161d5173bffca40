// Package remote lets other processes drive the box over a websocket. Clients send
// {"width": n} and/or {"depth": n}; every applied change is broadcast to all clients as
// {"width": .., "depth": .., "y": ..}. Bad messages are answered with {"error": ".."}.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Path is where the websocket endpoint is mounted by Serve.
const Path = "/ws"

const (
	writeTimeout = 5 * time.Second
	readTimeout  = 5 * time.Minute
	outQueue     = 16
	maxMessage   = 4 << 10
)

// ErrEmptyRequest is reported to a client that sent neither width nor depth.
var ErrEmptyRequest = errors.New("expected width and/or depth")

// Request is a client message. A nil field leaves that dimension unchanged.
type Request struct {
	Width *float32 `json:"width,omitempty"`
	Depth *float32 `json:"depth,omitempty"`
}

// State is broadcast after every applied change.
type State struct {
	Width float32 `json:"width"`
	Depth float32 `json:"depth"`
	Y     float32 `json:"y"`
}

type errorMsg struct {
	Error string `json:"error"`
}

// DecodeRequest parses and validates one client message.
func DecodeRequest(msg []byte) (Request, error) {
	var req Request
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return Request{}, fmt.Errorf("bad message: %w", err)
	}
	if req.Width == nil && req.Depth == nil {
		return Request{}, ErrEmptyRequest
	}
	for _, v := range []*float32{req.Width, req.Depth} {
		if v != nil && (math.IsNaN(float64(*v)) || math.IsInf(float64(*v), 0)) {
			return Request{}, fmt.Errorf("bad message: value out of range")
		}
	}
	return req, nil
}

type client struct {
	conn *websocket.Conn
	out  chan []byte
}

// Server is the websocket endpoint. apply is called from connection goroutines and must hand the
// request over to the loop goroutine.
type Server struct {
	log   *slog.Logger
	apply func(Request)

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte
}

// NewServer returns a server that hands valid requests to apply.
func NewServer(apply func(Request), log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		log:     log,
		apply:   apply,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  maxMessage,
			WriteBufferSize: maxMessage,
			CheckOrigin:     func(r *http.Request) bool { return true }, // local tool
		},
	}
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Broadcast sends st to every client and remembers it for clients that connect later.
// A client whose queue is full misses the update.
func (s *Server) Broadcast(st State) {
	b, err := json.Marshal(st)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = b
	for c := range s.clients {
		select {
		case c.out <- b:
		default:
			s.log.Debug("remote client lagging, dropped state")
		}
	}
}

func (s *Server) register(conn *websocket.Conn) *client {
	c := &client{conn: conn, out: make(chan []byte, outQueue)}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c] = struct{}{}
	if s.last != nil {
		c.out <- s.last
	}
	return c
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, c)
}

// reply queues a message for one client without blocking the reader.
func (c *client) reply(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case c.out <- b:
	default:
	}
}

// Handler upgrades the request and serves one client until it disconnects.
func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.SetReadLimit(maxMessage)

		c := s.register(conn)
		defer s.unregister(c)
		s.log.Info("remote client connected", "addr", r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				select {
				case <-ctx.Done():
					return
				case b := <-c.out:
					_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						_ = conn.Close() // unblocks the reader
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			req, err := DecodeRequest(msg)
			if err != nil {
				s.log.Warn("remote message rejected", "addr", r.RemoteAddr, "err", err)
				c.reply(errorMsg{Error: err.Error()})
				continue
			}
			s.apply(req)
		}

		cancel()
		<-done
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))
		s.log.Info("remote client disconnected", "addr", r.RemoteAddr)
	}
}

// closeAll closes every client connection, which ends their handlers.
func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		_ = c.conn.Close()
	}
}

// Serve listens on addr and serves Path until ctx is done.
func (s *Server) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(Path, s.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("remote control listening", "addr", addr, "path", Path)

	select {
	case err := <-errc:
		return fmt.Errorf("remote: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.closeAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("remote: shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("remote: %w", err)
	}
	return nil
}
