package flatwire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tuannm99/flatdb/internal/alias/util"
	"github.com/tuannm99/flatdb/internal/sql/executor"
)

type ServerConfig struct {
	Addr  string
	Debug bool
}

// Executor is what the server runs queries on; *engine.Database in
// production. It must serialize queries itself.
type Executor interface {
	Exec(query string) (*executor.Result, error)
}

// Run listens on sc.Addr and serves until ctx is cancelled.
func Run(ctx context.Context, sc ServerConfig, db Executor) error {
	ln, err := net.Listen("tcp", sc.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	slog.Info("flatdb tcp server listening", "addr", ln.Addr().String())
	return Serve(ctx, ln, db, sc.Debug)
}

// Serve accepts connections on ln until ctx is cancelled, then closes every
// open connection and waits for their handlers to return.
func Serve(ctx context.Context, ln net.Listener, db Executor, debug bool) error {
	s := &server{db: db, debug: debug, conns: make(map[net.Conn]struct{})}

	stop := context.AfterFunc(ctx, func() {
		util.CloseQuietly(ln, "listener")
		s.closeAll()
	})
	defer stop()
	defer util.CloseQuietly(ln, "listener")

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.closeAll()
				s.wg.Wait()
				return nil
			}
			slog.Warn("accept failed", "err", err)
			continue
		}
		if !s.track(conn) {
			util.CloseQuietly(conn, "conn")
			continue
		}
		s.wg.Add(1)
		go s.handleConn(ctx, conn)
	}
}

type server struct {
	db    Executor
	debug bool

	wg     sync.WaitGroup
	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool
}

func (s *server) track(c net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[c] = struct{}{}
	return true
}

func (s *server) untrack(c net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, c)
}

func (s *server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for c := range s.conns {
		util.CloseQuietly(c, "conn")
	}
}

func (s *server) handleConn(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	defer s.untrack(conn)
	defer util.CloseQuietly(conn, "conn")

	// No global deadline; the client sets per-request deadlines.
	_ = conn.SetDeadline(time.Time{})

	log := slog.With("session", uuid.NewString(), "remote", conn.RemoteAddr().String())
	log.Info("session opened")
	defer log.Info("session closed")

	for ctx.Err() == nil {
		var req ExecuteRequest
		if err := ReadFrame(conn, &req); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				log.Warn("read frame", "err", err)
			}
			return
		}
		if s.debug {
			log.Debug("query", "id", req.ID, "query", req.Query)
		}

		resp := ExecuteResponse{ID: req.ID}
		res, err := s.db.Exec(req.Query)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Result = res
		}

		if err := WriteFrame(conn, resp); err != nil {
			log.Warn("write frame", "err", err)
			return
		}
	}
}
