// Package netsrv binds the TCP listener and accept loop that turns
// incoming connections into session.Session instances.
package netsrv

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/ConnerAdamsMaine/RustCraft-Server/config"
	"github.com/ConnerAdamsMaine/RustCraft-Server/internal/errtrack"
	"github.com/ConnerAdamsMaine/RustCraft-Server/internal/session"
	"github.com/ConnerAdamsMaine/RustCraft-Server/internal/world"
)

// Config configures a Server. Zero-value fields take config package
// defaults, the same shape world.Config uses.
type Config struct {
	Addr            string
	Logger          *log.Logger
	ErrorThreshold  int
	ErrorWindow     time.Duration
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = config.ServerAddr
	}
	if c.Logger == nil {
		c.Logger = log.New(os.Stderr, "netsrv: ", log.LstdFlags)
	}
	if c.ErrorThreshold == 0 {
		c.ErrorThreshold = config.ErrorThreshold
	}
	if c.ErrorWindow == 0 {
		c.ErrorWindow = config.ErrorWindowSecs
	}
	return c
}

// acceptErrorKey is the single errtrack key the accept loop records
// against: repeated Accept failures in a short window usually mean the
// listener's underlying file descriptor is in trouble, not that any one
// client misbehaved.
var acceptErrorKey = errtrack.Key{Category: "NETWORK", Semantics: "accept_failed"}

// Server owns the TCP listener and the shared chunk storage every
// accepted session streams chunks from.
type Server struct {
	cfg      Config
	listener net.Listener
	storage  *world.Storage
	tracker  *errtrack.Tracker
	tripped  atomic.Bool
}

// New binds cfg.Addr and returns a Server ready to Serve.
func New(cfg Config, storage *world.Storage) (*Server, error) {
	cfg = cfg.withDefaults()

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("netsrv: listen on %s: %w", cfg.Addr, err)
	}

	return &Server{
		cfg:      cfg,
		listener: ln,
		storage:  storage,
		tracker:  errtrack.New(cfg.ErrorThreshold, cfg.ErrorWindow),
	}, nil
}

// Addr returns the listener's bound address.
func (s *Server) Addr() net.Addr { return s.listener.Addr() }

// Serve runs the accept loop until ctx is cancelled, Accept fails
// repeatedly enough within a short window to trip the error tracker, or
// serveConn trips the tracker with repeated session failures of one class
// and closes the listener. Each accepted connection is handed to its own
// session.Session goroutine; a session's error is recorded in the tracker
// but is never returned by this loop.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			if s.tripped.Load() {
				return fmt.Errorf("netsrv: session error rate exceeded threshold")
			}
			if s.tracker.RecordError(acceptErrorKey) {
				return fmt.Errorf("netsrv: accept error rate exceeded threshold: %w", err)
			}
			continue
		}

		go s.serveConn(ctx, conn)
	}
}

// serveConn runs one session and records its failure, if any, against the
// phase it failed in. A class of session failure repeating across
// connections fast enough to trip the tracker stops the accept loop; one
// client's error on its own never does.
func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	sess := session.New(conn, s.storage, s.cfg.Logger)
	if err := sess.Run(ctx); err != nil {
		s.cfg.Logger.Printf("session %s ended: %v", conn.RemoteAddr(), err)
		key := errtrack.Key{Category: "SESSION", Semantics: sess.Phase().String() + "_failed"}
		if s.tracker.RecordError(key) && s.tripped.CompareAndSwap(false, true) {
			s.cfg.Logger.Printf("session error rate for %s/%s exceeded threshold, shutting down listener",
				key.Category, key.Semantics)
			s.listener.Close()
		}
	}
}

// Close closes the listener and the underlying chunk storage.
func (s *Server) Close() error {
	err := s.listener.Close()
	s.storage.Close()
	return err
}
