// Package server binds a loaded specification to HTTP handlers: one mock
// route per cataloged operation plus fixed introspection routes.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/mockd/mockd/internal/catalog"
	"github.com/mockd/mockd/internal/mock"
	"github.com/mockd/mockd/internal/model"
)

var (
	// ErrInvalidSpecification reports a document missing its top-level
	// openapi/info/paths structure.
	ErrInvalidSpecification = errors.New("invalid specification")
	// ErrNotLoaded reports an operation that requires a loaded
	// specification on a façade that has none.
	ErrNotLoaded = errors.New("no specification loaded")
)

// State is the façade lifecycle: Unloaded → Loaded → Running → Stopped,
// re-loadable from any state.
type State int32

const (
	StateUnloaded State = iota
	StateLoaded
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unloaded"
	}
}

// snapshot pairs a specification with its extracted catalog. Reloads swap
// the whole snapshot atomically so request handlers never observe a spec
// and catalog from different loads.
type snapshot struct {
	spec    *model.Spec
	catalog *catalog.Catalog
}

// Server is the mock serving façade.
type Server struct {
	addr    string
	gen     *mock.Generator
	genOpts mock.Options
	logger  *slog.Logger

	current atomic.Pointer[snapshot]

	mu      sync.Mutex
	state   State
	httpSrv *http.Server
	lnAddr  string
}

// New creates an unloaded façade that will listen on addr once started.
func New(addr string, gen *mock.Generator, genOpts mock.Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		addr:    addr,
		gen:     gen,
		genOpts: genOpts,
		logger:  logger,
	}
}

// Load validates and installs a specification. While running, the swap is
// atomic: in-flight requests see either the old snapshot or the new one,
// never a partial state. The listener itself is untouched.
func (s *Server) Load(spec *model.Spec) error {
	if err := checkSpec(spec); err != nil {
		return err
	}

	snap := &snapshot{spec: spec, catalog: catalog.New(spec)}
	s.current.Store(snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		s.state = StateLoaded
	}

	s.logger.Info("specification loaded",
		"title", spec.Info.Title,
		"version", spec.Info.Version,
		"endpoints", snap.catalog.Len(),
		"schemas", len(spec.Schemas))
	return nil
}

func checkSpec(spec *model.Spec) error {
	if spec == nil {
		return fmt.Errorf("%w: nil document", ErrInvalidSpecification)
	}
	if spec.OpenAPIVersion == "" {
		return fmt.Errorf("%w: missing openapi version", ErrInvalidSpecification)
	}
	if spec.Info.Title == "" {
		return fmt.Errorf("%w: missing info", ErrInvalidSpecification)
	}
	if len(spec.Paths) == 0 {
		return fmt.Errorf("%w: missing paths", ErrInvalidSpecification)
	}
	return nil
}

// Start registers one handler per cataloged operation plus the fixed
// introspection routes, then begins serving. Fails with ErrNotLoaded when no
// specification has been loaded.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRunning {
		return fmt.Errorf("server already running on %s", s.lnAddr)
	}
	snap := s.current.Load()
	if snap == nil {
		return ErrNotLoaded
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}

	s.httpSrv = &http.Server{Handler: s.router(snap.catalog)}
	s.lnAddr = ln.Addr().String()
	s.state = StateRunning

	// The goroutine must not read s.httpSrv: Stop clears it under the lock,
	// and an immediate Stop can win that race.
	srv := s.httpSrv
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("serve failed", "error", err)
		}
	}()

	s.logger.Info("mock server started", "addr", s.lnAddr, "endpoints", snap.catalog.Len())
	return nil
}

// Stop drains in-flight requests and releases the listener. Idempotent.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return nil
	}

	err := s.httpSrv.Shutdown(ctx)
	s.httpSrv = nil
	s.state = StateStopped
	s.logger.Info("mock server stopped")
	return err
}

// Running reports whether the transport listener is accepting requests.
func (s *Server) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateRunning
}

// Addr returns the bound listen address while running.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lnAddr
}

func (s *Server) snapshot() (*snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// Endpoints returns the cataloged operations in declaration order.
func (s *Server) Endpoints() ([]model.Operation, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.catalog.Operations(), nil
}

// Schemas returns the declared component schemas.
func (s *Server) Schemas() ([]model.Schema, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.spec.Schemas, nil
}

// SecuritySchemes returns the declared security schemes.
func (s *Server) SecuritySchemes() ([]model.SecurityScheme, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.spec.Security, nil
}

// MockData generates a sample value for a named component schema.
func (s *Server) MockData(schemaName string, opts mock.Options) (any, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	schema := snap.spec.SchemaByName(schemaName)
	if schema == nil {
		return nil, fmt.Errorf("schema %q: %w", schemaName, catalog.ErrNotFound)
	}
	return s.gen.Generate(schema, opts), nil
}

// MockResponse synthesizes the full response envelope for an operation id.
func (s *Server) MockResponse(operationID string, opts mock.Options) (*mock.MockResponse, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	op, err := snap.catalog.ByOperationID(operationID)
	if err != nil {
		return nil, fmt.Errorf("operation %q: %w", operationID, err)
	}
	return s.gen.Synthesize(op, opts), nil
}

// Info summarizes the loaded document and serving state.
type Info struct {
	Title          string `json:"title"`
	Version        string `json:"version"`
	OpenAPIVersion string `json:"openapi"`
	Address        string `json:"address,omitempty"`
	State          string `json:"state"`
	Endpoints      int    `json:"endpoints"`
	Schemas        int    `json:"schemas"`
}

// ServerInfo returns document metadata plus serving state.
func (s *Server) ServerInfo() (*Info, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	state, addr := s.state, s.lnAddr
	s.mu.Unlock()

	return &Info{
		Title:          snap.spec.Info.Title,
		Version:        snap.spec.Info.Version,
		OpenAPIVersion: snap.spec.OpenAPIVersion,
		Address:        addr,
		State:          state.String(),
		Endpoints:      snap.catalog.Len(),
		Schemas:        len(snap.spec.Schemas),
	}, nil
}
