package app

import (
	"context"

	"github.com/joacominatel/salesdash/internal/catalog"
	"github.com/joacominatel/salesdash/internal/database"
)

// Service is the data-access context of the process: the shared connection, the
// result cache and the catalogs. It is built once in main and handed to the UIs.
type Service struct {
	driver     database.Driver
	executor   *Executor
	catalogs   *catalog.Set
	controller *Controller
}

// NewService creates a new application service.
func NewService(driver database.Driver, catalogs *catalog.Set, opts ExecutorOptions) *Service {
	executor := NewExecutor(driver, opts)
	return &Service{
		driver:     driver,
		executor:   executor,
		catalogs:   catalogs,
		controller: NewController(catalogs, executor),
	}
}

// Connect establishes the database connection.
func (s *Service) Connect(ctx context.Context, dsn string) error {
	if err := s.driver.Connect(ctx, dsn); err != nil {
		return &ErrConnection{Cause: err}
	}
	return nil
}

// Disconnect closes the database connection.
func (s *Service) Disconnect() error {
	return s.driver.Close()
}

// Ping checks that the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.driver.Ping(ctx)
}

// Select handles one selection event.
func (s *Service) Select(ctx context.Context, kind catalog.Kind, questionID string) RenderInstruction {
	return s.controller.OnSelect(ctx, kind, questionID)
}

// Refresh drops cached results so the next selection reads the store.
func (s *Service) Refresh() {
	s.executor.Purge()
}

// Catalogs returns the question catalogs.
func (s *Service) Catalogs() *catalog.Set {
	return s.catalogs
}

// DatabaseName returns the current database name.
func (s *Service) DatabaseName() string {
	return s.driver.DatabaseName()
}
