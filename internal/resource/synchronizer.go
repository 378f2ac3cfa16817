// Package resource keeps local copies of server-owned collections in step
// with the backend.
package resource

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/Veraticus/gastos/internal/common"
	"github.com/Veraticus/gastos/internal/gateway"
	"github.com/Veraticus/gastos/internal/service"
)

// Config describes one collection endpoint.
type Config[T, I any] struct {
	// Validate rejects an input before any request is sent.
	Validate func(I) error
	// DeleteFailure classifies a rejected delete. A nil result falls back
	// to the generic status error.
	DeleteFailure func(resp *gateway.Response) error
	// ID extracts the server-assigned identifier.
	ID func(T) int
	// Name is used in logs and messages.
	Name string
	// Path is the collection path, with a trailing slash.
	Path string
}

// Synchronizer owns the cached copy of one collection. Every mutation is
// followed by a full re-list; the cache is never patched in place.
type Synchronizer[T, I any] struct {
	gw      service.Requester
	expirer service.SessionExpirer
	logger  *slog.Logger
	cfg     Config[T, I]
	items   []T
	mu      sync.Mutex
}

// New creates a synchronizer with an empty cache.
func New[T, I any](gw service.Requester, expirer service.SessionExpirer, cfg Config[T, I]) *Synchronizer[T, I] {
	return &Synchronizer[T, I]{
		gw:      gw,
		expirer: expirer,
		cfg:     cfg,
		logger:  common.Component("resource").With("resource", cfg.Name),
	}
}

// List fetches the collection and replaces the cache wholesale.
func (s *Synchronizer[T, I]) List(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return s.snapshot(), nil
}

// Create validates in, posts it, and re-lists. The returned record carries
// the server-assigned id. If the mutation succeeds but the re-list fails, the
// record is returned together with the refresh error.
func (s *Synchronizer[T, I]) Create(ctx context.Context, in I) (T, error) {
	return s.mutate(ctx, http.MethodPost, s.cfg.Path, in, "create")
}

// Update validates in, replaces record id with it, and re-lists.
func (s *Synchronizer[T, I]) Update(ctx context.Context, id int, in I) (T, error) {
	return s.mutate(ctx, http.MethodPut, s.itemPath(id), in, "update")
}

// Delete removes record id and re-lists.
func (s *Synchronizer[T, I]) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	op := "delete " + s.cfg.Name
	resp, err := s.gw.Request(ctx, http.MethodDelete, s.itemPath(id), nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !resp.OK() && resp.StatusCode != http.StatusUnauthorized && s.cfg.DeleteFailure != nil {
		if classified := s.cfg.DeleteFailure(resp); classified != nil {
			s.logger.Info("Delete rejected", "id", id, "status", resp.StatusCode, "detail", resp.Detail())
			return classified
		}
	}
	if err := checkStatus(ctx, s.expirer, resp, op); err != nil {
		common.LogError(s.logger, err, "Delete failed", common.Fields{"id": id})
		return err
	}

	s.logger.Info("Deleted", "id", id)
	return s.refresh(ctx)
}

// Items returns a copy of the cache.
func (s *Synchronizer[T, I]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Get returns the cached record with id.
func (s *Synchronizer[T, I]) Get(id int) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if s.cfg.ID(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (s *Synchronizer[T, I]) mutate(ctx context.Context, method, path string, in I, verb string) (T, error) {
	var zero T
	op := verb + " " + s.cfg.Name

	if s.cfg.Validate != nil {
		if err := s.cfg.Validate(in); err != nil {
			return zero, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.gw.Request(ctx, method, path, in)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	if err := checkStatus(ctx, s.expirer, resp, op); err != nil {
		common.LogError(s.logger, err, "Mutation rejected", common.Fields{"op": verb})
		return zero, rejected(op, resp, err)
	}

	var record T
	if err := resp.Decode(&record); err != nil {
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	s.logger.Info("Saved", "op", verb, "id", s.cfg.ID(record))

	if err := s.refresh(ctx); err != nil {
		return record, err
	}
	return record, nil
}

// rejected gives schema and domain rejections a readable message carrying
// the backend's explanation.
func rejected(op string, resp *gateway.Response, err error) error {
	if resp.StatusCode != http.StatusBadRequest && resp.StatusCode != http.StatusUnprocessableEntity {
		return err
	}
	detail := resp.Detail()
	if detail == "" {
		return err
	}
	return common.NewUserError(fmt.Sprintf("could not %s: %s", op, detail), err)
}

// refresh must be called with s.mu held.
func (s *Synchronizer[T, I]) refresh(ctx context.Context) error {
	op := "list " + s.cfg.Name

	resp, err := s.gw.Request(ctx, http.MethodGet, s.cfg.Path, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := checkStatus(ctx, s.expirer, resp, op); err != nil {
		return err
	}

	var items []T
	if err := resp.Decode(&items); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if items == nil {
		items = []T{}
	}

	s.items = items
	s.logger.Debug("Refreshed", "count", len(items))
	return nil
}

// snapshot must be called with s.mu held.
func (s *Synchronizer[T, I]) snapshot() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Synchronizer[T, I]) itemPath(id int) string {
	return s.cfg.Path + strconv.Itoa(id)
}
