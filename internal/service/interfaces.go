// Package service defines the interfaces shared by the client's components.
package service

import (
	"context"

	"github.com/Veraticus/gastos/internal/gateway"
	"github.com/Veraticus/gastos/internal/model"
)

// Requester sends requests to the backend. *gateway.Client implements it.
type Requester interface {
	Request(ctx context.Context, method, path string, body any) (*gateway.Response, error)
}

// SessionExpirer is told when the backend rejects the current credential.
// *session.Manager implements it.
type SessionExpirer interface {
	Expire(ctx context.Context)
}

// Collection is a locally cached, server-owned list of records of type T,
// mutated with inputs of type I.
type Collection[T, I any] interface {
	// List fetches the collection and replaces the cached copy.
	List(ctx context.Context) ([]T, error)
	// Create adds a record and refreshes the cache.
	Create(ctx context.Context, in I) (T, error)
	// Update replaces a record and refreshes the cache.
	Update(ctx context.Context, id int, in I) (T, error)
	// Delete removes a record and refreshes the cache.
	Delete(ctx context.Context, id int) error
	// Items returns the cached copy without contacting the backend.
	Items() []T
	// Get returns the cached record with id.
	Get(id int) (T, bool)
}

// Transactions is the transaction collection.
type Transactions = Collection[model.Transaction, model.TransactionInput]

// Categories is the category collection.
type Categories = Collection[model.Category, model.CategoryInput]

// SummaryReader fetches the dashboard summary.
type SummaryReader interface {
	Summary(ctx context.Context) (model.Summary, error)
}
