package resource

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/gastos/internal/common"
	"github.com/Veraticus/gastos/internal/model"
	"github.com/Veraticus/gastos/internal/service"
)

// TransactionsPath is the transactions collection endpoint.
const TransactionsPath = "/transacciones/"

// Transactions is the transaction synchronizer.
type Transactions = Synchronizer[model.Transaction, model.TransactionInput]

var _ service.Transactions = (*Transactions)(nil)

// CategoryLookup finds a cached category by id.
type CategoryLookup interface {
	Get(id int) (model.Category, bool)
}

// NewTransactions creates the transaction synchronizer. When categories is
// non-nil, an input whose category is cached must match its kind.
func NewTransactions(gw service.Requester, expirer service.SessionExpirer, categories CategoryLookup) *Transactions {
	return New(gw, expirer, Config[model.Transaction, model.TransactionInput]{
		Name: "transaction",
		Path: TransactionsPath,
		ID:   func(t model.Transaction) int { return t.ID },
		Validate: func(in model.TransactionInput) error {
			return ValidateTransaction(in, categories)
		},
	})
}

// ValidateTransaction checks a transaction input before dispatch.
func ValidateTransaction(in model.TransactionInput, categories CategoryLookup) error {
	if !in.Amount.IsPositive() {
		return &common.ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if strings.TrimSpace(in.Description) == "" {
		return &common.ValidationError{Field: "description", Reason: "is required"}
	}
	if utf8.RuneCountInString(in.Description) > model.MaxDescriptionLength {
		return &common.ValidationError{Field: "description", Reason: fmt.Sprintf("must be at most %d characters", model.MaxDescriptionLength)}
	}
	if !in.Kind.Valid() {
		return &common.ValidationError{Field: "kind", Reason: "must be income or expense"}
	}
	if in.CategoryID <= 0 {
		return &common.ValidationError{Field: "category", Reason: "must be selected"}
	}

	if categories != nil {
		if c, ok := categories.Get(in.CategoryID); ok && c.Kind != in.Kind {
			return &common.ValidationError{Field: "category", Reason: fmt.Sprintf("%q is an %s category", c.Name, c.Kind)}
		}
	}
	return nil
}
