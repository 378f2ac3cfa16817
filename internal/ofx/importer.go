package ofx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/gastos/internal/common"
	"github.com/Veraticus/gastos/internal/model"
)

// Creator creates one transaction. resource.Transactions implements it.
type Creator interface {
	Create(ctx context.Context, in model.TransactionInput) (model.Transaction, error)
}

// Result counts the outcome of an import. Warnings hold errors for entries
// the backend accepted, such as a failed refresh afterwards.
type Result struct {
	Errors   []error
	Warnings []error
	Created  int
	Failed   int
}

// Importer files parsed entries under one category per kind.
type Importer struct {
	creator    Creator
	logger     *slog.Logger
	categories map[model.Kind]int
}

// NewImporter creates an importer. categories maps each kind to the id of
// the category its entries are filed under.
func NewImporter(creator Creator, categories map[model.Kind]int) *Importer {
	return &Importer{
		creator:    creator,
		categories: categories,
		logger:     slog.Default().With("component", "ofx"),
	}
}

// Import creates every entry in order, continuing past failures. progress,
// when non-nil, is called after each entry. A cancelled context or an
// expired session stops the import early and returns the partial result.
func (i *Importer) Import(ctx context.Context, entries []Entry, progress func()) (Result, error) {
	var result Result

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		categoryID, ok := i.categories[entry.Kind]
		if !ok {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Errorf("%s: no %s category selected", entry.FitID, entry.Kind))
		} else {
			created, err := i.creator.Create(ctx, entry.Input(categoryID))
			switch {
			case errors.Is(err, common.ErrSessionExpired):
				if created.ID != 0 {
					result.Created++
				} else {
					result.Failed++
					result.Errors = append(result.Errors, fmt.Errorf("%s: %w", entry.FitID, err))
				}
				i.logger.Warn("Import stopped, session expired", "fitid", entry.FitID, "created", result.Created)
				return result, err
			case created.ID != 0:
				result.Created++
				if err != nil {
					result.Warnings = append(result.Warnings, fmt.Errorf("%s: %w", entry.FitID, err))
					i.logger.Warn("Created but refresh failed", "fitid", entry.FitID, "id", created.ID, "error", err)
				}
			case err != nil:
				result.Failed++
				result.Errors = append(result.Errors, fmt.Errorf("%s: %w", entry.FitID, err))
				i.logger.Warn("Import failed", "fitid", entry.FitID, "error", err)
			default:
				result.Created++
			}
		}

		if progress != nil {
			progress()
		}
	}

	i.logger.Info("Import finished", "created", result.Created, "failed", result.Failed, "warnings", len(result.Warnings))
	return result, nil
}
