package resource

import (
	"net/http"
	"strings"

	"github.com/Veraticus/gastos/internal/common"
	"github.com/Veraticus/gastos/internal/gateway"
	"github.com/Veraticus/gastos/internal/model"
	"github.com/Veraticus/gastos/internal/service"
)

// CategoriesPath is the categories collection endpoint.
const CategoriesPath = "/categorias/"

// Categories is the category synchronizer.
type Categories = Synchronizer[model.Category, model.CategoryInput]

var _ service.Categories = (*Categories)(nil)

// NewCategories creates the category synchronizer. A delete the backend
// refuses with 400 (the category is still referenced) surfaces the
// backend's explanation verbatim.
func NewCategories(gw service.Requester, expirer service.SessionExpirer) *Categories {
	return New(gw, expirer, Config[model.Category, model.CategoryInput]{
		Name:          "category",
		Path:          CategoriesPath,
		ID:            func(c model.Category) int { return c.ID },
		Validate:      ValidateCategory,
		DeleteFailure: categoryInUse,
	})
}

// ValidateCategory checks a category input before dispatch.
func ValidateCategory(in model.CategoryInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return &common.ValidationError{Field: "name", Reason: "is required"}
	}
	if !in.Kind.Valid() {
		return &common.ValidationError{Field: "kind", Reason: "must be income or expense"}
	}
	return nil
}

func categoryInUse(resp *gateway.Response) error {
	if resp.StatusCode != http.StatusBadRequest {
		return nil
	}
	detail := resp.Detail()
	if detail == "" {
		detail = "category is in use"
	}
	return &common.ConflictError{Message: detail, StatusCode: resp.StatusCode}
}

// CategoriesByKind returns the categories of kind, preserving order. It is
// computed on every call.
func CategoriesByKind(categories []model.Category, kind model.Kind) []model.Category {
	out := make([]model.Category, 0, len(categories))
	for _, c := range categories {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}
