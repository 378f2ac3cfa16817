// Package categories seeds categories into the fake backend for tests.
//
// Example usage:
//
//	cats := categories.NewBuilder(t).
//		WithFixture(categories.FixtureMinimal).
//		WithExpense("Pets").
//		Build(backend, "ana@example.com")
package categories

import (
	"sort"
	"testing"

	"github.com/Veraticus/gastos/internal/model"
	"github.com/Veraticus/gastos/internal/testutil"
)

// CategoryName represents a strongly-typed category name.
type CategoryName string

// String returns the string representation of the category name.
func (c CategoryName) String() string {
	return string(c)
}

// Common category names used across tests.
const (
	CategorySalary        CategoryName = "Salary"
	CategoryFreelance     CategoryName = "Freelance"
	CategoryGifts         CategoryName = "Gifts Received"
	CategoryGroceries     CategoryName = "Groceries"
	CategoryRent          CategoryName = "Rent"
	CategoryTransport     CategoryName = "Transport"
	CategoryUtilities     CategoryName = "Utilities"
	CategoryEntertainment CategoryName = "Entertainment"
	CategoryHealth        CategoryName = "Health"
)

// Categories represents a collection of seeded categories.
type Categories []model.Category

// Find returns the category with the given name, or nil if not found.
func (c Categories) Find(name CategoryName) *model.Category {
	for i := range c {
		if c[i].Name == name.String() {
			return &c[i]
		}
	}
	return nil
}

// MustFind returns the category with the given name, or fails the test if not found.
func (c Categories) MustFind(t *testing.T, name CategoryName) model.Category {
	t.Helper()
	cat := c.Find(name)
	if cat == nil {
		t.Fatalf("category %q not found in test data", name)
	}
	return *cat
}

// Names returns all category names.
func (c Categories) Names() []string {
	names := make([]string, len(c))
	for i, cat := range c {
		names[i] = cat.Name
	}
	return names
}

// Builder accumulates categories and seeds them in one go.
type Builder struct {
	t          *testing.T
	categories map[CategoryName]model.Kind
}

// NewBuilder creates a new category builder for the given test.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{
		t:          t,
		categories: make(map[CategoryName]model.Kind),
	}
}

// WithIncome adds income categories.
func (b *Builder) WithIncome(names ...CategoryName) *Builder {
	for _, name := range names {
		b.categories[name] = model.KindIncome
	}
	return b
}

// WithExpense adds expense categories.
func (b *Builder) WithExpense(names ...CategoryName) *Builder {
	for _, name := range names {
		b.categories[name] = model.KindExpense
	}
	return b
}

// WithFixture adds every category from fixture. A later call wins when a
// name repeats with a different kind.
func (b *Builder) WithFixture(fixture Fixture) *Builder {
	for name, kind := range fixture.Categories() {
		b.categories[name] = kind
	}
	return b
}

// Build seeds the categories for the account identified by email, in name
// order, and returns them with their backend ids.
func (b *Builder) Build(backend *testutil.Backend, email string) Categories {
	b.t.Helper()

	names := make([]string, 0, len(b.categories))
	for name := range b.categories {
		names = append(names, name.String())
	}
	sort.Strings(names)

	out := make(Categories, 0, len(names))
	for _, name := range names {
		kind := b.categories[CategoryName(name)]
		out = append(out, backend.SeedCategory(b.t, email, name, kind))
	}
	return out
}
