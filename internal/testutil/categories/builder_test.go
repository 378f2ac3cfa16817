package categories

import (
	"testing"

	"github.com/Veraticus/gastos/internal/model"
	"github.com/Veraticus/gastos/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const email = "ana@example.com"

func newBackend(t *testing.T) *testutil.Backend {
	t.Helper()
	backend := testutil.NewBackend(t)
	backend.AddUser(email, "secret", "ana")
	return backend
}

func TestBuilder_WithFixture(t *testing.T) {
	backend := newBackend(t)

	cats := NewBuilder(t).WithFixture(FixtureMinimal).Build(backend, email)

	require.Len(t, cats, 2)
	assert.Equal(t, []string{"Groceries", "Salary"}, cats.Names())
	assert.Equal(t, model.KindIncome, cats.MustFind(t, CategorySalary).Kind)
	assert.Equal(t, model.KindExpense, cats.MustFind(t, CategoryGroceries).Kind)
	assert.Equal(t, 2, backend.CategoryCount())
}

func TestBuilder_ChainedOperations(t *testing.T) {
	backend := newBackend(t)

	cats := NewBuilder(t).
		WithFixture(FixtureMinimal).
		WithExpense(CategoryRent, CategoryHealth).
		WithIncome(CategoryFreelance).
		Build(backend, email)

	assert.Len(t, cats, 5)
	ids := make(map[int]bool)
	for _, c := range cats {
		assert.False(t, ids[c.ID], "ids must be unique")
		ids[c.ID] = true
	}
}

func TestBuilder_LaterKindWins(t *testing.T) {
	backend := newBackend(t)

	cats := NewBuilder(t).
		WithExpense(CategorySalary).
		WithIncome(CategorySalary).
		Build(backend, email)

	require.Len(t, cats, 1)
	assert.Equal(t, model.KindIncome, cats[0].Kind)
}

func TestCategories_Find(t *testing.T) {
	cats := Categories{{ID: 1, Name: "Rent", Kind: model.KindExpense}}

	assert.NotNil(t, cats.Find(CategoryRent))
	assert.Nil(t, cats.Find(CategorySalary))
}

func TestFixtureCategoriesIsACopy(t *testing.T) {
	got := FixtureHousehold.Categories()
	delete(got, CategoryRent)

	_, ok := FixtureHousehold.Categories()[CategoryRent]
	assert.True(t, ok)
}
