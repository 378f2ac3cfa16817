package categories

import "github.com/Veraticus/gastos/internal/model"

// Fixture is a predefined set of categories for a test scenario.
type Fixture interface {
	Name() string
	Categories() map[CategoryName]model.Kind
}

type fixture struct {
	categories map[CategoryName]model.Kind
	name       string
}

func (f *fixture) Name() string { return f.name }

func (f *fixture) Categories() map[CategoryName]model.Kind {
	out := make(map[CategoryName]model.Kind, len(f.categories))
	for k, v := range f.categories {
		out[k] = v
	}
	return out
}

// Predefined fixtures for common test scenarios.
var (
	// FixtureMinimal has one category of each kind.
	FixtureMinimal Fixture = &fixture{
		name: "Minimal",
		categories: map[CategoryName]model.Kind{
			CategorySalary:    model.KindIncome,
			CategoryGroceries: model.KindExpense,
		},
	}

	// FixtureHousehold covers a typical monthly budget.
	FixtureHousehold Fixture = &fixture{
		name: "Household",
		categories: map[CategoryName]model.Kind{
			CategorySalary:        model.KindIncome,
			CategoryFreelance:     model.KindIncome,
			CategoryGifts:         model.KindIncome,
			CategoryGroceries:     model.KindExpense,
			CategoryRent:          model.KindExpense,
			CategoryTransport:     model.KindExpense,
			CategoryUtilities:     model.KindExpense,
			CategoryEntertainment: model.KindExpense,
			CategoryHealth:        model.KindExpense,
		},
	}
)
