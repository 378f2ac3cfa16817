package main

import (
	"testing"

	"github.com/Veraticus/gastos/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRenderSummary(t *testing.T) {
	summary := model.Summary{
		TotalIncome:   decimal.NewFromInt(2500),
		TotalExpenses: decimal.NewFromInt(400),
		Balance:       decimal.NewFromInt(2100),
		ExpensesByCategory: []model.CategoryTotal{
			{Name: "Groceries", Value: decimal.NewFromInt(300)},
			{Name: "Transport", Value: decimal.NewFromInt(100)},
		},
	}
	categories := []model.Category{
		{ID: 1, Name: "Salary", Kind: model.KindIncome},
		{ID: 2, Name: "Groceries", Kind: model.KindExpense},
		{ID: 3, Name: "Transport", Kind: model.KindExpense},
	}

	out := renderSummary(summary, categories)

	assert.Contains(t, out, "2500.00")
	assert.Contains(t, out, "2100.00")
	assert.Contains(t, out, "Expenses by category")
	assert.Contains(t, out, "(75%)")
	assert.Contains(t, out, "(25%)")
	assert.Contains(t, out, "1 income and 2 expense categories")
}

func TestRenderSummaryWithoutExpenses(t *testing.T) {
	out := renderSummary(model.Summary{TotalIncome: decimal.NewFromInt(100), Balance: decimal.NewFromInt(100)}, nil)

	assert.Contains(t, out, "100.00")
	assert.NotContains(t, out, "Expenses by category")
	assert.Contains(t, out, "0 income and 0 expense categories")
}
