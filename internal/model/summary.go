package model

import "github.com/shopspring/decimal"

// CategoryTotal is one slice of the monthly expense breakdown.
type CategoryTotal struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// Summary aggregates the current month's transactions.
type Summary struct {
	TotalIncome        decimal.Decimal `json:"total_ingresos"`
	TotalExpenses      decimal.Decimal `json:"total_gastos"`
	Balance            decimal.Decimal `json:"balance"`
	ExpensesByCategory []CategoryTotal `json:"gastos_por_categoria"`
}
