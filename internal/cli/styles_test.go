package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Veraticus/gastos/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	assert.Contains(t, FormatAmount(decimal.NewFromInt(100), model.KindIncome), "+100.00")
	assert.Contains(t, FormatAmount(decimal.RequireFromString("12.5"), model.KindExpense), "-12.50")
	assert.Contains(t, FormatBalance(decimal.RequireFromString("-3.1")), "-3.10")
}

func TestRenderTable(t *testing.T) {
	var out bytes.Buffer

	err := RenderTable(&out, []string{"ID", "Name"}, [][]string{
		{"1", "Salary"},
		{"22", "Groceries"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[2], "Salary")
	assert.Contains(t, lines[3], "Groceries")
}
