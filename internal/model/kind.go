// Package model defines the records exchanged with the finance backend.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind discriminates income from expense. Transactions and categories share it.
type Kind string

const (
	// KindIncome marks money coming in.
	KindIncome Kind = "income"
	// KindExpense marks money going out.
	KindExpense Kind = "expense"
)

// Backend spellings of each kind.
const (
	wireIncome  = "ingreso"
	wireExpense = "gasto"
)

// Kinds lists every valid kind in display order.
var Kinds = []Kind{KindIncome, KindExpense}

// ParseKind accepts either the English name or the backend's spelling.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(KindIncome), wireIncome:
		return KindIncome, nil
	case string(KindExpense), wireExpense:
		return KindExpense, nil
	default:
		return "", fmt.Errorf("unknown kind %q: must be income or expense", s)
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Wire returns the backend spelling of k.
func (k Kind) Wire() string {
	switch k {
	case KindIncome:
		return wireIncome
	case KindExpense:
		return wireExpense
	default:
		return string(k)
	}
}

// MarshalJSON encodes k using the backend spelling.
func (k Kind) MarshalJSON() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("cannot encode kind %q", string(k))
	}
	return json.Marshal(k.Wire())
}

// UnmarshalJSON decodes either spelling.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
