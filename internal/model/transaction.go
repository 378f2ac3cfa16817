package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// MaxDescriptionLength bounds a transaction description.
const MaxDescriptionLength = 255

// Transaction represents a single income or expense record held by the backend.
type Transaction struct {
	OccurredAt  time.Time       `json:"fecha"`
	Amount      decimal.Decimal `json:"monto"`
	Description string          `json:"descripcion"`
	Kind        Kind            `json:"tipo"`
	ID          int             `json:"id"`
	CategoryID  int             `json:"categoria_id"`
}

// Input returns the editable fields of t.
func (t Transaction) Input() TransactionInput {
	return TransactionInput{
		Amount:      t.Amount,
		Description: t.Description,
		Kind:        t.Kind,
		CategoryID:  t.CategoryID,
	}
}

// UnmarshalJSON tolerates the backend's naive timestamps (no zone suffix).
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type alias Transaction
	aux := struct {
		*alias
		OccurredAt string `json:"fecha"`
	}{alias: (*alias)(t)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	t.OccurredAt = time.Time{}
	if aux.OccurredAt == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, aux.OccurredAt); err == nil {
			t.OccurredAt = parsed
			return nil
		}
	}
	return &time.ParseError{Layout: time.RFC3339, Value: aux.OccurredAt, Message: ": unrecognized timestamp"}
}

// TransactionInput is the body sent when creating or replacing a transaction.
type TransactionInput struct {
	Amount      decimal.Decimal `json:"-"`
	Description string          `json:"descripcion"`
	Kind        Kind            `json:"tipo"`
	CategoryID  int             `json:"categoria_id"`
}

// MarshalJSON sends the amount as a bare JSON number.
func (in TransactionInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount      json.Number `json:"monto"`
		Description string      `json:"descripcion"`
		Kind        Kind        `json:"tipo"`
		CategoryID  int         `json:"categoria_id"`
	}{
		Amount:      json.Number(in.Amount.String()),
		Description: in.Description,
		Kind:        in.Kind,
		CategoryID:  in.CategoryID,
	})
}
