package model

// Category groups transactions of a single kind.
type Category struct {
	Name string `json:"nombre"`
	Kind Kind   `json:"tipo"`
	ID   int    `json:"id"`
}

// CategoryInput is the body sent when creating or replacing a category.
type CategoryInput struct {
	Name string `json:"nombre"`
	Kind Kind   `json:"tipo"`
}

// Input returns the editable fields of c.
func (c Category) Input() CategoryInput {
	return CategoryInput{Name: c.Name, Kind: c.Kind}
}
