package models

// Product is the backend-owned catalog record. The client keeps a read-only
// cached copy that is replaced wholesale on every catalog reload.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Description string  `json:"description,omitempty"`
}

// InStock reports whether the product can currently be ordered.
func (p Product) InStock() bool {
	return p.Stock > 0
}
