package catalog

// ErrUnknownOption is returned when a selection references an option that is
// not in the product's allowed set. It is a caller error and never retried.
type ErrUnknownOption struct {
	Kind      string // "product", "paper_stock", "print_size", "coating", "turnaround", "add_on"
	ID        string
	ProductID string
}

func (e ErrUnknownOption) Error() string {
	if e.Kind == "product" {
		return "unknown product: " + e.ID
	}
	return "unknown " + e.Kind + " " + e.ID + " for product " + e.ProductID
}
