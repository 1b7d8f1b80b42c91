package model

// SupplierRef and WarehouseRef are the joined neighbor projections returned
// by the similarity query. Rows with no neighbor collect an empty list, not
// a null entry.
type SupplierRef struct {
	Name string `json:"name"`
}

type WarehouseRef struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// ProductMatch is one ranked row of a top-k similarity query: the product,
// its dot-product score against the query vector, and its linked suppliers
// and warehouses.
type ProductMatch struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Score       float64        `json:"score"`
	Suppliers   []SupplierRef  `json:"suppliers,omitempty"`
	Warehouses  []WarehouseRef `json:"warehouses,omitempty"`
}
