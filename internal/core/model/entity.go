package model

// Product is a catalog item. DescriptionEmbedding is computed from
// Description at load time and never recomputed afterwards.
type Product struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	Price                float64   `json:"price"`
	Category             string    `json:"category"`
	DescriptionEmbedding []float32 `json:"description_embedding,omitempty"`
}

type Supplier struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Location       string `json:"location"`
	Specialization string `json:"specialization"`
}

type Warehouse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Capacity int    `json:"capacity"`
}

// Route is a directed transportation link between two warehouses,
// persisted as a CONNECTED_TO relationship.
type Route struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

// SupplyLink ties a supplier, a product and a warehouse together. One
// record drives two relationships: SUPPLIES (supplier to product) and
// STORED_AT (product to warehouse).
type SupplyLink struct {
	SupplierID  string `json:"supplier_id"`
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
}
