package graph

import (
	"context"
	"fmt"

	"github.com/agenthands/cobalt/internal/core/model"
	"github.com/agenthands/cobalt/internal/driver"
)

// Store is the typed access layer over the graph: merge-by-id upserts,
// merge-by-endpoint relationship creation, and the top-k similarity scan.
// Every call runs as one scoped query through the underlying driver.
type Store struct {
	Driver     driver.GraphDriver
	Dimensions int
}

func NewStore(d driver.GraphDriver, dimensions int) *Store {
	return &Store{
		Driver:     d,
		Dimensions: dimensions,
	}
}

// EnsureVectorIndex creates the similarity index over product description
// embeddings if it does not exist yet. Safe to call on every load.
func (s *Store) EnsureVectorIndex(ctx context.Context) error {
	query := fmt.Sprintf(driver.CreateVectorIndexQueryTmpl, s.Dimensions)
	if _, err := s.Driver.ExecuteQuery(ctx, query, nil); err != nil {
		return fmt.Errorf("failed to ensure vector index: %w", err)
	}
	return nil
}

func (s *Store) UpsertProduct(ctx context.Context, p model.Product) error {
	// A nil embedding must land as null, not an empty list, so the
	// similarity scan keeps excluding the node.
	var embedding interface{}
	if len(p.DescriptionEmbedding) > 0 {
		embedding = p.DescriptionEmbedding
	}

	params := map[string]interface{}{
		"id":                    p.ID,
		"name":                  p.Name,
		"description":           p.Description,
		"price":                 p.Price,
		"category":              p.Category,
		"description_embedding": embedding,
	}

	if _, err := s.Driver.ExecuteQuery(ctx, driver.UpsertProductQuery, params); err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", p.ID, err)
	}
	return nil
}

func (s *Store) UpsertSupplier(ctx context.Context, sup model.Supplier) error {
	params := map[string]interface{}{
		"id":             sup.ID,
		"name":           sup.Name,
		"location":       sup.Location,
		"specialization": sup.Specialization,
	}

	if _, err := s.Driver.ExecuteQuery(ctx, driver.UpsertSupplierQuery, params); err != nil {
		return fmt.Errorf("failed to upsert supplier %s: %w", sup.ID, err)
	}
	return nil
}

func (s *Store) UpsertWarehouse(ctx context.Context, w model.Warehouse) error {
	params := map[string]interface{}{
		"id":       w.ID,
		"name":     w.Name,
		"location": w.Location,
		"capacity": w.Capacity,
	}

	if _, err := s.Driver.ExecuteQuery(ctx, driver.UpsertWarehouseQuery, params); err != nil {
		return fmt.Errorf("failed to upsert warehouse %s: %w", w.ID, err)
	}
	return nil
}

// MergeRoute creates a CONNECTED_TO edge between two existing warehouses.
// A record naming an unknown warehouse matches zero rows and creates
// nothing; that is not an error here.
func (s *Store) MergeRoute(ctx context.Context, r model.Route) error {
	params := map[string]interface{}{
		"from":     r.From,
		"to":       r.To,
		"distance": r.Distance,
		"duration": r.Duration,
	}

	if _, err := s.Driver.ExecuteQuery(ctx, driver.MergeRouteQuery, params); err != nil {
		return fmt.Errorf("failed to merge route %s->%s: %w", r.From, r.To, err)
	}
	return nil
}

// MergeSupplyLink creates the SUPPLIES and STORED_AT edges for one
// relationship record. Same silent-skip contract as MergeRoute.
func (s *Store) MergeSupplyLink(ctx context.Context, l model.SupplyLink) error {
	suppliesParams := map[string]interface{}{
		"supplier_id": l.SupplierID,
		"product_id":  l.ProductID,
	}
	if _, err := s.Driver.ExecuteQuery(ctx, driver.MergeSuppliesQuery, suppliesParams); err != nil {
		return fmt.Errorf("failed to merge SUPPLIES %s->%s: %w", l.SupplierID, l.ProductID, err)
	}

	storedAtParams := map[string]interface{}{
		"product_id":   l.ProductID,
		"warehouse_id": l.WarehouseID,
	}
	if _, err := s.Driver.ExecuteQuery(ctx, driver.MergeStoredAtQuery, storedAtParams); err != nil {
		return fmt.Errorf("failed to merge STORED_AT %s->%s: %w", l.ProductID, l.WarehouseID, err)
	}
	return nil
}

// FindTopK ranks products with non-null embeddings by dot product against
// the query vector and returns up to k matches with their joined suppliers
// and warehouses, best first.
func (s *Store) FindTopK(ctx context.Context, embedding []float32, k int) ([]model.ProductMatch, error) {
	params := map[string]interface{}{
		"embedding": embedding,
		"k":         k,
	}

	res, err := s.Driver.ExecuteQuery(ctx, driver.TopKProductsQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to run similarity query: %w", err)
	}

	matches := make([]model.ProductMatch, 0, len(res.Records))
	for _, rec := range res.Records {
		var m model.ProductMatch
		if v, ok := rec.Get("id"); ok {
			m.ID, _ = v.(string)
		}
		if v, ok := rec.Get("name"); ok {
			m.Name, _ = v.(string)
		}
		if v, ok := rec.Get("description"); ok {
			m.Description, _ = v.(string)
		}
		if v, ok := rec.Get("similarity"); ok {
			m.Score = toFloat64(v)
		}
		if v, ok := rec.Get("suppliers"); ok {
			m.Suppliers = supplierRefs(v)
		}
		if v, ok := rec.Get("warehouses"); ok {
			m.Warehouses = warehouseRefs(v)
		}
		matches = append(matches, m)
	}

	return matches, nil
}

func (s *Store) CountNodes(ctx context.Context) (int64, error) {
	return s.count(ctx, driver.CountNodesQuery)
}

func (s *Store) CountRelationships(ctx context.Context) (int64, error) {
	return s.count(ctx, driver.CountRelationshipsQuery)
}

func (s *Store) CountEmbeddedProducts(ctx context.Context) (int64, error) {
	return s.count(ctx, driver.CountEmbeddedProductsQuery)
}

func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.Driver.ExecuteQuery(ctx, driver.PingQuery, nil); err != nil {
		return fmt.Errorf("store ping failed: %w", err)
	}
	return nil
}

func (s *Store) count(ctx context.Context, query string) (int64, error) {
	res, err := s.Driver.ExecuteQuery(ctx, query, nil)
	if err != nil {
		return 0, err
	}
	if len(res.Records) == 0 {
		return 0, fmt.Errorf("count query returned no rows")
	}
	v, _ := res.Records[0].Get("count")
	n, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected count type %T", v)
	}
	return n, nil
}

func toFloat64(v interface{}) float64 {
	switch f := v.(type) {
	case float64:
		return f
	case int64:
		return float64(f)
	default:
		return 0
	}
}

// supplierRefs unpacks collect(DISTINCT {...}) output. An OPTIONAL MATCH
// with no supplier collects one map with a null name; those entries are
// dropped so callers see an empty list.
func supplierRefs(v interface{}) []model.SupplierRef {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var refs []model.SupplierRef
	for _, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		name, _ := entry["name"].(string)
		if name == "" {
			continue
		}
		refs = append(refs, model.SupplierRef{Name: name})
	}
	return refs
}

func warehouseRefs(v interface{}) []model.WarehouseRef {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var refs []model.WarehouseRef
	for _, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		name, _ := entry["name"].(string)
		if name == "" {
			continue
		}
		location, _ := entry["location"].(string)
		refs = append(refs, model.WarehouseRef{Name: name, Location: location})
	}
	return refs
}
