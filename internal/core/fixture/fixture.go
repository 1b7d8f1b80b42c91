package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agenthands/cobalt/internal/core/model"
)

// decode reads a JSON file holding an array of flat records. No schema
// validation happens here; a record missing a field decodes to the zero
// value and surfaces later during ingestion.
func decode[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file '%s': %w", path, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse fixture file '%s': %w", path, err)
	}

	return records, nil
}

func Products(path string) ([]model.Product, error) {
	return decode[model.Product](path)
}

func Suppliers(path string) ([]model.Supplier, error) {
	return decode[model.Supplier](path)
}

func Warehouses(path string) ([]model.Warehouse, error) {
	return decode[model.Warehouse](path)
}

func Routes(path string) ([]model.Route, error) {
	return decode[model.Route](path)
}

func Relationships(path string) ([]model.SupplyLink, error) {
	return decode[model.SupplyLink](path)
}

// Dir names the conventional fixture files under one directory.
type Dir string

func (d Dir) Products() string      { return filepath.Join(string(d), "products.json") }
func (d Dir) Suppliers() string     { return filepath.Join(string(d), "suppliers.json") }
func (d Dir) Warehouses() string    { return filepath.Join(string(d), "warehouses.json") }
func (d Dir) Routes() string        { return filepath.Join(string(d), "routes.json") }
func (d Dir) Relationships() string { return filepath.Join(string(d), "relationships.json") }
