package driver

const (
	// Format string taking the dimension count: schema commands cannot be
	// parameterized. The index declares dimensionality and metric; ranking
	// itself happens in TopKProductsQuery.
	CreateVectorIndexQueryTmpl = `
		CREATE VECTOR INDEX product_description_embeddings IF NOT EXISTS
		FOR (p:Product) ON (p.description_embedding)
		OPTIONS {indexConfig: {
			` + "`vector.dimensions`" + `: %d,
			` + "`vector.similarity_function`" + `: 'cosine'
		}}
	`

	UpsertProductQuery = `
		MERGE (p:Product {id: $id})
		SET p.name = $name,
			p.description = $description,
			p.price = $price,
			p.category = $category,
			p.description_embedding = $description_embedding
		RETURN p.id AS id
	`

	UpsertSupplierQuery = `
		MERGE (s:Supplier {id: $id})
		SET s.name = $name,
			s.location = $location,
			s.specialization = $specialization
		RETURN s.id AS id
	`

	UpsertWarehouseQuery = `
		MERGE (w:Warehouse {id: $id})
		SET w.name = $name,
			w.location = $location,
			w.capacity = $capacity
		RETURN w.id AS id
	`

	// Endpoint MATCHes come first, so a record naming an unknown warehouse
	// touches zero rows and creates nothing.
	MergeRouteQuery = `
		MATCH (a:Warehouse {id: $from})
		MATCH (b:Warehouse {id: $to})
		MERGE (a)-[r:CONNECTED_TO]->(b)
		SET r.distance = $distance,
			r.duration = $duration
		RETURN a.id AS source
	`

	MergeSuppliesQuery = `
		MATCH (s:Supplier {id: $supplier_id})
		MATCH (p:Product {id: $product_id})
		MERGE (s)-[:SUPPLIES]->(p)
		RETURN s.id AS id
	`

	MergeStoredAtQuery = `
		MATCH (p:Product {id: $product_id})
		MATCH (w:Warehouse {id: $warehouse_id})
		MERGE (p)-[:STORED_AT]->(w)
		RETURN p.id AS id
	`

	// Brute-force scan: dot product against every non-null embedding. The
	// embeddings come out of the model near unit norm, so the dot product
	// stands in for cosine similarity.
	TopKProductsQuery = `
		MATCH (p:Product)
		WHERE p.description_embedding IS NOT NULL
		WITH p, reduce(similarity = 0.0, i IN range(0, size(p.description_embedding)-1) |
			similarity + p.description_embedding[i] * $embedding[i]) AS similarity
		ORDER BY similarity DESC
		LIMIT $k
		OPTIONAL MATCH (p)<-[:SUPPLIES]-(s:Supplier)
		OPTIONAL MATCH (p)-[:STORED_AT]->(w:Warehouse)
		RETURN p.id AS id,
			p.name AS name,
			p.description AS description,
			similarity,
			collect(DISTINCT {name: s.name}) AS suppliers,
			collect(DISTINCT {name: w.name, location: w.location}) AS warehouses
	`

	CountNodesQuery = `
		MATCH (n)
		RETURN count(n) AS count
	`

	CountRelationshipsQuery = `
		MATCH ()-[r]->()
		RETURN count(r) AS count
	`

	CountEmbeddedProductsQuery = `
		MATCH (p:Product)
		WHERE p.description_embedding IS NOT NULL
		RETURN count(p) AS count
	`

	PingQuery = `
		RETURN 1 AS ok
	`
)
