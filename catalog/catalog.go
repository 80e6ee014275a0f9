package catalog

import (
	"context"
	"errors"
	"sync"

	"comanda/db"
	"comanda/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrProductNotFound = errors.New("product not found")

// Lookup resolves a product id to its current catalog entry. The cart and the
// synchronizer consume this; they never read prices from the client.
type Lookup interface {
	GetProduct(ctx context.Context, productID string) (models.Product, error)
}

// MongoLookup reads from the products collection.
type MongoLookup struct{}

func (MongoLookup) GetProduct(ctx context.Context, productID string) (models.Product, error) {
	var p models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// MemoryLookup is an in-memory catalog used by tests.
type MemoryLookup struct {
	mu       sync.RWMutex
	products map[string]models.Product
}

func NewMemoryLookup(products ...models.Product) *MemoryLookup {
	m := &MemoryLookup{products: make(map[string]models.Product)}
	for _, p := range products {
		m.products[p.ProductID] = p
	}
	return m
}

func (m *MemoryLookup) GetProduct(_ context.Context, productID string) (models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[productID]
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (m *MemoryLookup) Put(p models.Product) {
	m.mu.Lock()
	m.products[p.ProductID] = p
	m.mu.Unlock()
}

func (m *MemoryLookup) Delete(productID string) {
	m.mu.Lock()
	delete(m.products, productID)
	m.mu.Unlock()
}
