package checkout

import (
	"context"
	"sync"

	"comanda/db"
	"comanda/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// OrderStore persists one order, its items and its payment as a single unit:
// all three land or none do.
type OrderStore interface {
	CreateOrder(ctx context.Context, order models.Order, items []models.OrderItem, payment models.Payment) error
}

// MongoOrderStore writes the three collections inside one session
// transaction, so a failed insert rolls everything back.
type MongoOrderStore struct {
	Client *mongo.Client
}

func (s *MongoOrderStore) CreateOrder(ctx context.Context, order models.Order, items []models.OrderItem, payment models.Payment) error {
	session, err := s.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := db.OrdersCollection.InsertOne(sc, order); err != nil {
			return nil, err
		}

		docs := make([]interface{}, 0, len(items))
		for _, item := range items {
			docs = append(docs, item)
		}
		if _, err := db.OrderItemsCollection.InsertMany(sc, docs); err != nil {
			return nil, err
		}

		if _, err := db.PaymentsCollection.InsertOne(sc, payment); err != nil {
			return nil, err
		}

		return nil, nil
	})
	return err
}

// MemoryOrderStore is an in-memory OrderStore for tests. FailPayment forces
// the payment insert to fail so atomicity can be exercised.
type MemoryOrderStore struct {
	mu          sync.Mutex
	Orders      []models.Order
	Items       []models.OrderItem
	Payments    []models.Payment
	FailPayment error
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{}
}

func (s *MemoryOrderStore) CreateOrder(_ context.Context, order models.Order, items []models.OrderItem, payment models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailPayment != nil {
		// Nothing written: the whole unit rolls back.
		return s.FailPayment
	}

	s.Orders = append(s.Orders, order)
	s.Items = append(s.Items, items...)
	s.Payments = append(s.Payments, payment)
	return nil
}
