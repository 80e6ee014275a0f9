package addresses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"comanda/db"
	"comanda/models"
	"comanda/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrAddressNotFound = errors.New("address not found")

// Lookup resolves an address id scoped to its owner. A hit for the wrong
// owner behaves exactly like a miss, so checkout cannot leak or use another
// user's address.
type Lookup interface {
	GetAddress(ctx context.Context, addressID, ownerID string) (models.Address, error)
}

type MongoLookup struct{}

func (MongoLookup) GetAddress(ctx context.Context, addressID, ownerID string) (models.Address, error) {
	var a models.Address
	err := db.AddressesCollection.FindOne(ctx, bson.M{
		"addressid": addressID,
		"userid":    ownerID,
	}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return models.Address{}, ErrAddressNotFound
	}
	if err != nil {
		return models.Address{}, err
	}
	return a, nil
}

// MemoryLookup is an in-memory address book used by tests.
type MemoryLookup struct {
	mu        sync.RWMutex
	addresses map[string]models.Address
}

func NewMemoryLookup(addrs ...models.Address) *MemoryLookup {
	m := &MemoryLookup{addresses: make(map[string]models.Address)}
	for _, a := range addrs {
		m.addresses[a.AddressID] = a
	}
	return m
}

func (m *MemoryLookup) GetAddress(_ context.Context, addressID, ownerID string) (models.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.addresses[addressID]
	if !ok || a.UserID != ownerID {
		return models.Address{}, ErrAddressNotFound
	}
	return a, nil
}

// --- Handlers ---

// ListAddresses returns the requesting user's address book.
func ListAddresses(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cursor, err := db.AddressesCollection.Find(ctx, bson.M{"userid": userID})
	if err != nil {
		log.Println("ListAddresses Find error:", err)
		http.Error(w, "Could not load addresses", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var addrs []models.Address
	if err := cursor.All(ctx, &addrs); err != nil {
		http.Error(w, "Error reading addresses", http.StatusInternalServerError)
		return
	}
	if len(addrs) == 0 {
		addrs = []models.Address{}
	}

	utils.RespondWithJSON(w, http.StatusOK, addrs)
}

// AddAddress stores a new address for the requesting user.
func AddAddress(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var addr models.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if addr.Street == "" || addr.Number == "" || addr.City == "" || addr.State == "" {
		http.Error(w, "Missing required address fields", http.StatusBadRequest)
		return
	}

	addr.AddressID = "adr" + utils.GenerateRandomString(14)
	addr.UserID = userID
	addr.CreatedAt = time.Now()

	if _, err := db.AddressesCollection.InsertOne(ctx, addr); err != nil {
		log.Println("AddAddress InsertOne error:", err)
		http.Error(w, "Failed to save address", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, addr)
}

// DeleteAddress removes an address; only its owner may delete it.
func DeleteAddress(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	res, err := db.AddressesCollection.DeleteOne(ctx, bson.M{
		"addressid": ps.ByName("addressid"),
		"userid":    userID,
	})
	if err != nil {
		http.Error(w, "Failed to delete address", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Address not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
