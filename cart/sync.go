package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"comanda/catalog"
	"comanda/models"
	"comanda/utils"

	"github.com/julienschmidt/httprouter"
)

// Reconcile rebuilds a server-authoritative cart from a client-held snapshot.
// The client copy is advisory: only product ids and quantities are read.
// Unknown and unavailable products are dropped silently (catalog drift is
// expected), quantities are clamped, and name/price are re-snapshotted from
// the current catalog so a tampered client cart cannot set its own prices.
func Reconcile(ctx context.Context, lookup catalog.Lookup, userID string, items []models.ClientCartItem) (models.Cart, error) {
	cart := models.Cart{UserID: userID}
	for _, item := range items {
		product, err := lookup.GetProduct(ctx, item.ProductID)
		if err == catalog.ErrProductNotFound {
			continue
		}
		if err != nil {
			return models.Cart{}, err
		}
		if !product.Available {
			continue
		}

		cart.Add(models.CartLine{
			ProductID: product.ProductID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  models.ClampQuantity(item.Quantity),
			Image:     product.Image,
		})
	}
	return cart, nil
}

// SyncCart replaces the server-authoritative cart with the reconciled client
// snapshot and returns the result.
func (s *Service) SyncCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var snapshot models.ClientCartSnapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		http.Error(w, "Invalid cart snapshot", http.StatusBadRequest)
		return
	}

	cart, err := Reconcile(ctx, s.Catalog, userID, snapshot.Items)
	if err != nil {
		log.Println("SyncCart reconcile error:", err)
		http.Error(w, "Failed to synchronize cart", http.StatusInternalServerError)
		return
	}

	if cart.IsEmpty() {
		if err := s.Store.Clear(ctx, userID); err != nil {
			http.Error(w, "Failed to synchronize cart", http.StatusInternalServerError)
			return
		}
	} else if err := s.Store.Save(ctx, cart); err != nil {
		log.Println("SyncCart save error:", err)
		http.Error(w, "Failed to synchronize cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, cartResponse(cart))
}
