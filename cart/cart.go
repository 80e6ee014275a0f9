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

// Service exposes the cart HTTP surface. Every mutation resolves the product
// against the catalog and responds with the full authoritative cart so the
// client can persist its durable copy.
type Service struct {
	Store   Store
	Catalog catalog.Lookup
}

func NewService(store Store, lookup catalog.Lookup) *Service {
	return &Service{Store: store, Catalog: lookup}
}

func cartResponse(cart models.Cart) utils.M {
	return utils.M{
		"cart":  cart,
		"total": cart.Total(),
	}
}

// GetCart returns the server-authoritative cart with its total.
func (s *Service) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cart, err := s.Store.Load(ctx, userID)
	if err != nil {
		log.Println("GetCart load error:", err)
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, cartResponse(cart))
}

// AddToCart adds a product (or increments its line). Name, price and image
// are snapshotted from the catalog at this moment; the payload carries only
// the product id and quantity.
func (s *Service) AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if body.ProductID == "" {
		http.Error(w, "Product id is required", http.StatusBadRequest)
		return
	}
	if body.Quantity <= 0 {
		body.Quantity = 1
	}

	product, err := s.Catalog.GetProduct(ctx, body.ProductID)
	if err == catalog.ErrProductNotFound {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("AddToCart catalog error:", err)
		http.Error(w, "Could not resolve product", http.StatusInternalServerError)
		return
	}
	if !product.Available {
		http.Error(w, "Product is not available", http.StatusConflict)
		return
	}

	cart, err := s.Store.Load(ctx, userID)
	if err != nil {
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}

	cart.Add(models.CartLine{
		ProductID: product.ProductID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  body.Quantity,
		Image:     product.Image,
	})

	if err := s.Store.Save(ctx, cart); err != nil {
		log.Println("AddToCart save error:", err)
		http.Error(w, "Failed to add to cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, cartResponse(cart))
}

// UpdateCartItem sets the quantity of an existing line (clamped).
func (s *Service) UpdateCartItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ProductID == "" {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	cart, err := s.Store.Load(ctx, userID)
	if err != nil {
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}

	if !cart.SetQuantity(body.ProductID, body.Quantity) {
		http.Error(w, "Product not in cart", http.StatusNotFound)
		return
	}

	if err := s.Store.Save(ctx, cart); err != nil {
		log.Println("UpdateCartItem save error:", err)
		http.Error(w, "Failed to update cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, cartResponse(cart))
}

// RemoveFromCart deletes a line; removing an absent product is a no-op.
func (s *Service) RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cart, err := s.Store.Load(ctx, userID)
	if err != nil {
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}

	cart.Remove(ps.ByName("productid"))

	if err := s.Store.Save(ctx, cart); err != nil {
		log.Println("RemoveFromCart save error:", err)
		http.Error(w, "Failed to update cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, cartResponse(cart))
}

// ClearCart empties the server-authoritative cart.
func (s *Service) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := s.Store.Clear(ctx, userID); err != nil {
		log.Println("ClearCart error:", err)
		http.Error(w, "Failed to clear cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
