package checkout

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"comanda/mq"
	"comanda/utils"

	"github.com/julienschmidt/httprouter"
)

// PlaceOrderHandler is the checkout submission surface. On success the
// response carries the new order id and tells the client to drop its durable
// cart copy.
func (s *Service) PlaceOrderHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	order, err := s.PlaceOrder(ctx, userID, req)
	if IsValidationError(err) {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Println("PlaceOrder error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Order could not be placed. Your cart was not changed; please try again.")
		return
	}

	go mq.Emit(context.Background(), mq.OrderEvent{
		Type:    "order-placed",
		OrderID: order.OrderID,
		UserID:  order.UserID,
		Status:  string(order.Status),
		Total:   order.Total,
	})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"orderId":         order.OrderID,
		"total":           order.Total,
		"status":          order.Status,
		"clearClientCart": true,
	})
}
