package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"comanda/db"
	"comanda/models"
	"comanda/mq"
	"comanda/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MyOrders returns the requesting user's orders, newest first, with items.
func MyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cursor, err := db.OrdersCollection.Find(ctx, bson.M{"userid": userID},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		log.Println("MyOrders Find error:", err)
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		http.Error(w, "Error reading orders", http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		orders = []models.Order{}
	}

	out := make([]utils.M, 0, len(orders))
	for _, o := range orders {
		items, err := loadItems(ctx, o.OrderID)
		if err != nil {
			http.Error(w, "Error reading order items", http.StatusInternalServerError)
			return
		}
		out = append(out, utils.M{"order": o, "items": items})
	}

	utils.RespondWithJSON(w, http.StatusOK, out)
}

// ListOrders is the staff order board: all orders, optionally filtered by
// ?status= and ?date= (YYYY-MM-DD).
func ListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		if !ValidOrderStatus(models.OrderStatus(status)) {
			http.Error(w, "Unknown status filter", http.StatusBadRequest)
			return
		}
		filter["status"] = status
	}
	if date := r.URL.Query().Get("date"); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			http.Error(w, "Invalid date filter", http.StatusBadRequest)
			return
		}
		filter["createdAt"] = bson.M{"$gte": day, "$lt": day.AddDate(0, 0, 1)}
	}

	cursor, err := db.OrdersCollection.Find(ctx, filter,
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		log.Println("ListOrders Find error:", err)
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		http.Error(w, "Error reading orders", http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		orders = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// GetOrder returns one order with items, payment and delivery address.
// Customers may only see their own orders; staff may see any.
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	order, err := loadOrder(ctx, ps.ByName("orderid"))
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Could not retrieve order", http.StatusInternalServerError)
		return
	}

	if order.UserID != userID && !isStaff(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	items, err := loadItems(ctx, order.OrderID)
	if err != nil {
		http.Error(w, "Error reading order items", http.StatusInternalServerError)
		return
	}

	resp := utils.M{"order": order, "items": items}

	var payment models.Payment
	if err := db.PaymentsCollection.FindOne(ctx, bson.M{"orderid": order.OrderID}).Decode(&payment); err == nil {
		resp["payment"] = payment
	}
	if order.AddressID != "" {
		var addr models.Address
		if err := db.AddressesCollection.FindOne(ctx, bson.M{"addressid": order.AddressID}).Decode(&addr); err == nil {
			resp["address"] = addr
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// UpdateOrderStatus advances an order through fulfillment (staff only).
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var body struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if !ValidOrderStatus(body.Status) {
		http.Error(w, "Unknown order status", http.StatusBadRequest)
		return
	}

	order, err := loadOrder(ctx, ps.ByName("orderid"))
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Could not retrieve order", http.StatusInternalServerError)
		return
	}

	if err := ApplyOrderStatus(&order, body.Status, time.Now()); err != nil {
		utils.RespondWithError(w, http.StatusConflict, err.Error())
		return
	}

	set := bson.M{"status": order.Status}
	if order.PreparingAt != nil {
		set["preparingAt"] = order.PreparingAt
	}
	if order.ReadyAt != nil {
		set["readyAt"] = order.ReadyAt
	}
	if order.DispatchedAt != nil {
		set["dispatchedAt"] = order.DispatchedAt
	}
	if order.DeliveredAt != nil {
		set["deliveredAt"] = order.DeliveredAt
	}

	if _, err := db.OrdersCollection.UpdateOne(ctx,
		bson.M{"orderid": order.OrderID}, bson.M{"$set": set}); err != nil {
		log.Println("UpdateOrderStatus UpdateOne error:", err)
		http.Error(w, "Failed to update order status", http.StatusInternalServerError)
		return
	}

	go mq.Emit(context.Background(), mq.OrderEvent{
		Type:    "order-status",
		OrderID: order.OrderID,
		UserID:  order.UserID,
		Status:  string(order.Status),
	})

	utils.RespondWithJSON(w, http.StatusOK, order)
}

// UpdatePaymentStatus moves a payment through settlement (staff only).
func UpdatePaymentStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var body struct {
		Status models.PaymentStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if !ValidPaymentStatus(body.Status) {
		http.Error(w, "Unknown payment status", http.StatusBadRequest)
		return
	}

	var payment models.Payment
	err := db.PaymentsCollection.FindOne(ctx, bson.M{"paymentid": ps.ByName("paymentid")}).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Payment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Could not retrieve payment", http.StatusInternalServerError)
		return
	}

	if err := ApplyPaymentStatus(&payment, body.Status, time.Now()); err != nil {
		utils.RespondWithError(w, http.StatusConflict, err.Error())
		return
	}

	set := bson.M{"status": payment.Status}
	if payment.PaidAt != nil {
		set["paidAt"] = payment.PaidAt
	}

	if _, err := db.PaymentsCollection.UpdateOne(ctx,
		bson.M{"paymentid": payment.PaymentID}, bson.M{"$set": set}); err != nil {
		log.Println("UpdatePaymentStatus UpdateOne error:", err)
		http.Error(w, "Failed to update payment status", http.StatusInternalServerError)
		return
	}

	go mq.Emit(context.Background(), mq.OrderEvent{
		Type:    "payment-status",
		OrderID: payment.OrderID,
		Status:  string(payment.Status),
	})

	utils.RespondWithJSON(w, http.StatusOK, payment)
}

// --- helpers ---

func loadOrder(ctx context.Context, orderID string) (models.Order, error) {
	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order)
	return order, err
}

func loadItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	cursor, err := db.OrderItemsCollection.Find(ctx, bson.M{"orderid": orderID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.OrderItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func isStaff(r *http.Request) bool {
	for _, role := range utils.GetRolesFromRequest(r) {
		if role == "operator" || role == "admin" {
			return true
		}
	}
	return false
}
