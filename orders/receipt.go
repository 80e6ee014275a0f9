package orders

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"time"

	"comanda/db"
	"comanda/models"
	"comanda/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func pixSecret() []byte {
	if s := os.Getenv("PIX_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("comanda_pix_secret")
}

// PixPayload returns a signed payload string for the payment QR code:
// orderID|amount|timestamp|signature.
func PixPayload(orderID string, amount float64) string {
	data := fmt.Sprintf("%s|%.2f|%d", orderID, amount, time.Now().Unix())

	h := hmac.New(sha256.New, pixSecret())
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))

	return fmt.Sprintf("%s|%s", data, sig)
}

// OrderReceipt renders the order as a PDF slip. Pix payments get a QR code
// with the signed payment payload.
func OrderReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	var payment models.Payment
	_ = db.PaymentsCollection.FindOne(ctx, bson.M{"orderid": order.OrderID}).Decode(&payment)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Order Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Order: %s", order.OrderID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Placed: %s", order.CreatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Delivery: %s", order.DeliveryMethod))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(90, 8, "Item")
	pdf.Cell(25, 8, "Qty")
	pdf.Cell(35, 8, "Unit")
	pdf.Cell(35, 8, "Subtotal")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	for _, item := range items {
		pdf.Cell(90, 8, item.Name)
		pdf.Cell(25, 8, fmt.Sprintf("%d", item.Quantity))
		pdf.Cell(35, 8, fmt.Sprintf("%.2f", item.UnitPrice))
		pdf.Cell(35, 8, fmt.Sprintf("%.2f", item.Subtotal))
		pdf.Ln(8)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Total: %.2f", order.Total))
	pdf.Ln(10)

	if payment.Method == models.PaymentPix && payment.Status == models.PaymentPending {
		qrPNG, err := qrcode.Encode(PixPayload(order.OrderID, order.Total), qrcode.Medium, 256)
		if err != nil {
			http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
			return
		}

		pdf.SetFont("Arial", "", 12)
		pdf.Cell(0, 10, "Scan to pay with Pix:")

		imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("pix", imageOpts, bytes.NewReader(qrPNG))
		pdf.ImageOptions("pix", 150, pdf.GetY(), 40, 40, false, imageOpts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=receipt-"+order.OrderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
