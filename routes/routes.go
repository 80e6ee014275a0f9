package routes

import (
	"net/http"

	"comanda/addresses"
	"comanda/auth"
	"comanda/cart"
	"comanda/catalog"
	"comanda/checkout"
	"comanda/middleware"
	"comanda/orderboard"
	"comanda/orders"
	"comanda/ratelim"

	"github.com/julienschmidt/httprouter"
)

func staffOnly(h httprouter.Handle) httprouter.Handle {
	return middleware.Authenticate(middleware.RequireRoles(h, "operator", "admin"))
}

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/productpic/*filepath", http.Dir("static/productpic"))
}

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", ratelim.RateLimit(auth.Register))
	router.POST("/api/auth/login", ratelim.RateLimit(auth.Login))
	router.POST("/api/auth/refresh", ratelim.RateLimit(auth.RefreshToken))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
}

func AddCatalogRoutes(router *httprouter.Router) {
	router.GET("/api/menu", catalog.GetMenu)
	router.GET("/api/products/:productid", catalog.GetProductHandler)

	router.POST("/api/products", staffOnly(catalog.CreateProduct))
	router.PUT("/api/products/:productid", staffOnly(catalog.UpdateProduct))
	router.DELETE("/api/products/:productid", staffOnly(catalog.DeleteProduct))
	router.POST("/api/products/:productid/image", staffOnly(catalog.UploadProductImage))
	router.POST("/api/categories", staffOnly(catalog.CreateCategory))
}

func AddAddressRoutes(router *httprouter.Router) {
	router.GET("/api/addresses", middleware.Authenticate(addresses.ListAddresses))
	router.POST("/api/addresses", middleware.Authenticate(addresses.AddAddress))
	router.DELETE("/api/addresses/:addressid", middleware.Authenticate(addresses.DeleteAddress))
}

func AddCartRoutes(router *httprouter.Router, svc *cart.Service) {
	router.GET("/api/cart", middleware.Authenticate(svc.GetCart))
	router.POST("/api/cart", middleware.Authenticate(svc.AddToCart))
	router.PUT("/api/cart", middleware.Authenticate(svc.UpdateCartItem))
	router.DELETE("/api/cart/:productid", middleware.Authenticate(svc.RemoveFromCart))
	router.DELETE("/api/cart", middleware.Authenticate(svc.ClearCart))
	router.POST("/api/cart/sync", middleware.Authenticate(svc.SyncCart))
}

func AddCheckoutRoutes(router *httprouter.Router, svc *checkout.Service) {
	router.POST("/api/checkout", ratelim.RateLimit(middleware.Authenticate(svc.PlaceOrderHandler)))
}

func AddOrderRoutes(router *httprouter.Router) {
	router.GET("/api/myorders", middleware.Authenticate(orders.MyOrders))
	router.GET("/api/orders/:orderid", middleware.Authenticate(orders.GetOrder))
	router.GET("/api/orders/:orderid/receipt", middleware.Authenticate(orders.OrderReceipt))

	router.GET("/api/staff/orders", staffOnly(orders.ListOrders))
	router.PUT("/api/staff/orders/:orderid/status", staffOnly(orders.UpdateOrderStatus))
	router.PUT("/api/staff/payments/:paymentid/status", staffOnly(orders.UpdatePaymentStatus))
}

func AddOrderBoardRoutes(router *httprouter.Router, hub *orderboard.Hub) {
	router.GET("/ws/orders", staffOnly(orderboard.WebSocketHandler(hub)))
}
