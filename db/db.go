package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection       *mongo.Collection
	ProductsCollection   *mongo.Collection
	CategoriesCollection *mongo.Collection
	AddressesCollection  *mongo.Collection
	OrdersCollection     *mongo.Collection
	OrderItemsCollection *mongo.Collection
	PaymentsCollection   *mongo.Collection
	Client               *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	UserCollection = Client.Database("comanda").Collection("users")
	ProductsCollection = Client.Database("comanda").Collection("products")
	CategoriesCollection = Client.Database("comanda").Collection("categories")
	AddressesCollection = Client.Database("comanda").Collection("addresses")
	OrdersCollection = Client.Database("comanda").Collection("orders")
	OrderItemsCollection = Client.Database("comanda").Collection("orderitems")
	PaymentsCollection = Client.Database("comanda").Collection("payments")
}
