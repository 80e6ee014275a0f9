package models

import "time"

// Product is a catalog entry. The cart snapshots Name and Price at mutation
// time; Available gates whether new cart lines may reference it.
type Product struct {
	ProductID   string    `json:"productId" bson:"productid"`
	CategoryID  string    `json:"categoryId,omitempty" bson:"categoryId,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64   `json:"price" bson:"price"`
	Image       string    `json:"image,omitempty" bson:"image,omitempty"`
	Available   bool      `json:"available" bson:"available"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Category struct {
	CategoryID string    `json:"categoryId" bson:"categoryid"`
	Name       string    `json:"name" bson:"name"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

// Address belongs to exactly one user; delivery orders must reference an
// address owned by the ordering user.
type Address struct {
	AddressID  string    `json:"addressId" bson:"addressid"`
	UserID     string    `json:"userId" bson:"userid"`
	Street     string    `json:"street" bson:"street"`
	Number     string    `json:"number" bson:"number"`
	Complement string    `json:"complement,omitempty" bson:"complement,omitempty"`
	District   string    `json:"district" bson:"district"`
	City       string    `json:"city" bson:"city"`
	State      string    `json:"state" bson:"state"`
	PostalCode string    `json:"postalCode" bson:"postalCode"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}
