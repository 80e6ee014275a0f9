package catalog

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"comanda/db"
	"comanda/models"
	"comanda/rdx"
	"comanda/utils"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const productPicDir = "static/productpic"

const (
	menuCacheKey = "menu:all"
	menuCacheTTL = 5 * time.Minute
)

// invalidateMenuCache drops the cached menu after any catalog write. A failed
// delete only means stale reads until the TTL runs out.
func invalidateMenuCache() {
	if err := rdx.RdxDel(menuCacheKey); err != nil {
		log.Println("menu cache invalidate:", err)
	}
}

// GetMenu returns all available products grouped by category. The rendered
// menu is cached in redis; catalog writes invalidate it.
func GetMenu(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if cached, err := rdx.RdxGet(menuCacheKey); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(cached))
		return
	}

	cursor, err := db.CategoriesCollection.Find(ctx, bson.M{})
	if err != nil {
		log.Println("GetMenu categories error:", err)
		http.Error(w, "Could not load menu", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		http.Error(w, "Error reading categories", http.StatusInternalServerError)
		return
	}

	prodCursor, err := db.ProductsCollection.Find(ctx, bson.M{"available": true},
		options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		log.Println("GetMenu products error:", err)
		http.Error(w, "Could not load menu", http.StatusInternalServerError)
		return
	}
	defer prodCursor.Close(ctx)

	var products []models.Product
	if err := prodCursor.All(ctx, &products); err != nil {
		http.Error(w, "Error reading products", http.StatusInternalServerError)
		return
	}

	grouped := map[string][]models.Product{}
	for _, p := range products {
		grouped[p.CategoryID] = append(grouped[p.CategoryID], p)
	}

	payload := utils.M{
		"categories": categories,
		"products":   grouped,
	}
	if data, err := json.Marshal(payload); err == nil {
		if err := rdx.SetWithExpiry(menuCacheKey, string(data), menuCacheTTL); err != nil {
			log.Println("menu cache store:", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, payload)
}

// GetProductHandler returns a single product by id.
func GetProductHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	p, err := (MongoLookup{}).GetProduct(ctx, ps.ByName("productid"))
	if err == ErrProductNotFound {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Could not load product", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// CreateProduct adds a catalog entry (staff only).
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var body struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		CategoryID  string  `json:"categoryId"`
		Image       string  `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if len(body.Name) == 0 || len(body.Name) > 100 {
		http.Error(w, "Name must be between 1 and 100 characters.", http.StatusBadRequest)
		return
	}
	if body.Price < 0 {
		http.Error(w, "Invalid price value. Must be a non-negative number.", http.StatusBadRequest)
		return
	}

	now := time.Now()
	product := models.Product{
		ProductID:   "prd" + utils.GenerateRandomString(14),
		CategoryID:  body.CategoryID,
		Name:        body.Name,
		Description: body.Description,
		Price:       body.Price,
		Image:       body.Image,
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := db.ProductsCollection.InsertOne(ctx, product); err != nil {
		log.Println("CreateProduct InsertOne error:", err)
		http.Error(w, "Failed to create product", http.StatusInternalServerError)
		return
	}
	invalidateMenuCache()

	utils.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct edits price, name, description, category or availability.
func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var body struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		CategoryID  *string  `json:"categoryId"`
		Available   *bool    `json:"available"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if body.Name != nil {
		set["name"] = *body.Name
	}
	if body.Description != nil {
		set["description"] = *body.Description
	}
	if body.Price != nil {
		if *body.Price < 0 {
			http.Error(w, "Invalid price value. Must be a non-negative number.", http.StatusBadRequest)
			return
		}
		set["price"] = *body.Price
	}
	if body.CategoryID != nil {
		set["categoryId"] = *body.CategoryID
	}
	if body.Available != nil {
		set["available"] = *body.Available
	}

	res, err := db.ProductsCollection.UpdateOne(ctx,
		bson.M{"productid": ps.ByName("productid")},
		bson.M{"$set": set})
	if err != nil {
		log.Println("UpdateProduct UpdateOne error:", err)
		http.Error(w, "Failed to update product", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	invalidateMenuCache()

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteProduct marks a product unavailable. Orders keep their snapshots, so
// a hard delete is never needed.
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.ProductsCollection.UpdateOne(ctx,
		bson.M{"productid": ps.ByName("productid")},
		bson.M{"$set": bson.M{"available": false, "updatedAt": time.Now()}})
	if err != nil {
		http.Error(w, "Failed to delete product", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	invalidateMenuCache()

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UploadProductImage stores the product photo plus a 300px thumbnail.
func UploadProductImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		http.Error(w, "Failed to decode image", http.StatusBadRequest)
		return
	}

	fileName := uuid.New().String() + ".jpg"
	thumbDir := filepath.Join(productPicDir, "thumb")
	if err := os.MkdirAll(thumbDir, 0755); err != nil {
		http.Error(w, "Failed to create upload directory", http.StatusInternalServerError)
		return
	}

	if err := imaging.Save(img, filepath.Join(productPicDir, fileName)); err != nil {
		log.Println("UploadProductImage save error:", err)
		http.Error(w, "Failed to save image", http.StatusInternalServerError)
		return
	}
	thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(thumbDir, fileName)); err != nil {
		log.Println("UploadProductImage thumbnail error:", err)
		http.Error(w, "Failed to save thumbnail", http.StatusInternalServerError)
		return
	}

	imagePath := "/static/productpic/" + fileName
	res, err := db.ProductsCollection.UpdateOne(ctx,
		bson.M{"productid": ps.ByName("productid")},
		bson.M{"$set": bson.M{"image": imagePath, "updatedAt": time.Now()}})
	if err != nil || res.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	invalidateMenuCache()

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"image": imagePath})
}

// CreateCategory adds a menu section (staff only).
func CreateCategory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		http.Error(w, "Category name is required", http.StatusBadRequest)
		return
	}

	category := models.Category{
		CategoryID: "cat" + utils.GenerateRandomString(14),
		Name:       body.Name,
		CreatedAt:  time.Now(),
	}
	if _, err := db.CategoriesCollection.InsertOne(ctx, category); err != nil {
		http.Error(w, "Failed to create category", http.StatusInternalServerError)
		return
	}
	invalidateMenuCache()

	utils.RespondWithJSON(w, http.StatusCreated, category)
}
