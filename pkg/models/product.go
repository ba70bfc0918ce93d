package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Ingredient is a named component with a free-form amount ("200 g", "2 tbsp").
type Ingredient struct {
	Name     string `json:"name" bson:"name"`
	Quantity string `json:"quantity" bson:"quantity"`
}

type Specification struct {
	Name  string `json:"name" bson:"name"`
	Value string `json:"value" bson:"value"`
}

// SizePrice is one purchasable size of a product, e.g. {"500ml", 220}.
type SizePrice struct {
	Size  string  `json:"size" bson:"size" binding:"required"`
	Price float64 `json:"price" bson:"price" binding:"gt=0"`
}

// Product represents a catalog entry. Quantities is ordered; lookups by size
// use the first matching entry.
type Product struct {
	ID             bson.ObjectID   `json:"id" bson:"_id,omitempty"`
	ProductID      string          `json:"productId" bson:"productId"`
	Name           string          `json:"name" bson:"name"`
	Description    string          `json:"description" bson:"description"`
	Images         []string        `json:"images" bson:"images"`
	Category       string          `json:"category" bson:"category"`
	Ingredients    []Ingredient    `json:"ingredients" bson:"ingredients"`
	Specifications []Specification `json:"specifications" bson:"specifications"`
	Quantities     []SizePrice     `json:"quantities" bson:"quantities"`
	Discount       float64         `json:"discount" bson:"discount"`
	CreatedAt      time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// PriceForSize returns the price of the first quantity entry with the given size.
func (p *Product) PriceForSize(size string) (float64, bool) {
	for _, q := range p.Quantities {
		if q.Size == size {
			return q.Price, true
		}
	}
	return 0, false
}

func (p *Product) HasDiscount() bool {
	return p.Discount > 0
}

func (p *Product) SetTimestamps() {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

// ProductRequest is the body of catalog create and update calls. ID is only
// read on update.
type ProductRequest struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"productId" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	Description    string          `json:"description"`
	Images         []string        `json:"images"`
	Category       string          `json:"category" binding:"required"`
	Ingredients    []Ingredient    `json:"ingredients"`
	Specifications []Specification `json:"specifications"`
	Quantities     []SizePrice     `json:"quantities" binding:"required,min=1,dive"`
	Discount       *float64        `json:"discount" binding:"omitempty,gte=0,lte=100"`
}

func (req *ProductRequest) ToProduct() *Product {
	product := &Product{
		ProductID:      strings.TrimSpace(req.ProductID),
		Name:           req.Name,
		Description:    req.Description,
		Images:         req.Images,
		Category:       req.Category,
		Ingredients:    req.Ingredients,
		Specifications: req.Specifications,
		Quantities:     req.Quantities,
	}
	if req.Discount != nil {
		product.Discount = *req.Discount
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	product.SetTimestamps()
	return product
}
