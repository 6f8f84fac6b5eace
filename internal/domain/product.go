package domain

import (
	"strings"
	"time"
)

// Category groups products in the catalogue.
type Category string

const (
	CategoryAll      Category = "ALL"
	CategoryBread    Category = "BREAD"
	CategoryBeverage Category = "BEVERAGE"
	CategoryCake     Category = "CAKE"
)

var categoryLabels = map[Category]string{
	CategoryAll:      "전체",
	CategoryBread:    "빵",
	CategoryBeverage: "음료수",
	CategoryCake:     "케이크",
}

// ParseCategory matches s case-insensitively against the known categories.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := categoryLabels[c]
	return c, ok
}

// Label returns the display name of the category.
func (c Category) Label() string {
	return categoryLabels[c]
}

const (
	MinPrice = 100
	MinStock = 10
	MaxStock = 1000
)

type Product struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Price       int64      `json:"price"`
	Category    Category   `json:"category"`
	Stock       int        `json:"stock"`
	Image       string     `json:"image"`
	Description string     `json:"description"`
	InputDate   *time.Time `json:"inputDate,omitempty"`
}

// Validate checks the constraints a product must meet when it is created.
func (p Product) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(p.Name) == "" {
		v.Add("name", "name required")
	}
	if p.Price < MinPrice {
		v.Add("price", "price must be at least 100")
	}
	if _, ok := categoryLabels[p.Category]; !ok {
		v.Add("category", "unknown category")
	}
	if p.Stock < MinStock || p.Stock > MaxStock {
		v.Add("stock", "stock must be between 10 and 1000")
	}
	if strings.TrimSpace(p.Description) == "" {
		v.Add("description", "description required")
	}
	return v.OrNil()
}

// ProductFilter narrows a catalogue listing.
type ProductFilter struct {
	Category   Category
	SearchMode string
	Keyword    string
	PageNumber int
	PageSize   int
}

// ProductPage is one page of a filtered catalogue listing.
type ProductPage struct {
	Products   []Product `json:"products"`
	Total      int       `json:"total"`
	PageNumber int       `json:"pageNumber"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
}
