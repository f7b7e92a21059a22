package catalog

import (
	"time"

	"github.com/gofrs/uuid"
)

type Category string

const (
	CategorySoups    Category = "soups"
	CategoryMain     Category = "main"
	CategorySalads   Category = "salads"
	CategoryDrinks   Category = "drinks"
	CategoryDesserts Category = "desserts"
)

func (c Category) String() string {
	return string(c)
}

// Valid reports whether the category is one of the known menu sections.
func (c Category) Valid() bool {
	switch c {
	case CategorySoups, CategoryMain, CategorySalads, CategoryDrinks, CategoryDesserts:
		return true
	}
	return false
}

// Dish is a sellable menu item. Price is in minor currency units (kopecks).
type Dish struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Category    Category  `json:"category" db:"category"`
	Price       int64     `json:"price" db:"price"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	Description string    `json:"description" db:"description"`
	Available   bool      `json:"available" db:"available"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
