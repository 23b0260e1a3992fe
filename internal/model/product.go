package model

// Product represents a catalog product
type Product struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description string  `json:"description" db:"description"`
	Price       float64 `json:"price" db:"price"`
	Category    string  `json:"category" db:"category"`
	ImageURL    string  `json:"image_url,omitempty" db:"image_url"`
}

// PopularProduct is a product ranked by the number of completed order lines
type PopularProduct struct {
	Product
	SoldCount int `json:"sold_count" db:"sold_count"`
}

// CategorySales holds the sales aggregate of one category
type CategorySales struct {
	Category  string  `json:"category" db:"category"`
	TotalSold int     `json:"total_sold" db:"total_sold"`
	Revenue   float64 `json:"revenue" db:"revenue"`
}
