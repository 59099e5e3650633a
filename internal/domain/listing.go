package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ListingStatus string

const (
	ListingStatusActive  ListingStatus = "active"
	ListingStatusPaused  ListingStatus = "paused"
	ListingStatusRemoved ListingStatus = "removed"
)

// Categories offered when listing an item.
var Categories = []string{
	"clothing",
	"jewellery",
	"appliances",
	"vehicles",
	"tech",
	"tools",
	"events",
	"studio",
}

func IsCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

type Listing struct {
	ID                string          `json:"id"`
	OwnerID           string          `json:"owner_id"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	DailyRate         decimal.Decimal `json:"daily_rate"`
	Location          string          `json:"location"`
	ImageURL          string          `json:"image_url"`
	DeliveryAvailable bool            `json:"delivery_available"`
	Status            ListingStatus   `json:"status"`
	Rating            float64         `json:"rating"`
	CreatedOn         time.Time       `json:"created_on"`
	UpdatedOn         time.Time       `json:"updated_on"`
}

func (l *Listing) Bookable() bool {
	return l.Status == ListingStatusActive
}

type ListingSort string

const (
	SortNewest    ListingSort = "newest"
	SortPriceLow  ListingSort = "price_low"
	SortPriceHigh ListingSort = "price_high"
	SortRating    ListingSort = "rating"
)

// ListingFilter narrows the browse feed; zero values mean no constraint.
type ListingFilter struct {
	Category  string
	Query     string
	MinRating float64
	Sort      ListingSort
	Limit     int
	Offset    int
}
