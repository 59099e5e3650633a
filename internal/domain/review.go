package domain

import "time"

type Review struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"item_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedOn  time.Time `json:"created_on"`
}

type ReviewSummary struct {
	ItemID  string  `json:"item_id"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
