package model

import "time"

// Item is a single marketplace listing.
type Item struct {
	ID          string    `json:"item_id"`
	Name        string    `json:"item_name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Category    Category  `json:"category"`
	Condition   Condition `json:"condition"`
	Image       string    `json:"image,omitempty"`
	Tags        []string  `json:"tags"`
	Available   bool      `json:"available"`
	DateListed  time.Time `json:"date_listed"`
	Featured    bool      `json:"featured"`
}

// RefreshAvailability recomputes Available from Quantity. It must be called
// whenever Quantity changes.
func (i *Item) RefreshAvailability() {
	i.Available = i.Quantity >= 1
}

// ListingDate truncates t to the calendar day it falls on, in UTC.
func ListingDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateLayout is the storage and display format of Item.DateListed.
const DateLayout = "2006-01-02"
