package models

// Day is the selected calendar date and its slot sequence
type Day struct {
	Date  string `json:"date"` // YYYY-MM-DD format
	Slots []Slot `json:"slots"`
}
