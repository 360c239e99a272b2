// Package budget is the pure core of the event budget ledger: derived
// spend figures and the vendor-category mapping. Nothing here touches
// the database.
package budget

import (
	"errors"
	"math"

	"github.com/CarlosSalomon/Celebrate/internal/model"
)

var (
	ErrBadPrice        = errors.New("line item price must be a finite, non-negative number")
	ErrUnknownCategory = errors.New("unknown vendor category")
)

// Summary is derived from an event's declared budget and its hired
// line items. Percentage is the raw ratio and may exceed 100 on
// overspend; Remaining may be negative.
type Summary struct {
	TotalSpent float64 `json:"totalSpent"`
	Remaining  float64 `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// Compute sums line-item prices against the declared budget.
// A zero budget yields Percentage 0 rather than dividing by zero.
func Compute(declared float64, items []model.VendorLineItem) (Summary, error) {
	var spent float64
	for _, it := range items {
		if math.IsNaN(it.Price) || math.IsInf(it.Price, 0) || it.Price < 0 {
			return Summary{}, ErrBadPrice
		}
		spent += it.Price
	}

	s := Summary{
		TotalSpent: spent,
		Remaining:  declared - spent,
	}
	if declared > 0 {
		s.Percentage = spent / declared * 100
	}
	return s, nil
}

// DisplayPercent clamps to [0, 100] for progress-bar fill only.
func (s Summary) DisplayPercent() float64 {
	return math.Min(math.Max(s.Percentage, 0), 100)
}

func (s Summary) Overspent() bool {
	return s.Remaining < 0
}

// The five vendor categories, each mapping to exactly one event status flag.
const (
	CategoryDJ          = "DJ"
	CategoryCatering    = "Catering"
	CategoryDecoration  = "Decoration"
	CategoryVenue       = "Venue"
	CategoryPhotography = "Photography"
)

var statusFields = map[string]string{
	CategoryDJ:          "dj",
	CategoryCatering:    "catering",
	CategoryDecoration:  "decoration",
	CategoryVenue:       "venue",
	CategoryPhotography: "photography",
}

// StatusField maps a vendor category to its event status flag name.
// Hiring a vendor of an unmapped category is a validation error.
func StatusField(category string) (string, error) {
	f, ok := statusFields[category]
	if !ok {
		return "", ErrUnknownCategory
	}
	return f, nil
}

// Categories lists the known vendor categories in display order.
func Categories() []string {
	return []string{
		CategoryVenue,
		CategoryDJ,
		CategoryCatering,
		CategoryPhotography,
		CategoryDecoration,
	}
}
