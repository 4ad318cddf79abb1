package models

// Quote is the gold price for one day exactly as the source page shows it.
type Quote struct {
	// Date is the row label, e.g. "12 Mar".
	Date string `json:"date"`

	// Price keeps the currency symbol and thousands separators, e.g. "₹6,500".
	Price string `json:"price"`
}

// QuotePair is a successful extraction: the first two rows of the table.
type QuotePair struct {
	Today     Quote `json:"today"`
	Yesterday Quote `json:"yesterday"`
}

// Direction classifies a day-over-day change.
type Direction string

const (
	DirectionGain     Direction = "gain"
	DirectionLoss     Direction = "loss"
	DirectionNoChange Direction = "no_change"
)

// Change is the numeric comparison of a QuotePair.
type Change struct {
	Today     int64     `json:"today"`
	Yesterday int64     `json:"yesterday"`
	Delta     int64     `json:"delta"`
	Direction Direction `json:"direction"`
}

// Magnitude returns the absolute value of Delta.
func (c Change) Magnitude() int64 {
	if c.Delta < 0 {
		return -c.Delta
	}
	return c.Delta
}
