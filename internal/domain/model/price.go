package model

import "time"

// PriceBar is one row of price history.
type PriceBar struct {
	Date     time.Time `csv:"date"`
	Open     float64   `csv:"open"`
	High     float64   `csv:"high"`
	Low      float64   `csv:"low"`
	Close    float64   `csv:"close"`
	AdjClose float64   `csv:"adj_close"`
	Volume   float64   `csv:"volume"`
}
