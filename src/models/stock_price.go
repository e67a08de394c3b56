package models

import "time"

// MPricePoint is one daily close.
type MPricePoint struct {
	Timestamp int64   `json:"timestamp"`
	Close     float64 `json:"close"`
}

// MStockSnapshot is a single-stock financial snapshot.
type MStockSnapshot struct {
	Symbol        string        `json:"symbol"`
	Currency      string        `json:"currency"`
	Exchange      string        `json:"exchange"`
	Price         float64       `json:"price"`
	PreviousClose float64       `json:"previous_close"`
	ChangePercent float64       `json:"change_percent"`
	Volatility    float64       `json:"volatility"`
	MarketOpen    bool          `json:"market_open"`
	History       []MPricePoint `json:"history"`
	FetchedAt     time.Time     `json:"fetched_at"`
}
