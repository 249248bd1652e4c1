package models

import "time"

// Conversion is one audited currency conversion served by /v1/convert.
type Conversion struct {
	ID        int64     `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Amount    float64   `json:"amount"`
	Rate      float64   `json:"rate"`
	Result    float64   `json:"result"`
	CreatedAt time.Time `json:"createdAt"`
}
