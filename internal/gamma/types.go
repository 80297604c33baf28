package gamma

import "encoding/json"

// RawMarket is a market record as delivered by the Gamma API. Numeric fields
// arrive as either numbers or numeric strings, and array fields as either
// JSON arrays or JSON-encoded strings, so anything unstable is kept as a raw
// message for the normalizer to sort out.
type RawMarket struct {
	ID              string          `json:"id"`
	Question        string          `json:"question"`
	ConditionID     string          `json:"conditionId"`
	Slug            string          `json:"slug"`
	Category        string          `json:"category"`
	Tags            json.RawMessage `json:"tags"`
	Outcomes        json.RawMessage `json:"outcomes"`
	OutcomePrices   json.RawMessage `json:"outcomePrices"`
	Volume          json.RawMessage `json:"volume"`
	Liquidity       json.RawMessage `json:"liquidity"`
	Active          json.RawMessage `json:"active"`
	Closed          json.RawMessage `json:"closed"`
	AcceptingOrders json.RawMessage `json:"acceptingOrders"`
	EnableOrderBook json.RawMessage `json:"enableOrderBook"`
	CreatedAt       string          `json:"createdAt"`
	EndDate         string          `json:"endDate"`
}

// RawEvent is an event record as delivered by the Gamma API. An event groups
// one or more markets under a shared title.
type RawEvent struct {
	ID          string          `json:"id"`
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Closed      json.RawMessage `json:"closed"`
	Markets     []RawMarket     `json:"markets"`
	Volume      json.RawMessage `json:"volume"`
	Liquidity   json.RawMessage `json:"liquidity"`
	CreatedAt   string          `json:"createdAt"`
	EndDate     string          `json:"endDate"`
}
