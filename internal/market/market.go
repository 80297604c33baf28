package market

// Market is the canonical market shape the calculators consume. All fields
// are fully parsed; the Gamma API's loose typing stops at the normalizer.
type Market struct {
	ID              string
	Question        string
	Slug            string
	Category        string
	Tags            []string
	Outcomes        []string
	OutcomePrices   []float64 // parallel to Outcomes, each in [0,1]
	Volume          float64
	Liquidity       float64
	Active          bool
	Closed          bool
	AcceptingOrders bool
	EnableOrderBook bool
	CreatedAt       string
	EndDate         string
}
