package signal

import (
	"strings"

	"predictlearn/internal/market"
)

// Categories is the fixed category set used for accuracy breakdowns.
var Categories = []string{"Politics", "Crypto", "Sports", "Science"}

var categoryKeywords = map[string][]string{
	"Politics": {"politics", "us-current-affairs", "election", "government"},
	"Crypto":   {"crypto", "cryptocurrency", "bitcoin", "ethereum", "web3"},
	"Sports":   {"sports", "nfl", "nba", "soccer", "football", "baseball"},
	"Science":  {"science", "technology", "ai", "space", "climate"},
}

// MatchesCategory reports whether the market's free-text category or any of
// its tags maps to one of the four fixed categories, by case-insensitive
// keyword containment.
func MatchesCategory(m market.Market, category string) bool {
	for _, keyword := range categoryKeywords[category] {
		if strings.Contains(strings.ToLower(m.Category), keyword) {
			return true
		}
		for _, tag := range m.Tags {
			if strings.Contains(strings.ToLower(tag), keyword) {
				return true
			}
		}
	}
	return false
}
