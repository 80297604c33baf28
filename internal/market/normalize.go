package market

import (
	"encoding/json"
	"strconv"

	"predictlearn/internal/gamma"
)

// Normalize converts one raw Gamma record into a canonical Market. The API
// delivers array fields both as JSON arrays and as JSON-encoded strings, and
// numeric fields both as numbers and numeric strings; malformed values fall
// back to zero values rather than failing the record.
func Normalize(raw gamma.RawMarket) Market {
	return Market{
		ID:              raw.ID,
		Question:        raw.Question,
		Slug:            raw.Slug,
		Category:        raw.Category,
		Tags:            parseStrings(raw.Tags),
		Outcomes:        parseStrings(raw.Outcomes),
		OutcomePrices:   parsePrices(raw.OutcomePrices),
		Volume:          parseNumber(raw.Volume),
		Liquidity:       parseNumber(raw.Liquidity),
		Active:          parseBool(raw.Active),
		Closed:          parseBool(raw.Closed),
		AcceptingOrders: parseBool(raw.AcceptingOrders),
		EnableOrderBook: parseBool(raw.EnableOrderBook),
		CreatedAt:       raw.CreatedAt,
		EndDate:         raw.EndDate,
	}
}

// NormalizeAll converts a batch of raw records.
func NormalizeAll(raws []gamma.RawMarket) []Market {
	markets := make([]Market, 0, len(raws))
	for _, r := range raws {
		markets = append(markets, Normalize(r))
	}
	return markets
}

// parseStrings accepts a JSON array of strings, a JSON-encoded string holding
// such an array, or an array of tag objects with a label field.
func parseStrings(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var direct []string
	if err := json.Unmarshal(raw, &direct); err == nil {
		return direct
	}

	// Double-encoded form: "[\"Yes\",\"No\"]".
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		var inner []string
		if err := json.Unmarshal([]byte(encoded), &inner); err == nil {
			return inner
		}
		return nil
	}

	// Tag-object form: [{"id":"1","label":"Politics"}].
	var objects []struct {
		Label string `json:"label"`
		Slug  string `json:"slug"`
	}
	if err := json.Unmarshal(raw, &objects); err == nil {
		out := make([]string, 0, len(objects))
		for _, o := range objects {
			switch {
			case o.Label != "":
				out = append(out, o.Label)
			case o.Slug != "":
				out = append(out, o.Slug)
			}
		}
		return out
	}

	return nil
}

// parsePrices parses outcome prices, tolerating numeric strings inside the
// array and the double-encoded array form. Unparsable entries become 0.
func parsePrices(raw json.RawMessage) []float64 {
	entries := parseLoose(raw)
	if entries == nil {
		return nil
	}

	prices := make([]float64, len(entries))
	for i, e := range entries {
		prices[i] = toFloat(e)
	}
	return prices
}

// parseLoose unwraps a JSON array of arbitrary scalars, following one level
// of string encoding if needed.
func parseLoose(raw json.RawMessage) []any {
	if len(raw) == 0 {
		return nil
	}

	var direct []any
	if err := json.Unmarshal(raw, &direct); err == nil {
		return direct
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		var inner []any
		if err := json.Unmarshal([]byte(encoded), &inner); err == nil {
			return inner
		}
	}

	return nil
}

func parseNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	return toFloat(v)
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func parseBool(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		b, err := strconv.ParseBool(x)
		return err == nil && b
	default:
		return false
	}
}
