package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Price is a non-negative amount in USD that decodes leniently from JSON.
// Numbers are taken as is, strings go through ParsePrice and anything else
// reads as 0.
type Price float64

// UnmarshalJSON implements json.Unmarshaler
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			*p = 0
			return nil
		}
		*p = Price(ParsePrice(raw))
		return nil
	}

	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		*p = 0
		return nil
	}
	*p = Price(SanitizePrice(value))
	return nil
}

// ParsePrice parses a formatted price such as "$1,299.99" by dropping every
// character that is not a digit or a decimal point. Unparseable input yields 0.
func ParsePrice(raw string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)

	if cleaned == "" {
		return 0
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		// "1.299.99" and similar: keep the leading parseable prefix
		value = parseLeadingFloat(cleaned)
	}
	return SanitizePrice(value)
}

// parseLeadingFloat parses the longest prefix containing at most one decimal point
func parseLeadingFloat(s string) float64 {
	end := len(s)
	if first := strings.IndexByte(s, '.'); first >= 0 {
		if second := strings.IndexByte(s[first+1:], '.'); second >= 0 {
			end = first + 1 + second
		}
	}
	value, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return value
}

// SanitizePrice reads negative and non-finite prices as zero
func SanitizePrice(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
