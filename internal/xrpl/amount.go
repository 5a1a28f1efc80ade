package xrpl

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// Decimals is the fixed decimal precision of XRP.
	Decimals = 6
	// DropsPerXRP is the number of drops in one XRP.
	DropsPerXRP = 1_000_000
)

// MaxDrops is the total XRP supply expressed in drops. Any amount above it is
// necessarily malformed input.
const MaxDrops = int64(100_000_000_000) * DropsPerXRP

// FormatDrops renders a drop count as a decimal XRP string with the full
// six-digit fractional part, e.g. 12345000 -> "12.345000".
func FormatDrops(drops int64) string {
	sign := ""
	if drops < 0 {
		sign = "-"
		drops = -drops
	}
	return fmt.Sprintf("%s%d.%06d", sign, drops/DropsPerXRP, drops%DropsPerXRP)
}

// ParseXRP converts a decimal XRP string to drops. Fractional digits beyond
// the ledger precision are truncated, never rounded up. The conversion is
// exact for any value the ledger can represent.
func ParseXRP(value string) (int64, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) {
		return 0, fmt.Errorf("malformed amount %q", value)
	}

	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed amount %q: %w", value, err)
	}
	if n > MaxDrops/DropsPerXRP {
		return 0, fmt.Errorf("amount %q exceeds total supply", value)
	}
	drops := n * DropsPerXRP

	if len(frac) > Decimals {
		frac = frac[:Decimals]
	}
	if frac != "" {
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed amount %q: %w", value, err)
		}
		for i := len(frac); i < Decimals; i++ {
			f *= 10
		}
		drops += f
	}
	if drops > MaxDrops {
		return 0, fmt.Errorf("amount %q exceeds total supply", value)
	}
	return drops, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
