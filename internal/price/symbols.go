package price

import "sort"

// providerCodes maps exchange symbols to the codes the quote provider expects.
// It is never written after package init.
var providerCodes = map[string]string{
	"HDFCBANK":   "HDF01",
	"RELIANCE":   "RELIANCE",
	"TCS":        "TCS",
	"INFY":       "INFOSYSTCH",
	"ICICIBANK":  "ICICIBANK",
	"SBIN":       "SBIN",
	"BHARTIARTL": "BHARTIARTL",
	"KOTAKBANK":  "KOTAKBANK",
	"AXISBANK":   "AXISBANK",
	"LT":         "LT",
}

// ProviderCode resolves a symbol to its provider code.
func ProviderCode(symbol string) (string, bool) {
	code, ok := providerCodes[symbol]
	return code, ok
}

// Symbols returns every supported symbol in sorted order.
func Symbols() []string {
	out := make([]string, 0, len(providerCodes))
	for s := range providerCodes {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
