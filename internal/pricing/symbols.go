package pricing

import "strings"

// coinIDs maps tickers to CoinGecko coin ids
var coinIDs = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"ETC":   "ethereum-classic",
	"SOL":   "solana",
	"ADA":   "cardano",
	"DOT":   "polkadot",
	"MATIC": "polygon",
	"LINK":  "chainlink",
	"LTC":   "litecoin",
	"BNB":   "binancecoin",
	"XRP":   "ripple",
	"DOGE":  "dogecoin",
	"AVAX":  "avalanche-2",
	"UNI":   "uniswap",
	"USDT":  "tether",
	"PEPE":  "pepe",
	"SHIB":  "shiba-inu",
	"BONK":  "bonk",
	"WIF":   "dogwifcoin",
}

// CoinID translates a ticker to a CoinGecko id.
// Unknown tickers fall back to their lower-cased form as a best guess.
func CoinID(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if id, ok := coinIDs[symbol]; ok {
		return id
	}
	return strings.ToLower(symbol)
}

// Known reports whether the ticker is in the fixed lookup table
func Known(symbol string) bool {
	_, ok := coinIDs[strings.ToUpper(strings.TrimSpace(symbol))]
	return ok
}
