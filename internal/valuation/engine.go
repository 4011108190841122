// Package valuation joins a user's lots with current prices and converts
// them into the display currency.
package valuation

import (
	"context"
	"fmt"

	"cryptonest/internal/domain"
	"cryptonest/internal/pricing"

	"github.com/shopspring/decimal"
)

// LotLister is the part of the holdings store the engine needs
type LotLister interface {
	ListLots(ctx context.Context, userID uint) ([]domain.Lot, error)
}

// Item is one valued lot, every amount in the portfolio currency
type Item struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Symbol       string  `json:"symbol"`
	Quantity     float64 `json:"quantity"`
	BuyPrice     float64 `json:"buy_price"`
	CurrentPrice float64 `json:"current_price"`
	CurrentValue float64 `json:"current_value"`
	ChangePct    float64 `json:"change_pct"`
	Priced       bool    `json:"priced"`    // false when the price gateway returned nothing
	Supported    bool    `json:"supported"` // false for tickers outside the lookup table
}

// Portfolio is the valued holdings of one user
type Portfolio struct {
	Currency       string  `json:"currency"`
	Glyph          string  `json:"glyph"`
	Items          []Item  `json:"items"`
	TotalValue     float64 `json:"total_value"`
	TotalCost      float64 `json:"total_cost"`       // cost basis of priced lots only
	TotalChangePct float64 `json:"total_change_pct"` // cost-weighted over priced lots
}

// Unpriced counts items without a current price
func (p *Portfolio) Unpriced() int {
	n := 0
	for _, it := range p.Items {
		if !it.Priced {
			n++
		}
	}
	return n
}

// Engine computes portfolios
type Engine struct {
	Lots   LotLister
	Prices pricing.Source
}

// NewEngine creates a valuation engine
func NewEngine(lots LotLister, prices pricing.Source) *Engine {
	return &Engine{Lots: lots, Prices: prices}
}

var hundred = decimal.NewFromInt(100)

// ComputePortfolio values every lot of userID in currency.
// An unsupported currency is valued in USD.
func (e *Engine) ComputePortfolio(ctx context.Context, userID uint, currency string) (*Portfolio, error) {
	currency = domain.NormalizeCurrency(currency)
	p := &Portfolio{Currency: currency, Glyph: domain.Glyph(currency), Items: []Item{}}

	lots, err := e.Lots.ListLots(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("compute portfolio: %w", err)
	}
	if len(lots) == 0 {
		return p, nil
	}

	symbols := make([]string, 0, len(lots))
	seen := make(map[string]bool, len(lots))
	for _, l := range lots {
		if !seen[l.Symbol] {
			seen[l.Symbol] = true
			symbols = append(symbols, l.Symbol)
		}
	}
	prices := e.Prices.Prices(ctx, symbols, currency)

	rate := decimal.NewFromFloat(domain.Rate(currency))
	totalValue := decimal.Zero
	pricedValue := decimal.Zero
	pricedCost := decimal.Zero

	for _, l := range lots {
		qty := decimal.NewFromFloat(l.Quantity)
		buy := decimal.NewFromFloat(l.BuyPrice).Mul(rate)
		price := decimal.NewFromFloat(prices[l.Symbol])
		value := qty.Mul(price)
		priced := price.IsPositive()

		change := decimal.Zero
		if priced && !buy.IsZero() {
			change = price.Sub(buy).Div(buy).Mul(hundred)
		}

		totalValue = totalValue.Add(value)
		if priced {
			pricedValue = pricedValue.Add(value)
			pricedCost = pricedCost.Add(qty.Mul(buy))
		}

		p.Items = append(p.Items, Item{
			ID:           l.ID,
			Name:         l.DisplayName(),
			Symbol:       l.Symbol,
			Quantity:     l.Quantity,
			BuyPrice:     buy.InexactFloat64(),
			CurrentPrice: price.InexactFloat64(),
			CurrentValue: value.InexactFloat64(),
			ChangePct:    change.InexactFloat64(),
			Priced:       priced,
			Supported:    pricing.Known(l.Symbol),
		})
	}

	p.TotalValue = totalValue.InexactFloat64()
	p.TotalCost = pricedCost.InexactFloat64()
	if !pricedCost.IsZero() {
		p.TotalChangePct = pricedValue.Sub(pricedCost).Div(pricedCost).Mul(hundred).InexactFloat64()
	}
	return p, nil
}
