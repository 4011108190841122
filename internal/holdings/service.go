// Package holdings records and removes purchase lots for a user.
package holdings

import (
	"context"                    // Context for DB calls
	"cryptonest/internal/domain" // Importing domain models
	"errors"                     // Error comparison
	"fmt"                        // Error wrapping
	"math"                       // NaN and Inf checks
	"strconv"                    // Amount parsing
	"strings"                    // String manipulation
	"time"                       // Buy date parsing

	"github.com/sirupsen/logrus" // Logging
	"gorm.io/gorm"               // GORM ORM library
)

// LotInput is the raw add-lot form. BuyPrice is always USD.
type LotInput struct {
	Symbol   string // Ticker as typed
	BuyPrice string // USD unit price
	Quantity string // Units bought
	BuyDate  string // YYYY-MM-DD
}

// Service is the holdings store backed by gorm
type Service struct {
	db  *gorm.DB       // Database handle
	log *logrus.Logger // Logger
}

// New creates a holdings service
func New(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{db: db, log: log}
}

// AddLot validates and inserts one lot for userID
func (s *Service) AddLot(ctx context.Context, userID uint, in LotInput) (*domain.Lot, error) {
	symbol := domain.SanitizeSymbol(in.Symbol) // Letters only, upper-cased
	switch n := domain.SymbolLen(symbol); {
	case n < domain.MinSymbolLen:
		return nil, domain.Invalid("symbol", fmt.Sprintf("Symbol too short: %q (min %d chars)", symbol, domain.MinSymbolLen))
	case n > domain.MaxSymbolLen:
		return nil, domain.Invalid("symbol", fmt.Sprintf("Symbol too long: %q (max %d chars)", symbol, domain.MaxSymbolLen))
	}

	price := parseAmount(in.BuyPrice)
	qty := parseAmount(in.Quantity)
	dateStr := strings.TrimSpace(in.BuyDate) // Date as typed
	if price <= 0 || qty <= 0 || dateStr == "" {
		return nil, domain.Invalid("buy_price", "All values must be > 0 and date required")
	}

	buyDate, err := time.Parse(domain.DateLayout, dateStr)
	if err != nil {
		return nil, domain.Invalid("buy_date", "Bad date")
	}

	lot := &domain.Lot{
		UserID:   userID,  // Owner
		Symbol:   symbol,  // Sanitised ticker
		Name:     symbol,  // Display name
		BuyPrice: price,   // Stored in USD
		Quantity: qty,     // Units bought
		BuyDate:  buyDate, // Calendar date
	}
	if err := s.db.WithContext(ctx).Create(lot).Error; err != nil {
		if _, ok := domain.IsValidation(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("create lot: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "lot_id": lot.ID, "symbol": symbol}).Info("Lot added")
	return lot, nil
}

// ListLots returns the user's lots in the order they were added
func (s *Service) ListLots(ctx context.Context, userID uint) ([]domain.Lot, error) {
	var lots []domain.Lot // User's lots, oldest first
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&lots).Error; err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	return lots, nil
}

// DeleteLot removes a lot only when it belongs to userID and returns its symbol.
// A missing lot and someone else's lot both yield domain.ErrLotNotFound.
func (s *Service) DeleteLot(ctx context.Context, userID, lotID uint) (string, error) {
	var symbol string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lot domain.Lot // Lot scoped by owner
		res := tx.Where("id = ? AND user_id = ?", lotID, userID).Limit(1).Find(&lot)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrLotNotFound
		}
		del := tx.Where("id = ? AND user_id = ?", lotID, userID).Delete(&domain.Lot{}) // Delete only the owner's row
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected == 0 {
			return domain.ErrLotNotFound
		}
		symbol = lot.Symbol // Reported back to the caller
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrLotNotFound) {
			return "", err
		}
		return "", fmt.Errorf("delete lot %d: %w", lotID, err)
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "lot_id": lotID, "symbol": symbol}).Info("Lot deleted")
	return symbol, nil
}

// parseAmount reads a positive decimal, anything unparseable counts as 0
func parseAmount(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
