package domain

import (
	"time"         // Buy date and creation timestamp
	"unicode"      // Symbol sanitising
	"unicode/utf8" // Symbol length in letters

	"gorm.io/gorm" // Hooks
)

// StorageCurrency is the only currency buy prices are persisted in.
// Display currencies are applied on the way out, never on the way in.
const StorageCurrency = "USD"

// DateLayout is the accepted buy date format
const DateLayout = "2006-01-02"

// Symbol length bounds, counted in letters; MaxSymbolLen matches the column size
const (
	MinSymbolLen = 2
	MaxSymbolLen = 10
)

// Lot Model, a single purchase of one asset
type Lot struct {
	ID        uint      `gorm:"primaryKey"`             // Primary key
	UserID    uint      `gorm:"index;not null"`         // Foreign key to User
	Symbol    string    `gorm:"size:10;index;not null"` // Uppercase ticker, e.g. BTC
	Name      string    `gorm:"size:50"`                // Display name, defaults to Symbol
	BuyPrice  float64   `gorm:"not null"`               // Always USD, see StorageCurrency
	Quantity  float64   `gorm:"not null"`               // Units bought
	BuyDate   time.Time `gorm:"type:date;not null"`     // Calendar date of purchase
	CreatedAt time.Time `gorm:"autoCreateTime"`         // Row creation timestamp
}

// DisplayName returns the name shown in listings and exports
func (l *Lot) DisplayName() string {
	if l.Name != "" {
		return l.Name
	}
	return l.Symbol
}

// BeforeCreate enforces the lot invariants at the persistence boundary.
// Anything reaching the store must already be sanitised and priced in USD.
func (l *Lot) BeforeCreate(tx *gorm.DB) error {
	if l.UserID == 0 {
		return Invalid("user", "Lot must belong to a user")
	}
	if n := SymbolLen(l.Symbol); SanitizeSymbol(l.Symbol) != l.Symbol || n < MinSymbolLen || n > MaxSymbolLen {
		return Invalid("symbol", "Symbol must be 2 to 10 letters")
	}
	if l.BuyPrice <= 0 || l.Quantity <= 0 {
		return Invalid("buy_price", "All values must be > 0 and date required")
	}
	if l.BuyDate.IsZero() {
		return Invalid("buy_date", "All values must be > 0 and date required")
	}
	if l.Name == "" {
		l.Name = l.Symbol
	}
	return nil
}

// SymbolLen counts letters, not bytes
func SymbolLen(symbol string) int {
	return utf8.RuneCountInString(symbol)
}

// SanitizeSymbol strips every non-alphabetic character and upper-cases the rest
func SanitizeSymbol(raw string) string {
	out := make([]rune, 0, len(raw))
	for _, r := range raw {
		if unicode.IsLetter(r) {
			out = append(out, unicode.ToUpper(r))
		}
	}
	return string(out)
}
