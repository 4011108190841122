package api

import (
	"errors"  // Error unwrapping
	"fmt"     // Message formatting
	"reflect" // Struct field tags
	"strings" // Tag parsing
	"sync"    // One-time validator setup

	"github.com/gin-gonic/gin/binding"       // Gin binding engine
	"github.com/go-playground/validator/v10" // Struct validation
)

// SignupForm is the /signup form; minimum lengths are checked by the identity service
type SignupForm struct {
	Name     string `form:"name" binding:"max=120"`    // Display name
	Email    string `form:"email" binding:"max=120"`   // Login email
	Password string `form:"password" binding:"max=72"` // bcrypt ignores bytes past 72
}

// LoginForm is the /login form
type LoginForm struct {
	Email    string `form:"email" binding:"required,max=120"` // Login email
	Password string `form:"password" binding:"required"`      // Plain password
	Next     string `form:"next"`                             // Page to return to
}

// AddLotForm is the /add_coin form; amounts stay strings so the holdings service owns parsing
type AddLotForm struct {
	Symbol   string `form:"symbol" binding:"max=40"`    // Ticker or coin name
	BuyPrice string `form:"buy_price" binding:"max=40"` // USD unit price
	Quantity string `form:"quantity" binding:"max=40"`  // Units bought
	BuyDate  string `form:"buy_date" binding:"max=10"`  // YYYY-MM-DD
}

// LotURI is the :id path parameter of /delete_coin
type LotURI struct {
	ID uint `uri:"id" binding:"required,gt=0"` // Lot id
}

// PricesQuery is the /api/prices query string
type PricesQuery struct {
	Symbols string `form:"symbols" binding:"max=500"` // Comma separated tickers
}

var initValidator sync.Once

// InitValidator makes validation errors report form field names
func InitValidator() {
	initValidator.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				for _, tag := range []string{"form", "uri"} {
					name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
					if name == "-" {
						return ""
					}
					if name != "" {
						return name
					}
				}
				return fld.Name
			})
		}
	})
}

// bindMessage turns a binding error into a one-line flash message
func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid form submission."
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}
