// Package web holds the embedded HTML templates.
package web

import (
	"embed"
	"errors"
	"html/template"

	"cryptonest/internal/utils"
)

//go:embed templates/*.html
var files embed.FS

// Page names
const (
	Index          = "index.html"
	Signup         = "signup.html"
	Login          = "login.html"
	ForgotPassword = "forgot_password.html"
	Dashboard      = "dashboard.html"
	NotFound       = "404.html"
)

// Funcs are the helpers available to every template
func Funcs() template.FuncMap {
	return template.FuncMap{
		"money": utils.FormatMoney,
		"pct":   utils.FormatPercent,
		"qty":   utils.FormatQuantity,
		"dict":  dict,
	}
}

// dict builds a map from alternating keys and values, for passing several values to a partial
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict needs an even number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, errors.New("dict keys must be strings")
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

// Templates parses every page and partial
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(files, "templates/*.html")
}
