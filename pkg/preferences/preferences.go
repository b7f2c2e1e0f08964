package preferences

import "time"

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyINR Currency = "INR"
)

func ValidCurrency(c Currency) bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyINR:
		return true
	}
	return false
}

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func ValidTheme(t Theme) bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// Preferences holds per-user display settings. One row per user, created
// lazily with defaults on first read.
type Preferences struct {
	ID        string
	UserID    string
	Currency  Currency
	Theme     Theme
	CreatedAt time.Time
}
