package services

import (
	"fmt"

	"hotel-reservation/models"
)

// CurrencyService maps a currency code to its exchange rate relative
// to the base currency (USD). Rates are static for now; a production
// deployment would refresh them from an external feed.
type CurrencyService struct {
	rates map[string]float64
}

func NewCurrencyService() *CurrencyService {
	return &CurrencyService{
		rates: map[string]float64{
			"KHR": 4100, // 1 USD = 4100 KHR
		},
	}
}

// Rate returns the exchange rate for the given code. The base
// currency always rates 1. Unknown codes are a hard input error,
// never a silent default.
func (s *CurrencyService) Rate(code string) (float64, error) {
	if code == models.BaseCurrency {
		return 1, nil
	}
	if rate, ok := s.rates[code]; ok {
		return rate, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, code)
}

// Supported reports whether payments can be taken in the given code.
func (s *CurrencyService) Supported(code string) bool {
	_, err := s.Rate(code)
	return err == nil
}
