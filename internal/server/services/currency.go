package services

import (
	"context"
	"math"
	"strings"

	"github.com/curexhq/curex/internal/common"
)

// RateSource supplies the current USD-based exchange-rate snapshot.
type RateSource interface {
	Rates(ctx context.Context) (map[string]float64, error)
}

// CurrencyService answers currency questions from the latest rates
// snapshot. All rates are relative to USD (1 USD = value in currency).
type CurrencyService struct {
	rates RateSource
}

func NewCurrencyService(rates RateSource) *CurrencyService {
	return &CurrencyService{rates: rates}
}

// List returns the currencies available for conversion, code to full name.
// Codes without a known name map to themselves.
func (s *CurrencyService) List(ctx context.Context) (map[string]string, error) {
	rates, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(rates))
	for code := range rates {
		if name, ok := currencyNames[code]; ok {
			names[code] = name
		} else {
			names[code] = code
		}
	}
	return names, nil
}

// ActualRates returns the current snapshot, filtered to the given codes
// when any are supplied. If any requested code is unknown the whole request
// fails with ErrInvalidCurrencyCode. Codes are case-insensitive.
func (s *CurrencyService) ActualRates(ctx context.Context, codes []string) (map[string]float64, error) {
	rates, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return rates, nil
	}

	selected := make(map[string]float64, len(codes))
	for _, code := range codes {
		c := strings.ToUpper(code)
		rate, ok := rates[c]
		if !ok {
			return nil, common.ErrInvalidCurrencyCode
		}
		selected[c] = rate
	}
	return selected, nil
}

// ActualRate returns the current rate for a single currency code.
func (s *CurrencyService) ActualRate(ctx context.Context, code string) (float64, error) {
	rates, err := s.snapshot(ctx)
	if err != nil {
		return 0, err
	}

	rate, ok := rates[strings.ToUpper(code)]
	if !ok {
		return 0, common.ErrInvalidCurrencyCode
	}
	return rate, nil
}

// Convert converts amount units of the from currency into the to currency
// using the current snapshot, rounded to 3 decimal places. Codes are
// case-insensitive.
func (s *CurrencyService) Convert(ctx context.Context, from, to string, amount float64) (float64, error) {
	rates, err := s.snapshot(ctx)
	if err != nil {
		return 0, err
	}

	x, ok := rates[strings.ToUpper(from)]
	if !ok {
		return 0, common.ErrInvalidCurrencyCode
	}
	y, ok := rates[strings.ToUpper(to)]
	if !ok {
		return 0, common.ErrInvalidCurrencyCode
	}
	// a zero rate would divide to Inf; the snapshot is unusable
	if x == 0 {
		return 0, common.ErrRatesUnavailable
	}

	result := amount * (y / x)
	return math.Round(result*1000) / 1000, nil
}

// snapshot loads the rates and treats an empty snapshot as unavailable:
// the fetch job has not succeeded yet.
func (s *CurrencyService) snapshot(ctx context.Context) (map[string]float64, error) {
	rates, err := s.rates.Rates(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if len(rates) == 0 {
		return nil, common.ErrRatesUnavailable
	}
	return rates, nil
}
