package contracts

import (
	"errors"
	"fmt"
)

// ErrTickerNotFound means the provider has no data for the symbol
var ErrTickerNotFound = errors.New("ticker not found")

// MissingDataError 입력 필드 누락 (soft: 해당 기준 0점 / KPI null)
type MissingDataError struct {
	FiscalYear string
	Field      string
}

func (e *MissingDataError) Error() string {
	if e.FiscalYear == "" {
		return fmt.Sprintf("missing data: %s", e.Field)
	}
	return fmt.Sprintf("missing data: %s (%s)", e.Field, e.FiscalYear)
}

// InsufficientHistoryError 2년 미만 재무 데이터 (soft: 해석 문구로만 보고)
type InsufficientHistoryError struct {
	Ticker   string
	Years    int
	Required int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient history for %s: %d year(s), %d required", e.Ticker, e.Years, e.Required)
}

// DataIntegrityError 부분 결과 간 식별자 불일치 (fatal)
type DataIntegrityError struct {
	Component string
	Field     string
	Want      string
	Got       string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity: %s %s mismatch (want %q, got %q)", e.Component, e.Field, e.Want, e.Got)
}

// ProviderUnavailableError wraps a transport failure from an upstream provider
type ProviderUnavailableError struct {
	Provider string
	Entity   string
	Err      error
}

func (e *ProviderUnavailableError) Error() string {
	return fmt.Sprintf("provider %s unavailable for %s: %v", e.Provider, e.Entity, e.Err)
}

func (e *ProviderUnavailableError) Unwrap() error {
	return e.Err
}

// IsProviderUnavailable reports whether err is (or wraps) a ProviderUnavailableError
func IsProviderUnavailable(err error) bool {
	var pe *ProviderUnavailableError
	return errors.As(err, &pe)
}
