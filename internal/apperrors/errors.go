package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// Kind classifies an AppError so callers can branch on it with a single switch.
type Kind int

const (
	KindUnknown Kind = iota

	// request validation
	KindInvalidDescription
	KindNonPositiveAmount

	KindTransactionNotFound

	// malformed conversion requests
	KindCurrencyCodeRequired
	KindInvalidConversionRequest

	// rate resolver internals, never surfaced directly over HTTP
	KindUpstreamError
	KindNoRatesFound
	KindFieldMissing
	KindMalformedUpstreamData
	KindRateOutdated

	// conversion failures as seen by API callers
	KindRateNotFound
	KindRateServiceUnavailable
)

var kindNames = map[Kind]string{
	KindUnknown:                  "Unknown",
	KindInvalidDescription:       "InvalidDescription",
	KindNonPositiveAmount:        "NonPositiveAmount",
	KindTransactionNotFound:      "TransactionNotFound",
	KindCurrencyCodeRequired:     "CurrencyCodeRequired",
	KindInvalidConversionRequest: "InvalidConversionRequest",
	KindUpstreamError:            "UpstreamError",
	KindNoRatesFound:             "NoRatesFound",
	KindFieldMissing:             "FieldMissing",
	KindMalformedUpstreamData:    "MalformedUpstreamData",
	KindRateOutdated:             "RateOutdated",
	KindRateNotFound:             "RateNotFound",
	KindRateServiceUnavailable:   "RateServiceUnavailable",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// AppError is the tagged error used across the core. StatusCode is only set
// for upstream HTTP failures and Field only for missing payload fields.
type AppError struct {
	Kind       Kind
	Message    string
	StatusCode int
	Field      string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the package sentinels against the matching kinds.
func (e *AppError) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindInvalidDescription || e.Kind == KindNonPositiveAmount
	case ErrNotFound:
		return e.Kind == KindTransactionNotFound
	}
	return false
}

// KindOf returns the kind of the first AppError in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func NewInvalidDescriptionError(message string) *AppError {
	return &AppError{Kind: KindInvalidDescription, Message: message}
}

func NewNonPositiveAmountError(message string) *AppError {
	return &AppError{Kind: KindNonPositiveAmount, Message: message}
}

func NewTransactionNotFoundError(id string) *AppError {
	return &AppError{Kind: KindTransactionNotFound, Message: fmt.Sprintf("Transaction with ID %s not found", id)}
}

func NewCurrencyCodeRequiredError() *AppError {
	return &AppError{Kind: KindCurrencyCodeRequired, Message: "currency code is required"}
}

func NewInvalidConversionRequestError(message string, err error) *AppError {
	return &AppError{Kind: KindInvalidConversionRequest, Message: message, Err: err}
}

// NewUpstreamError records a non-2xx answer from the rate source.
func NewUpstreamError(statusCode int) *AppError {
	return &AppError{
		Kind:       KindUpstreamError,
		Message:    fmt.Sprintf("error querying exchange rate source: status %d", statusCode),
		StatusCode: statusCode,
	}
}

func NewNoRatesFoundError(currency string, until string) *AppError {
	return &AppError{Kind: KindNoRatesFound, Message: fmt.Sprintf("no rates found for %s until %s", currency, until)}
}

func NewFieldMissingError(field string) *AppError {
	return &AppError{Kind: KindFieldMissing, Message: fmt.Sprintf("%s field not found in response", field), Field: field}
}

func NewMalformedUpstreamDataError(field string, err error) *AppError {
	return &AppError{Kind: KindMalformedUpstreamData, Message: fmt.Sprintf("malformed %s in response", field), Field: field, Err: err}
}

func NewRateOutdatedError(currency string) *AppError {
	return &AppError{Kind: KindRateOutdated, Message: fmt.Sprintf("there is no rate available within the previous 6 months for %s", currency)}
}

func NewRateNotFoundError(currency string, date string, err error) *AppError {
	return &AppError{
		Kind:    KindRateNotFound,
		Message: fmt.Sprintf("no exchange rate available for %s on or within 6 months before %s", currency, date),
		Err:     err,
	}
}

// NewRateServiceUnavailableError wraps err and copies the upstream status when err carries one.
func NewRateServiceUnavailableError(message string, err error) *AppError {
	appErr := &AppError{Kind: KindRateServiceUnavailable, Message: message, Err: err}
	var cause *AppError
	if errors.As(err, &cause) {
		appErr.StatusCode = cause.StatusCode
	}
	return appErr
}
