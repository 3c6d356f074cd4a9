package models

import "errors"

var (
	ErrInvalidSymbol   = errors.New("invalid symbol")
	ErrInvalidPrice    = errors.New("invalid price")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidBar      = errors.New("invalid bar (high < low)")
	ErrInvalidVolume   = errors.New("invalid volume")
	ErrDuplicateDate   = errors.New("duplicate date")
	ErrInvalidPeriod   = errors.New("invalid indicator period")
	ErrMalformedInput  = errors.New("malformed input")
	ErrInvalidMetric   = errors.New("invalid metric")
	ErrInvalidOperator = errors.New("invalid operator")
	ErrNoConditions    = errors.New("rule must have at least one condition")
	ErrLengthMismatch  = errors.New("column length does not match series length")
)
