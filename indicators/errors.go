package indicators

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrUnknownIndicator = errors.New("unknown indicator")
)

// InsufficientDataError is returned when a series is shorter than an
// indicator's minimum requirement.
type InsufficientDataError struct {
	Indicator string
	Need      int
	Have      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: not enough rows: need %d, got %d", e.Indicator, e.Need, e.Have)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// InvalidParameterError reports a bad parameter value or combination.
type InvalidParameterError struct {
	Indicator string
	Param     string
	Reason    string
}

func (e *InvalidParameterError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("%s: %s", e.Indicator, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", e.Indicator, e.Param, e.Reason)
}

func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// UnknownIndicatorError is returned for names not in the catalog.
type UnknownIndicatorError struct {
	Name string
}

func (e *UnknownIndicatorError) Error() string {
	return fmt.Sprintf("unknown indicator %q", e.Name)
}

func (e *UnknownIndicatorError) Is(target error) bool {
	return target == ErrUnknownIndicator
}

func positive(kind Kind, name string, v int) error {
	if v <= 0 {
		return &InvalidParameterError{Indicator: kind.String(), Param: name, Reason: fmt.Sprintf("must be positive, got %d", v)}
	}
	return nil
}
