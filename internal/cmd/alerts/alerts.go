package alerts

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/opencivicdata/ocdids/pkg/errors"
)

// Alert represents a status notification.
type Alert struct {
	Level     Level
	Message   string
	Details   []string
	Timestamp time.Time
	Err       error
}

// New creates a new alert with the given level and message.
func New(level Level, message string) *Alert {
	return &Alert{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewError creates a new error alert.
func NewError(message string) *Alert {
	return New(LevelError, message)
}

// NewWarning creates a new warning alert.
func NewWarning(message string) *Alert {
	return New(LevelWarning, message)
}

// NewInfo creates a new info alert.
func NewInfo(message string) *Alert {
	return New(LevelInfo, message)
}

// NewSuccess creates a new success alert.
func NewSuccess(message string) *Alert {
	return New(LevelSuccess, message)
}

// FromError creates an error alert for err. An aggregated compile failure
// becomes one alert with a detail line per problem.
func FromError(err error) *Alert {
	var agg *errors.IntegrityError
	if !stderrors.As(err, &agg) {
		alert := NewError("ocdids failed").WithError(err)
		switch {
		case errors.IsNotFound(err):
			alert.WithDetails("run from the repository root, or set --root or root in ~/.ocdids.yaml")
		case errors.IsValidationError(err):
			alert.WithDetails("country codes are two-letter ISO 3166-1 codes, e.g. us")
		}
		return alert
	}

	noun := "problems"
	if len(agg.Errs) == 1 {
		noun = "problem"
	}
	alert := NewError(fmt.Sprintf("compile of country-%s failed with %d %s", agg.Country, len(agg.Errs), noun))
	for i, e := range agg.Errs {
		lines := strings.Split(e.Error(), "\n")
		alert.WithDetails(fmt.Sprintf("[%d] %s", i+1, lines[0]))
		for _, line := range lines[1:] {
			alert.WithDetails("    " + line)
		}
	}
	return alert
}

// WithError adds an underlying error to the alert.
func (a *Alert) WithError(err error) *Alert {
	a.Err = err
	return a
}

// WithDetails adds additional context details to the alert.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

// String returns a string representation of the alert.
func (a *Alert) String() string {
	message := fmt.Sprintf("%s %s", a.Level.Icon(), a.Message)
	if a.Err != nil {
		message += fmt.Sprintf(": %v", a.Err)
	}
	return message
}
