package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rirwin/stock-analysis/internal/apperrors"
	"github.com/rirwin/stock-analysis/internal/model"
)

// Error collects field-level validation failures. Err is the sentinel the
// failure belongs to, so callers can match it with errors.Is.
type Error struct {
	Err    error
	Fields map[string]string
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(msgs)
	return fmt.Sprintf("%v: %s", e.Err, strings.Join(msgs, "; "))
}

func (e *Error) Unwrap() error { return e.Err }

// ParseUserID parses a positive integer user id.
func ParseUserID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidUserID, s)
	}
	return id, nil
}

// ParseDate parses a YYYY-MM-DD request parameter. An empty value yields def.
func ParseDate(s string, def time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	d, err := model.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidDate, s)
	}
	return d, nil
}

// NormalizeTicker trims and upper-cases a ticker symbol.
func NormalizeTicker(ticker string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t == "" {
		return "", apperrors.ErrInvalidTicker
	}
	return t, nil
}
