package utils

import (
	"strings"
	"time"

	apperrors "github.com/Kosench/shortlink-analytics/internal/errors"
)

// localDateTimeLayout - дата без зоны, трактуется как UTC
const localDateTimeLayout = "2006-01-02T15:04:05"

// ParseExpiry разбирает необязательный срок жизни ссылки.
// Пустая строка означает "без срока".
func ParseExpiry(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}

	t, err := time.ParseInLocation(localDateTimeLayout, raw, time.UTC)
	if err != nil {
		return nil, apperrors.NewValidationError("expiry", "expiry must be an RFC 3339 or 2006-01-02T15:04:05 timestamp")
	}

	return &t, nil
}
