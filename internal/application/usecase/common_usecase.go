package usecase

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidArgument = errors.New("usecase: invalid argument")
	ErrUnauthorized    = errors.New("usecase: unauthorized")
	ErrForbidden       = errors.New("usecase: forbidden")
)

// Clock provides current time (for testability).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// IDGenerator returns a new unique document id.
type IDGenerator func() string

func defaultID() string { return uuid.NewString() }

// dedupStrings trims, drops blanks and removes duplicates keeping first order.
func dedupStrings(xs []string) []string {
	seen := make(map[string]struct{}, len(xs))
	out := make([]string, 0, len(xs))
	for _, v := range xs {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
