package ids

import (
	"errors"
	"strings"

	"github.com/segmentio/ksuid"
)

var ErrInvalid = errors.New("invalid id")

func New() string {
	return ksuid.New().String()
}

// Parse trims and validates an id coming from a path or request body.
func Parse(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalid
	}
	id, err := ksuid.Parse(raw)
	if err != nil {
		return "", ErrInvalid
	}
	return id.String(), nil
}

func ParseAll(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		id, err := Parse(r)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
