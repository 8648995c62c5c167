package service

import (
	"errors"

	"restaurantadmin/internal/apperr"
	"restaurantadmin/internal/repository"
)

// notFound swaps repository.ErrNotFound for a resource-specific error.
func notFound(err error, replacement *apperr.Error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return replacement
	}
	return err
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
