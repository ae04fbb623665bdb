// Package cache stores computed results under a fingerprint of their inputs.
//
// Results are recomputed on demand from immutable inputs, so a cache entry never needs to be
// invalidated: a change of input changes the key.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ErrNotFound is returned by Get when the key is not in the store.
var ErrNotFound = errors.New("cache: not found")

// Store is a key value store of encoded results.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Fingerprint returns a key for kind computed from the json encoding of parts.
func Fingerprint(kind string, parts ...any) (string, error) {
	d := xxhash.New()
	enc := json.NewEncoder(d)
	for i, p := range parts {
		if err := enc.Encode(p); err != nil {
			return "", fmt.Errorf("fingerprint %s part %d: %w", kind, i, err)
		}
	}
	return fmt.Sprintf("%s-%016x", kind, d.Sum64()), nil
}

// Tiered reads from the first store that has the key and writes to all of them.
type Tiered []Store

// Get returns the value from the first store holding it, and copies it into the stores before.
func (t Tiered) Get(ctx context.Context, key string) ([]byte, error) {
	for i, s := range t {
		v, err := s.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, front := range t[:i] {
			if err := front.Set(ctx, key, v); err != nil {
				return nil, err
			}
		}
		return v, nil
	}
	return nil, ErrNotFound
}

// Set writes the value in every store.
func (t Tiered) Set(ctx context.Context, key string, value []byte) error {
	var errs []error
	for _, s := range t {
		if err := s.Set(ctx, key, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every store.
func (t Tiered) Close() error {
	var errs []error
	for _, s := range t {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
