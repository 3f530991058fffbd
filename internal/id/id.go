// Package id generates prefixed, URL-safe identifiers.
package id

import (
	"fmt"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for catalog entities.
const (
	PrefixBook    = "book"
	PrefixReview  = "review"
	PrefixComment = "comment"
	PrefixClient  = "client"
)

// Generator produces a new identifier for the given prefix.
type Generator func(prefix string) (string, error)

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "book-V1StGXR8_Z5jdHi6B-myT").
//
// Returns an error if the system has insufficient entropy.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// Sequence returns a deterministic Generator yielding prefix-1, prefix-2, ...
// per prefix. Intended for tests and seed data.
func Sequence() Generator {
	var mu sync.Mutex
	counters := make(map[string]int)
	return func(prefix string) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		counters[prefix]++
		return fmt.Sprintf("%s-%d", prefix, counters[prefix]), nil
	}
}
