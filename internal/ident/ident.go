// Package ident generates the nine-digit document identifiers used across
// Anvil documents: CAP- for capabilities, ENB- for enablers, and FR-/NFR-
// for requirement rows. Identifiers combine the current timestamp with a
// random component and are checked against a caller-supplied set of ids
// already in use. There is no cross-process coordination: two concurrent
// clients can still mint the same id, and callers own that risk.
package ident

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Prefixes for each identifier class.
const (
	PrefixCapability    = "CAP"
	PrefixEnabler       = "ENB"
	PrefixFunctional    = "FR"
	PrefixNonFunctional = "NFR"
)

const (
	idDigits    = 9
	maxAttempts = 100
	scanStart   = 100000000
)

// For testing: allow overriding the clock and random source.
var (
	nowMilli = func() int64 { return time.Now().UnixMilli() }
	randPart = func() int64 { return 10000 + rand.Int63n(90000) }
)

// Capability returns a CAP- id not present in existing.
func Capability(existing []string) string {
	return generate(PrefixCapability, existing)
}

// Enabler returns an ENB- id not present in existing.
func Enabler(existing []string) string {
	return generate(PrefixEnabler, existing)
}

// FunctionalRequirement returns an FR- id not present in existing.
func FunctionalRequirement(existing []string) string {
	return generate(PrefixFunctional, existing)
}

// NonFunctionalRequirement returns an NFR- id not present in existing.
func NonFunctionalRequirement(existing []string) string {
	return generate(PrefixNonFunctional, existing)
}

func generate(prefix string, existing []string) string {
	used := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		used[id] = struct{}{}
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		id := prefix + "-" + numericPart(nowMilli())
		if _, taken := used[id]; !taken {
			return id
		}
		// Force the timestamp component to move before retrying.
		spinUntilNextMilli()
	}

	// Timestamp-based generation exhausted (pathological existing set);
	// scan linearly for the first free id instead.
	for n := scanStart; ; n++ {
		id := fmt.Sprintf("%s-%09d", prefix, n)
		if _, taken := used[id]; !taken {
			return id
		}
	}
}

// numericPart multiplies the last four digits of the millisecond timestamp
// by a five-digit random value and formats the product to exactly nine
// digits, padding or truncating from the right.
func numericPart(ms int64) string {
	ts := ms % 10000
	s := fmt.Sprintf("%d", ts*randPart())
	if len(s) > idDigits {
		return s[:idDigits]
	}
	return s + strings.Repeat("0", idDigits-len(s))
}

func spinUntilNextMilli() {
	start := nowMilli()
	for nowMilli() == start {
	}
}
