package ident

import (
	"regexp"
	"strings"
	"testing"
)

var capPattern = regexp.MustCompile(`^CAP-\d{9}$`)

func TestCapability_Format(t *testing.T) {
	for i := 0; i < 50; i++ {
		id := Capability(nil)
		if !capPattern.MatchString(id) {
			t.Fatalf("Capability(nil) = %q, want match for %v", id, capPattern)
		}
	}
}

func TestPrefixes(t *testing.T) {
	cases := []struct {
		name string
		gen  func([]string) string
		want string
	}{
		{"capability", Capability, "CAP-"},
		{"enabler", Enabler, "ENB-"},
		{"functional", FunctionalRequirement, "FR-"},
		{"non-functional", NonFunctionalRequirement, "NFR-"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id := tc.gen(nil)
			if !strings.HasPrefix(id, tc.want) {
				t.Errorf("got %q, want prefix %q", id, tc.want)
			}
			digits := strings.TrimPrefix(id, tc.want)
			if len(digits) != 9 {
				t.Errorf("got %d digits, want 9 (%q)", len(digits), id)
			}
		})
	}
}

func TestCapability_AvoidsExistingSet(t *testing.T) {
	var existing []string
	for i := 0; i < 200; i++ {
		id := Capability(existing)
		for _, prev := range existing {
			if id == prev {
				t.Fatalf("Capability returned %q, already in existing set", id)
			}
		}
		existing = append(existing, id)
	}
}

// Two calls in the same millisecond may legitimately return different ids
// because of the random component. The contract is uniqueness against the
// supplied set only, so with an empty set any well-formed id is acceptable.
func TestCapability_SameMillisecond(t *testing.T) {
	restore := nowMilli
	defer func() { nowMilli = restore }()

	frozen := int64(1700000001234)
	nowMilli = func() int64 { return frozen }

	a := Capability(nil)
	b := Capability(nil)
	if !capPattern.MatchString(a) || !capPattern.MatchString(b) {
		t.Fatalf("malformed ids: %q, %q", a, b)
	}
}

func TestGenerate_RetriesOnCollision(t *testing.T) {
	restoreNow, restoreRand := nowMilli, randPart
	defer func() { nowMilli, randPart = restoreNow, restoreRand }()

	// Deterministic random part; the clock advances by one millisecond per
	// read so the busy-wait terminates and each attempt produces a new id.
	var ms int64 = 1000
	nowMilli = func() int64 { ms++; return ms }
	randPart = func() int64 { return 54321 }

	first := generate(PrefixCapability, nil)
	second := generate(PrefixCapability, []string{first})
	if second == first {
		t.Fatalf("generate returned colliding id %q", second)
	}
	if !capPattern.MatchString(second) {
		t.Fatalf("retry produced malformed id %q", second)
	}
}

func TestGenerate_FallbackScan(t *testing.T) {
	restoreNow, restoreRand := nowMilli, randPart
	defer func() { nowMilli, randPart = restoreNow, restoreRand }()

	// Pin the timestamp digits (always a multiple of 10000, so the last
	// four digits stay zero) and the random part, so every timestamp-based
	// attempt yields the same id and the retry budget is exhausted.
	var ms int64
	nowMilli = func() int64 { ms += 10000; return ms }
	randPart = func() int64 { return 11111 }

	collided := generate(PrefixEnabler, nil)
	existing := []string{collided, "ENB-100000000"}
	id := generate(PrefixEnabler, existing)

	if id == collided {
		t.Fatalf("expected fallback to avoid %q", collided)
	}
	// The fallback scans upward from 100000000 and must skip taken ids.
	if id != "ENB-100000001" {
		t.Fatalf("got %q, want ENB-100000001 from linear scan", id)
	}
}
