package document

import (
	"reflect"
	"testing"
)

// Parse → Marshal → Parse must preserve every field value, for both kinds.
// Byte identity is not required and not asserted.
func TestRoundTrip(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		src  string
		kind Kind
	}{
		{"capability", capabilityDoc, KindCapability},
		{"enabler", enablerDoc, KindEnabler},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			first, err := Parse([]byte(tc.src), tc.kind)
			if err != nil {
				t.Fatalf("first Parse: %v", err)
			}

			out, err := Marshal(first)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}

			second, err := Parse(out, tc.kind)
			if err != nil {
				t.Fatalf("second Parse: %v\nmarshaled:\n%s", err, out)
			}

			if !reflect.DeepEqual(first, second) {
				t.Errorf("round-trip changed the document\nfirst:  %+v\nsecond: %+v\nmarshaled:\n%s", first, second, out)
			}
		})
	}
}

func TestRoundTrip_PipeInCell(t *testing.T) {
	t.Parallel()
	doc := &Document{
		Kind:  KindEnabler,
		Title: "Escaping",
		Name:  "Escaping",
		FunctionalRequirements: []Requirement{
			{ID: "FR-100000001", Name: "supports a|b syntax", Type: "Functional", Approval: ApprovalNotApproved},
		},
	}

	out, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Parse(out, KindEnabler)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := back.FunctionalRequirements[0].Name; got != "supports a|b syntax" {
		t.Errorf("Name = %q after round-trip", got)
	}
}

func TestRoundTrip_PipeInMetadataValue(t *testing.T) {
	t.Parallel()
	doc := &Document{
		Kind:  KindCapability,
		Title: "Routing",
		Name:  "ingress|egress routing",
		Owner: `team a\b`,
	}

	out, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Parse(out, KindCapability)
	if err != nil {
		t.Fatalf("Parse: %v\n%s", err, out)
	}
	if back.Name != "ingress|egress routing" {
		t.Errorf("Name = %q after round-trip", back.Name)
	}
	if back.Owner != `team a\b` {
		t.Errorf("Owner = %q after round-trip", back.Owner)
	}
}

func TestRoundTrip_BackslashPipeInCell(t *testing.T) {
	t.Parallel()
	doc := &Document{
		Kind:  KindEnabler,
		Title: "Escaping",
		Name:  "Escaping",
		FunctionalRequirements: []Requirement{
			{ID: "FR-100000001", Name: `uses a\|b literally`, Type: "Functional", Approval: ApprovalNotApproved},
			{ID: "FR-100000002", Name: `trailing backslash \`, Type: "Functional", Approval: ApprovalNotApproved},
		},
	}

	out, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Parse(out, KindEnabler)
	if err != nil {
		t.Fatalf("Parse: %v\n%s", err, out)
	}
	if got := back.FunctionalRequirements[0].Name; got != `uses a\|b literally` {
		t.Errorf("Name = %q after round-trip", got)
	}
	if got := back.FunctionalRequirements[1].Name; got != `trailing backslash \` {
		t.Errorf("Name = %q after round-trip", got)
	}
}

func TestRoundTrip_ExtraMetadataAndPreamble(t *testing.T) {
	t.Parallel()
	src := "# T\n\nIntro paragraph before any section.\n\n## Metadata\n- **Name**: T\n- **Type**: Capability\n- **Review Gate**: Manual\n\n## Notes\nBody text.\n"
	first, err := Parse([]byte(src), KindCapability)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out, err := Marshal(first)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	second, err := Parse(out, KindCapability)
	if err != nil {
		t.Fatalf("re-Parse: %v\n%s", err, out)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("round-trip changed the document\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
