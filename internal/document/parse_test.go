package document

import (
	"errors"
	"strings"
	"testing"
)

const capabilityDoc = `# Payment Processing

## Metadata
- **Name**: Payment Processing
- **Type**: Capability
- **ID**: CAP-123456789
- **Status**: In Draft
- **Approval**: Not Approved
- **Priority**: High
- **Owner**: Commerce Team
- **System**: Storefront
- **Component**: Checkout

## Technical Overview
### Purpose
Handles card and wallet payments end to end.

### Constraints
PCI scope must stay inside the payment service.

## Enablers
| Enabler ID | Name | Description | Status | Approval | Priority |
|------------|------|-------------|--------|----------|----------|
| ENB-111111111 | Card Vault | Tokenized card storage | In Draft | Not Approved | High |
| ENB-222222222 | Refund Flow | Partial and full refunds | Implemented | Approved | Medium |

## Internal Upstream Dependencies
| Capability ID | Description |
|---------------|-------------|
| CAP-987654321 | Customer identity lookup |

## Internal Downstream Impact
| Capability ID | Description |
|---------------|-------------|
| CAP-555555555 | Order fulfillment kickoff |
`

const enablerDoc = `# Card Vault

## Metadata
- **Name**: Card Vault
- **Type**: Enabler
- **ID**: ENB-111111111
- **Capability ID**: CAP-123456789
- **Description**: Tokenized card storage
- **Status**: In Draft
- **Approval**: Not Approved
- **Priority**: High
- **Owner**: Payments Squad

## Technical Specification
Store only network tokens, never PANs.

## Functional Requirements
| Requirement ID | Name | Type | Approval |
|----------------|------|------|----------|
| FR-100000001 | Tokenize card on first use | Functional | Approved |
| FR-100000002 | Purge tokens on account close | Functional | Not Approved |

## Non-Functional Requirements
| Requirement ID | Name | Type | Approval |
|----------------|------|------|----------|
| NFR-100000001 | Tokenization under 200ms | Performance | Not Approved |
`

func TestParse_Capability(t *testing.T) {
	t.Parallel()
	doc, err := Parse([]byte(capabilityDoc), KindCapability)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if doc.Title != "Payment Processing" {
		t.Errorf("Title = %q", doc.Title)
	}
	if doc.ID != "CAP-123456789" {
		t.Errorf("ID = %q", doc.ID)
	}
	if doc.Status != StatusDraft || doc.Approval != ApprovalNotApproved || doc.Priority != PriorityHigh {
		t.Errorf("metadata = %q/%q/%q", doc.Status, doc.Approval, doc.Priority)
	}
	if doc.System != "Storefront" || doc.Component != "Checkout" {
		t.Errorf("system/component = %q/%q", doc.System, doc.Component)
	}
	if len(doc.Enablers) != 2 {
		t.Fatalf("got %d enabler rows, want 2", len(doc.Enablers))
	}
	if doc.Enablers[1].ID != "ENB-222222222" || doc.Enablers[1].Status != StatusImplemented {
		t.Errorf("enabler row = %+v", doc.Enablers[1])
	}
	if len(doc.InternalUpstream) != 1 || doc.InternalUpstream[0].ID != "CAP-987654321" {
		t.Errorf("upstream = %+v", doc.InternalUpstream)
	}
	if len(doc.InternalDownstream) != 1 || doc.InternalDownstream[0].Description != "Order fulfillment kickoff" {
		t.Errorf("downstream = %+v", doc.InternalDownstream)
	}
	if len(doc.Sections) != 1 || doc.Sections[0].Heading != "Technical Overview" {
		t.Fatalf("sections = %+v", doc.Sections)
	}
	if !strings.Contains(doc.Sections[0].Body, "### Purpose") {
		t.Errorf("narrative body lost H3 content: %q", doc.Sections[0].Body)
	}
}

func TestParse_Enabler(t *testing.T) {
	t.Parallel()
	doc, err := Parse([]byte(enablerDoc), KindEnabler)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if doc.CapabilityID != "CAP-123456789" {
		t.Errorf("CapabilityID = %q", doc.CapabilityID)
	}
	if doc.Description != "Tokenized card storage" {
		t.Errorf("Description = %q", doc.Description)
	}
	if len(doc.FunctionalRequirements) != 2 {
		t.Fatalf("got %d functional requirements, want 2", len(doc.FunctionalRequirements))
	}
	fr := doc.FunctionalRequirements[0]
	if fr.ID != "FR-100000001" || fr.Approval != ApprovalApproved {
		t.Errorf("requirement row = %+v", fr)
	}
	if len(doc.NonFunctionalRequirements) != 1 || doc.NonFunctionalRequirements[0].Type != "Performance" {
		t.Errorf("non-functional = %+v", doc.NonFunctionalRequirements)
	}
}

func TestParse_UnknownMetadataPreserved(t *testing.T) {
	t.Parallel()
	src := "# T\n\n## Metadata\n- **Name**: T\n- **Type**: Capability\n- **Analysis Review**: Required\n"
	doc, err := Parse([]byte(src), KindCapability)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Extra) != 1 || doc.Extra[0].Key != "Analysis Review" || doc.Extra[0].Value != "Required" {
		t.Fatalf("Extra = %+v", doc.Extra)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		src  string
		kind Kind
		want error
		line int
	}{
		{
			name: "missing title",
			src:  "## Metadata\n- **Name**: x\n",
			kind: KindCapability,
			want: ErrMissingTitle,
			line: 1,
		},
		{
			name: "missing metadata section",
			src:  "# T\n\n## Notes\nfree text\n",
			kind: KindCapability,
			want: ErrMissingMetadata,
		},
		{
			name: "malformed metadata bullet",
			src:  "# T\n\n## Metadata\n- Name: missing bold markers\n",
			kind: KindCapability,
			want: ErrBadMetadataLine,
			line: 4,
		},
		{
			name: "table row arity",
			src: "# T\n\n## Metadata\n- **Name**: T\n\n## Functional Requirements\n" +
				"| Requirement ID | Name | Type | Approval |\n|---|---|---|---|\n| FR-100000001 | short row |\n",
			kind: KindEnabler,
			want: ErrBadTableRow,
			line: 9,
		},
		{
			name: "table missing divider",
			src: "# T\n\n## Metadata\n- **Name**: T\n\n## Functional Requirements\n" +
				"| Requirement ID | Name | Type | Approval |\n| FR-1 | a | b | c |\n",
			kind: KindEnabler,
			want: ErrBadTable,
		},
		{
			name: "bad document id",
			src:  "# T\n\n## Metadata\n- **ID**: CAP-12\n",
			kind: KindCapability,
			want: ErrBadID,
		},
		{
			name: "kind mismatch",
			src:  "# T\n\n## Metadata\n- **Type**: Enabler\n",
			kind: KindCapability,
			want: ErrKindMismatch,
		},
		{
			name: "unknown kind",
			src:  "# T\n",
			kind: Kind("widget"),
			want: ErrUnknownKind,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tc.src), tc.kind)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error is not a *ParseError: %T", err)
			}
			if tc.line > 0 && pe.Line != tc.line {
				t.Errorf("Line = %d, want %d (%v)", pe.Line, tc.line, err)
			}
		})
	}
}

func TestSplitRow_EscapedPipe(t *testing.T) {
	t.Parallel()
	cells := splitRow(`| FR-100000001 | uses a \| literally | x | y |`)
	if len(cells) != 4 {
		t.Fatalf("got %d cells: %v", len(cells), cells)
	}
	if cells[1] != "uses a | literally" {
		t.Errorf("cell = %q", cells[1])
	}
}
