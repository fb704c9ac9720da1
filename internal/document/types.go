// Package document models Anvil specification documents — capabilities and
// enablers — and converts them to and from the fixed markdown template the
// server stores on disk. Parse and Marshal are pure: they touch no files and
// hold no state. Round-trips preserve every field value, though not
// necessarily byte-for-byte formatting.
package document

// Kind tags the two document variants. Code downstream switches on Kind
// instead of probing for fields that only one variant carries.
type Kind string

const (
	KindCapability Kind = "capability"
	KindEnabler    Kind = "enabler"
)

// display returns the metadata "Type" value for the kind.
func (k Kind) display() string {
	switch k {
	case KindCapability:
		return "Capability"
	case KindEnabler:
		return "Enabler"
	}
	return string(k)
}

// Status is the lifecycle state recorded in a document's metadata. The
// vocabulary is server-defined; these constants cover the standard set but
// the parser accepts any value.
type Status string

const (
	StatusDraft            Status = "In Draft"
	StatusReadyForAnalysis Status = "Ready for Analysis"
	StatusReadyForDesign   Status = "Ready for Design"
	StatusInImplementation Status = "In Implementation"
	StatusImplemented      Status = "Implemented"
)

// Approval is the review state recorded in a document's metadata.
type Approval string

const (
	ApprovalNotApproved Approval = "Not Approved"
	ApprovalApproved    Approval = "Approved"
)

// Priority is the scheduling weight recorded in a document's metadata.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Requirement is one row of an enabler's functional or non-functional
// requirement table.
type Requirement struct {
	ID       string
	Name     string
	Type     string
	Approval Approval
}

// Dependency is a reference-only edge to another capability; it does not
// imply ownership.
type Dependency struct {
	ID          string
	Description string
}

// EnablerRef is one row of a capability's enabler table: a summary of an
// enabler document that lives in its own file.
type EnablerRef struct {
	ID          string
	Name        string
	Description string
	Status      Status
	Approval    Approval
	Priority    Priority
}

// MetaField preserves a metadata entry the template does not define, so
// unknown keys survive a round-trip instead of being dropped.
type MetaField struct {
	Key   string
	Value string
}

// Section is a free-text narrative section, preserved verbatim in source
// order. Heading is the H2 text without the leading hashes.
type Section struct {
	Heading string
	Body    string
}

// Document is the structured form of one markdown file. Fields marked
// capability-only or enabler-only are zero for the other kind.
type Document struct {
	Kind  Kind
	Title string

	// Metadata.
	ID       string
	Name     string
	Owner    string
	Status   Status
	Approval Approval
	Priority Priority

	// Capability-only metadata.
	System    string
	Component string

	// Enabler-only metadata.
	CapabilityID string
	Description  string

	// Unrecognized metadata entries, in source order.
	Extra []MetaField

	// Capability-only tables.
	Enablers           []EnablerRef
	InternalUpstream   []Dependency
	InternalDownstream []Dependency

	// Enabler-only tables.
	FunctionalRequirements    []Requirement
	NonFunctionalRequirements []Requirement

	// Narrative sections, in source order.
	Sections []Section
}
