package document

import (
	"fmt"
	"strings"
)

// Marshal renders doc into the fixed markdown template. The output is not
// guaranteed to be byte-identical to the source it was parsed from, but
// every field value survives a Parse round-trip.
func Marshal(doc *Document) ([]byte, error) {
	if doc.Kind != KindCapability && doc.Kind != KindEnabler {
		return nil, &ParseError{Detail: string(doc.Kind), Err: ErrUnknownKind}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", doc.Title)

	// Narrative that preceded the first H2 in the source stays ahead of
	// Metadata so it does not merge into another section on re-parse.
	for _, sec := range doc.Sections {
		if sec.Heading == "" {
			b.WriteString(sec.Body)
			b.WriteString("\n\n")
		}
	}

	b.WriteString("## Metadata\n")
	writeMeta(&b, "Name", doc.Name)
	writeMeta(&b, "Type", doc.Kind.display())
	writeMeta(&b, "ID", doc.ID)
	if doc.Kind == KindEnabler {
		writeMeta(&b, "Capability ID", doc.CapabilityID)
		writeMeta(&b, "Description", doc.Description)
	}
	writeMeta(&b, "Status", string(doc.Status))
	writeMeta(&b, "Approval", string(doc.Approval))
	writeMeta(&b, "Priority", string(doc.Priority))
	writeMeta(&b, "Owner", doc.Owner)
	if doc.Kind == KindCapability {
		writeMeta(&b, "System", doc.System)
		writeMeta(&b, "Component", doc.Component)
	}
	for _, f := range doc.Extra {
		writeMeta(&b, f.Key, f.Value)
	}
	b.WriteString("\n")

	for _, sec := range doc.Sections {
		if sec.Heading == "" {
			continue
		}
		fmt.Fprintf(&b, "## %s\n", sec.Heading)
		if sec.Body != "" {
			b.WriteString(sec.Body)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if doc.Kind == KindCapability {
		writeEnablerTable(&b, doc.Enablers)
		writeDependencyTable(&b, headingUpstream, doc.InternalUpstream)
		writeDependencyTable(&b, headingDownstream, doc.InternalDownstream)
	} else {
		writeRequirementTable(&b, headingFunctional, doc.FunctionalRequirements)
		writeRequirementTable(&b, headingNonFunc, doc.NonFunctionalRequirements)
	}

	out := strings.TrimRight(b.String(), "\n") + "\n"
	return []byte(out), nil
}

func writeMeta(b *strings.Builder, key, value string) {
	// Type is always emitted; other keys are omitted when empty.
	if value == "" && key != "Type" {
		return
	}
	// Bullet values run to end of line, so pipes need no escaping here;
	// only newlines would break the entry.
	fmt.Fprintf(b, "- **%s**: %s\n", key, strings.ReplaceAll(value, "\n", " "))
}

func writeEnablerTable(b *strings.Builder, refs []EnablerRef) {
	if len(refs) == 0 {
		return
	}
	rows := make([][]string, len(refs))
	for i, r := range refs {
		rows[i] = []string{r.ID, r.Name, r.Description, string(r.Status), string(r.Approval), string(r.Priority)}
	}
	writeTable(b, headingEnablers, []string{"Enabler ID", "Name", "Description", "Status", "Approval", "Priority"}, rows)
}

func writeDependencyTable(b *strings.Builder, heading string, deps []Dependency) {
	if len(deps) == 0 {
		return
	}
	rows := make([][]string, len(deps))
	for i, d := range deps {
		rows[i] = []string{d.ID, d.Description}
	}
	writeTable(b, heading, []string{"Capability ID", "Description"}, rows)
}

func writeRequirementTable(b *strings.Builder, heading string, reqs []Requirement) {
	if len(reqs) == 0 {
		return
	}
	rows := make([][]string, len(reqs))
	for i, r := range reqs {
		rows[i] = []string{r.ID, r.Name, r.Type, string(r.Approval)}
	}
	writeTable(b, heading, []string{"Requirement ID", "Name", "Type", "Approval"}, rows)
}

func writeTable(b *strings.Builder, heading string, headers []string, rows [][]string) {
	fmt.Fprintf(b, "## %s\n", heading)
	writeRow(b, headers)
	dividers := make([]string, len(headers))
	for i := range dividers {
		dividers[i] = strings.Repeat("-", len(headers[i])+2)
	}
	b.WriteString("|" + strings.Join(dividers, "|") + "|\n")
	for _, row := range rows {
		writeRow(b, row)
	}
	b.WriteString("\n")
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" " + cell(c) + " |")
	}
	b.WriteString("\n")
}

// cell flattens a value to one line and escapes backslashes and pipes so it
// cannot break the surrounding row. Backslashes go first or a literal \|
// would re-escape into an unescaped pipe.
func cell(v string) string {
	v = strings.ReplaceAll(v, "\n", " ")
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, "|", `\|`)
}
