package document

import (
	"regexp"
	"strings"
)

// Canonical section headings and table widths for the template.
const (
	headingMetadata   = "Metadata"
	headingEnablers   = "Enablers"
	headingUpstream   = "Internal Upstream Dependencies"
	headingDownstream = "Internal Downstream Impact"
	headingFunctional = "Functional Requirements"
	headingNonFunc    = "Non-Functional Requirements"

	enablerCols = 6
	depCols     = 2
	reqCols     = 4
)

var (
	idPatterns = map[Kind]*regexp.Regexp{
		KindCapability: regexp.MustCompile(`^CAP-\d{9}$`),
		KindEnabler:    regexp.MustCompile(`^ENB-\d{9}$`),
	}
	metaEntry    = regexp.MustCompile(`^-\s+\*\*(.+?)\*\*\s*:\s*(.*)$`)
	tableDivider = regexp.MustCompile(`^\|(\s*:?-+:?\s*\|)+\s*$`)
)

// Parse converts a markdown file in the fixed Anvil template into a
// Document of the given kind. Template violations (missing title heading,
// malformed metadata entry, table row with the wrong cell count) return a
// *ParseError naming the offending line; nothing is silently dropped.
func Parse(data []byte, kind Kind) (*Document, error) {
	if kind != KindCapability && kind != KindEnabler {
		return nil, &ParseError{Detail: string(kind), Err: ErrUnknownKind}
	}

	doc := &Document{Kind: kind}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i >= len(lines) || !strings.HasPrefix(lines[i], "# ") {
		return nil, &ParseError{Line: i + 1, Err: ErrMissingTitle}
	}
	doc.Title = strings.TrimSpace(strings.TrimPrefix(lines[i], "# "))
	i++

	sections := splitSections(lines, i)

	sawMetadata := false
	for _, sec := range sections {
		var err error
		switch {
		case sec.heading == "":
			// Narrative text between the title and the first H2.
			if body := trimBlankLines(sec.lines); strings.TrimSpace(body) != "" {
				doc.Sections = append(doc.Sections, Section{Body: body})
			}
		case sec.heading == headingMetadata:
			sawMetadata = true
			err = parseMetadata(doc, sec)
		case kind == KindCapability && sec.heading == headingEnablers:
			err = parseEnablerTable(doc, sec)
		case kind == KindCapability && sec.heading == headingUpstream:
			doc.InternalUpstream, err = parseDependencyTable(sec)
		case kind == KindCapability && sec.heading == headingDownstream:
			doc.InternalDownstream, err = parseDependencyTable(sec)
		case kind == KindEnabler && sec.heading == headingFunctional:
			doc.FunctionalRequirements, err = parseRequirementTable(sec)
		case kind == KindEnabler && sec.heading == headingNonFunc:
			doc.NonFunctionalRequirements, err = parseRequirementTable(sec)
		default:
			doc.Sections = append(doc.Sections, Section{
				Heading: sec.heading,
				Body:    trimBlankLines(sec.lines),
			})
		}
		if err != nil {
			return nil, err
		}
	}

	if !sawMetadata {
		return nil, &ParseError{Err: ErrMissingMetadata}
	}
	if doc.ID != "" && !idPatterns[kind].MatchString(doc.ID) {
		return nil, &ParseError{Detail: doc.ID, Err: ErrBadID}
	}
	if doc.CapabilityID != "" && !idPatterns[KindCapability].MatchString(doc.CapabilityID) {
		return nil, &ParseError{Detail: doc.CapabilityID, Err: ErrBadID}
	}

	return doc, nil
}

// rawSection is an H2 section before interpretation. start is the 0-based
// index of the first body line, used to report 1-based line numbers.
type rawSection struct {
	heading string
	start   int
	lines   []string
}

func splitSections(lines []string, from int) []rawSection {
	var sections []rawSection
	cur := rawSection{start: from}
	for i := from; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(line, "## ") && !strings.HasPrefix(line, "###") {
			sections = append(sections, cur)
			cur = rawSection{heading: strings.TrimSpace(line[3:]), start: i + 1}
			continue
		}
		cur.lines = append(cur.lines, line)
	}
	return append(sections, cur)
}

func parseMetadata(doc *Document, sec rawSection) error {
	for idx, line := range sec.lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := metaEntry.FindStringSubmatch(line)
		if m == nil {
			return &ParseError{Line: sec.start + idx + 1, Detail: strings.TrimSpace(line), Err: ErrBadMetadataLine}
		}
		key, value := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		switch {
		case key == "Name":
			doc.Name = value
		case key == "Type":
			if !strings.EqualFold(value, doc.Kind.display()) {
				return &ParseError{Line: sec.start + idx + 1, Detail: value, Err: ErrKindMismatch}
			}
		case key == "ID":
			doc.ID = value
		case key == "Status":
			doc.Status = Status(value)
		case key == "Approval":
			doc.Approval = Approval(value)
		case key == "Priority":
			doc.Priority = Priority(value)
		case key == "Owner":
			doc.Owner = value
		case key == "System" && doc.Kind == KindCapability:
			doc.System = value
		case key == "Component" && doc.Kind == KindCapability:
			doc.Component = value
		case key == "Capability ID" && doc.Kind == KindEnabler:
			doc.CapabilityID = value
		case key == "Description" && doc.Kind == KindEnabler:
			doc.Description = value
		default:
			doc.Extra = append(doc.Extra, MetaField{Key: key, Value: value})
		}
	}
	return nil
}

func parseEnablerTable(doc *Document, sec rawSection) error {
	rows, err := parseTable(sec, enablerCols)
	if err != nil {
		return err
	}
	for _, r := range rows {
		doc.Enablers = append(doc.Enablers, EnablerRef{
			ID:          r[0],
			Name:        r[1],
			Description: r[2],
			Status:      Status(r[3]),
			Approval:    Approval(r[4]),
			Priority:    Priority(r[5]),
		})
	}
	return nil
}

func parseDependencyTable(sec rawSection) ([]Dependency, error) {
	rows, err := parseTable(sec, depCols)
	if err != nil {
		return nil, err
	}
	var deps []Dependency
	for _, r := range rows {
		deps = append(deps, Dependency{ID: r[0], Description: r[1]})
	}
	return deps, nil
}

func parseRequirementTable(sec rawSection) ([]Requirement, error) {
	rows, err := parseTable(sec, reqCols)
	if err != nil {
		return nil, err
	}
	var reqs []Requirement
	for _, r := range rows {
		reqs = append(reqs, Requirement{
			ID:       r[0],
			Name:     r[1],
			Type:     r[2],
			Approval: Approval(r[3]),
		})
	}
	return reqs, nil
}

// parseTable reads a markdown table with exactly want columns. An absent
// table (empty section) yields no rows; any stray content, a missing
// divider, or a row with the wrong cell count is an error.
func parseTable(sec rawSection, want int) ([][]string, error) {
	var rows [][]string
	header := false
	divider := false
	for idx, line := range sec.lines {
		lineNo := sec.start + idx + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "|") {
			return nil, &ParseError{Line: lineNo, Detail: trimmed, Err: ErrBadTable}
		}
		if !header {
			cells := splitRow(trimmed)
			if len(cells) != want {
				return nil, &ParseError{Line: lineNo, Detail: trimmed, Err: ErrBadTable}
			}
			header = true
			continue
		}
		if !divider {
			if !tableDivider.MatchString(trimmed) {
				return nil, &ParseError{Line: lineNo, Detail: trimmed, Err: ErrBadTable}
			}
			divider = true
			continue
		}
		cells := splitRow(trimmed)
		if len(cells) != want {
			return nil, &ParseError{Line: lineNo, Detail: trimmed, Err: ErrBadTableRow}
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// splitRow splits a |-delimited row into trimmed cells. A backslash escapes
// a pipe or another backslash inside a cell; any other backslash sequence
// passes through verbatim.
func splitRow(row string) []string {
	row = strings.TrimPrefix(row, "|")
	row = strings.TrimSuffix(row, "|")

	var cells []string
	var cell strings.Builder
	escaped := false
	for _, r := range row {
		switch {
		case escaped && r == '|':
			cell.WriteRune('|')
			escaped = false
		case escaped && r == '\\':
			cell.WriteRune('\\')
			escaped = false
		case escaped:
			cell.WriteRune('\\')
			cell.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteRune(r)
		}
	}
	if escaped {
		cell.WriteRune('\\')
	}
	return append(cells, strings.TrimSpace(cell.String()))
}

// trimBlankLines joins lines and strips leading and trailing blank lines,
// leaving interior content verbatim.
func trimBlankLines(lines []string) string {
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}
