// Package workspace models Anvil workspaces — named collections of project
// roots treated as one context — and the small local preference file that
// remembers per-workspace editor choices between runs.
package workspace

import (
	"encoding/json"
	"fmt"
)

// Workspace groups one or more filesystem roots on the server. Exactly one
// workspace is active at a time; the server enforces that and clients only
// mirror it.
type Workspace struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	ProjectPaths []ProjectPath `json:"projectPaths"`
	IsActive     bool          `json:"isActive"`
	CopySWPlan   bool          `json:"copySwPlan"`
}

// ProjectPath is one filesystem root in a workspace. On the wire it is
// either a bare string or an object with an icon; both forms decode into
// this struct, and encoding picks the smallest form that loses nothing.
type ProjectPath struct {
	Path string `json:"path"`
	Icon string `json:"icon,omitempty"`
}

func (p *ProjectPath) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &p.Path)
	}
	type plain ProjectPath
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding project path: %w", err)
	}
	*p = ProjectPath(v)
	return nil
}

func (p ProjectPath) MarshalJSON() ([]byte, error) {
	if p.Icon == "" {
		return json.Marshal(p.Path)
	}
	type plain ProjectPath
	return json.Marshal(plain(p))
}
