// Package editor coordinates loading, editing, and saving one Anvil
// document: mode switching between the structured form and raw markdown,
// save-time validation, rename detection, and the journaled multi-file
// capability move. It talks to the server through the narrow Store
// interface so tests can substitute a fake.
package editor

import (
	"context"
	"fmt"
	"path"
	"sync"

	"github.com/anvilkit/anvil/internal/api"
	"github.com/anvilkit/anvil/internal/document"
	"github.com/anvilkit/anvil/internal/oplog"
	"github.com/anvilkit/anvil/internal/workspace"
)

// Store is the slice of the server API a session needs.
type Store interface {
	GetFile(ctx context.Context, path string) (*api.File, error)
	SaveFile(ctx context.Context, path, content string) error
	RenameFile(ctx context.Context, oldPath, newPath string) error
	SaveCapabilityWithEnablers(ctx context.Context, path string, req api.CapabilitySaveRequest) error
	SaveEnablerWithReparenting(ctx context.Context, path string, req api.EnablerSaveRequest) error
	ListCapabilitiesWithDependencies(ctx context.Context) ([]api.CapabilityDetail, error)
}

// Mode selects which representation the session is editing.
type Mode string

const (
	// ModeStructured edits the parsed Document.
	ModeStructured Mode = "structured"
	// ModeRaw edits the markdown text directly.
	ModeRaw Mode = "raw"
)

// Phase is the session lifecycle state.
type Phase string

const (
	PhaseEmpty   Phase = "empty"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseSaving  Phase = "saving"
)

// Config wires a session's collaborators. Journal and Prefs are optional.
type Config struct {
	Store       Store
	Journal     *oplog.Journal
	Prefs       *workspace.Prefs
	PrefsPath   string
	WorkspaceID string
}

// Session edits one document. It is not safe for concurrent use, with one
// exception: the saving gate, which turns an overlapping Save into
// ErrSaveInProgress instead of a double submit.
type Session struct {
	cfg Config

	mu    sync.Mutex
	phase Phase

	mode Mode
	kind document.Kind
	path string
	doc  *document.Document
	raw  string

	// capabilityID as loaded, for reparent detection on save.
	loadedCapabilityID string
	targetDir          string
}

// NewSession returns an empty session.
func NewSession(cfg Config) *Session {
	return &Session{cfg: cfg, phase: PhaseEmpty, mode: ModeStructured}
}

// Load fetches and parses the document at the given server path. A fetch or
// parse failure leaves the session empty; the caller reports the error and
// abandons the edit.
func (s *Session) Load(ctx context.Context, filePath string, kind document.Kind) error {
	s.setPhase(PhaseLoading)

	f, err := s.cfg.Store.GetFile(ctx, filePath)
	if err != nil {
		s.setPhase(PhaseEmpty)
		return err
	}
	doc, err := document.Parse([]byte(f.Content), kind)
	if err != nil {
		s.setPhase(PhaseEmpty)
		return fmt.Errorf("parsing %s: %w", filePath, err)
	}

	s.path = filePath
	s.kind = kind
	s.doc = doc
	s.raw = f.Content
	s.mode = ModeStructured
	s.loadedCapabilityID = doc.CapabilityID
	s.setPhase(PhaseReady)

	s.cfg.Journal.Record(oplog.Event{Kind: oplog.KindLoad, Path: filePath, Workspace: s.cfg.WorkspaceID})
	return nil
}

// NewDocument starts a session for a document that has never been saved.
// SetTargetDir chooses where the first save lands.
func (s *Session) NewDocument(doc *document.Document) {
	s.path = ""
	s.kind = doc.Kind
	s.doc = doc
	s.raw = ""
	s.mode = ModeStructured
	s.loadedCapabilityID = ""
	s.setPhase(PhaseReady)
}

// Mode returns the current editing mode.
func (s *Session) Mode() Mode { return s.mode }

// Phase returns the lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Path returns the document's current server path ("" for a new document).
func (s *Session) Path() string { return s.path }

// Document returns the structured document. In raw mode it reflects the
// state as of the last successful parse, not unparsed raw edits.
func (s *Session) Document() *document.Document { return s.doc }

// Raw returns the markdown buffer.
func (s *Session) Raw() string { return s.raw }

// SetRaw replaces the markdown buffer. Meaningful in raw mode only.
func (s *Session) SetRaw(text string) { s.raw = text }

// SetTargetDir selects the directory the next save writes into. For an
// existing capability, choosing a directory other than the current one
// turns the save into a move.
func (s *Session) SetTargetDir(dir string) { s.targetDir = dir }

// StickySaveDir returns the workspace's remembered save directory, or "".
func (s *Session) StickySaveDir() string {
	if s.cfg.Prefs == nil {
		return ""
	}
	return s.cfg.Prefs.SaveDir(s.cfg.WorkspaceID)
}

// SwitchMode toggles between structured and raw editing. Leaving raw mode
// parses the buffer first; on failure the switch is aborted — the session
// stays in raw mode so no edit is lost — and the parse error is returned.
func (s *Session) SwitchMode() error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	switch s.mode {
	case ModeStructured:
		data, err := document.Marshal(s.doc)
		if err != nil {
			return err
		}
		s.raw = string(data)
		s.mode = ModeRaw
	case ModeRaw:
		doc, err := document.Parse([]byte(s.raw), s.kind)
		if err != nil {
			return fmt.Errorf("cannot leave raw mode: %w", err)
		}
		s.doc = doc
		s.mode = ModeStructured
	}
	return nil
}

// SaveResult describes where a save landed and what it did along the way.
type SaveResult struct {
	Path    string      // the document's path after any rename or move
	Renamed bool        // the filename or directory changed
	Move    *MoveReport // non-nil for a capability directory move
}

// Save validates, persists, and — when the title or target directory
// changed — renames or moves the document. Validation failures return
// before any persistence call is made. A capability move is best-effort
// per child file; see MoveReport.
func (s *Session) Save(ctx context.Context) (*SaveResult, error) {
	s.mu.Lock()
	switch s.phase {
	case PhaseSaving:
		s.mu.Unlock()
		return nil, ErrSaveInProgress
	case PhaseReady:
	default:
		s.mu.Unlock()
		return nil, ErrNotLoaded
	}
	s.phase = PhaseSaving
	s.mu.Unlock()
	defer s.setPhase(PhaseReady)

	doc := s.doc
	if s.mode == ModeRaw {
		parsed, err := document.Parse([]byte(s.raw), s.kind)
		if err != nil {
			s.journalValidation(err)
			return nil, fmt.Errorf("cannot save raw edits: %w", err)
		}
		doc = parsed
	}

	if s.kind == document.KindEnabler && doc.CapabilityID == "" {
		s.journalValidation(ErrNoParentCapability)
		return nil, ErrNoParentCapability
	}
	isNew := s.path == ""
	if isNew && s.targetDir == "" {
		s.journalValidation(ErrNoTargetDir)
		return nil, ErrNoTargetDir
	}

	filename := Filename(doc)
	savePath := s.path
	if isNew {
		savePath = path.Join(s.targetDir, filename)
	}

	content := s.raw
	if s.mode == ModeStructured {
		data, err := document.Marshal(doc)
		if err != nil {
			return nil, err
		}
		content = string(data)
	}

	if err := s.persist(ctx, savePath, content, doc); err != nil {
		return nil, err
	}

	result := &SaveResult{Path: savePath}
	if !isNew {
		if err := s.followUpRename(ctx, savePath, filename, doc, result); err != nil {
			return nil, err
		}
	}

	s.stickSaveDir(path.Dir(result.Path))

	s.doc = doc
	s.path = result.Path
	s.loadedCapabilityID = doc.CapabilityID
	s.cfg.Journal.Record(oplog.Event{Kind: oplog.KindSave, Path: result.Path, Workspace: s.cfg.WorkspaceID})
	return result, nil
}

// persist issues the single REST call appropriate for the document kind
// and mode: compound saves for structured documents, a plain file write for
// raw markdown.
func (s *Session) persist(ctx context.Context, savePath, content string, doc *document.Document) error {
	switch {
	case s.mode == ModeRaw:
		return s.cfg.Store.SaveFile(ctx, savePath, content)
	case s.kind == document.KindCapability:
		return s.cfg.Store.SaveCapabilityWithEnablers(ctx, savePath, api.CapabilitySaveRequest{Content: content})
	default:
		req := api.EnablerSaveRequest{Content: content, CapabilityID: doc.CapabilityID}
		if s.loadedCapabilityID != "" && s.loadedCapabilityID != doc.CapabilityID {
			req.PreviousCapabilityID = s.loadedCapabilityID
		}
		return s.cfg.Store.SaveEnablerWithReparenting(ctx, savePath, req)
	}
}

// followUpRename applies the rename or directory move implied by the new
// filename and target directory.
func (s *Session) followUpRename(ctx context.Context, savePath, filename string, doc *document.Document, result *SaveResult) error {
	oldDir := path.Dir(savePath)
	renamed := filename != path.Base(savePath)
	moved := s.kind == document.KindCapability && s.targetDir != "" && s.targetDir != oldDir
	if !renamed && !moved {
		return nil
	}

	newDir := oldDir
	if moved {
		newDir = s.targetDir
	}
	newPath := path.Join(newDir, filename)

	if moved {
		mover := &Mover{Store: s.cfg.Store, Journal: s.cfg.Journal}
		plan, err := mover.Plan(ctx, savePath, doc.ID, newDir)
		if err != nil {
			return err
		}
		plan.Capability.To = newPath // the rename may also change the filename
		report, err := mover.Execute(ctx, plan)
		if err != nil {
			return err
		}
		result.Move = report
		result.Path = report.CapabilityPath
		result.Renamed = true
		return nil
	}

	if err := s.cfg.Store.RenameFile(ctx, savePath, newPath); err != nil {
		return err
	}
	s.cfg.Journal.Record(oplog.Event{Kind: oplog.KindRename, Path: savePath, Data: map[string]string{"to": newPath}})
	result.Path = newPath
	result.Renamed = true
	return nil
}

// stickSaveDir records the directory as the workspace's sticky preference.
// Preference persistence is best-effort; a failure never fails the save.
func (s *Session) stickSaveDir(dir string) {
	if s.cfg.Prefs == nil || s.cfg.WorkspaceID == "" || dir == "" || dir == "." {
		return
	}
	s.cfg.Prefs.SetSaveDir(s.cfg.WorkspaceID, dir)
	if s.cfg.PrefsPath != "" {
		if err := workspace.SavePrefs(s.cfg.PrefsPath, s.cfg.Prefs); err != nil {
			s.cfg.Journal.Record(oplog.Event{Kind: oplog.KindValidationFailed, Data: map[string]string{"prefs": err.Error()}})
		}
	}
}

func (s *Session) journalValidation(err error) {
	s.cfg.Journal.Record(oplog.Event{
		Kind:      oplog.KindValidationFailed,
		Path:      s.path,
		Workspace: s.cfg.WorkspaceID,
		Data:      map[string]string{"error": err.Error()},
	})
}

func (s *Session) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
}
