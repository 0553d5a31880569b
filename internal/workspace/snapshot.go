// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package workspace

import (
	"fashiontechx/internal/mint"
	"fashiontechx/internal/models"
)

// Snapshot is the serialisable form of a Workspace, used to keep sessions
// in an external store.
type Snapshot struct {
	State    State                      `json:"state"`
	File     *File                      `json:"file,omitempty"`
	Sketch   []byte                     `json:"sketch,omitempty"`
	Keywords string                     `json:"keywords"`
	Result   *models.GeneratedAssetData `json:"result,omitempty"`
	Error    string                     `json:"error,omitempty"`
	Mint     mint.Status                `json:"mint"`
}

// Snapshot captures the workspace.
func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Snapshot{
		State:    w.state,
		Keywords: w.keywords,
		Error:    w.errMsg,
		Mint:     w.mint.Status(),
	}
	if w.file != nil {
		f := *w.file
		s.File = &f
		s.Sketch = w.file.Data
	}
	if w.result != nil {
		r := w.result.Clone()
		s.Result = &r
	}
	return s
}

// Restore rebuilds a workspace from a snapshot. A batch that was running
// when the snapshot was taken cannot be resumed, so Generating restores as
// FileSelected.
func Restore(s Snapshot) *Workspace {
	w := &Workspace{
		state:    s.State,
		keywords: s.Keywords,
		errMsg:   s.Error,
	}
	if s.File != nil && len(s.Sketch) > 0 {
		f := *s.File
		f.Data = s.Sketch
		w.file = &f
	}
	if s.Result != nil {
		r := s.Result.Clone()
		w.result = &r
	}
	w.mint.Restore(s.Mint)

	switch w.state {
	case Idle, FileSelected, ResultReady, Failed:
	case Generating:
		w.state = FileSelected
	default:
		w.state = Idle
	}
	if w.state == FileSelected && w.file == nil {
		w.state = Idle
	}
	if w.state == ResultReady && (w.result == nil || w.file == nil) {
		w.state = Idle
		w.result = nil
	}
	return w
}
