// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package workspace holds the per-user state of the design workspace: the
// uploaded sketch, the style keywords, the generation result and the last
// error. Every user action is a transition of a small state machine.
package workspace

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"fashiontechx/internal/imaging"
	"fashiontechx/internal/mint"
	"fashiontechx/internal/models"
)

// State is the workspace state.
type State string

const (
	Idle         State = "idle"
	FileSelected State = "fileSelected"
	Generating   State = "generating"
	ResultReady  State = "resultReady"
	Failed       State = "error"
)

// DefaultKeywords pre-fills the keyword field.
const DefaultKeywords = "Bohemian chic, silk, sunset palette, intricate embroidery"

// NewCollectionID selects "create a new collection" in a save request.
const NewCollectionID = "new"

// User-facing messages.
const (
	MsgValidation       = "Please upload a sketch and provide design keywords."
	MsgFileRead         = "Failed to read the uploaded file."
	MsgUnsupportedType  = "Unsupported file type. Please upload a PNG, JPEG or WEBP image."
	MsgTooLarge         = "The file is too large. The maximum size is 10 MiB."
	MsgTooManyPixels    = "The image dimensions are too large. Please upload a smaller sketch."
	MsgSelectCollection = "Please select or create a collection."
	MsgLookName         = "Please give the look a name."
)

var (
	// ErrBusy is returned for actions that are disabled while generating.
	ErrBusy = errors.New("generation in progress")

	// ErrValidation is returned when required input is missing.
	ErrValidation = errors.New("validation failed")

	// ErrNoResult is returned by actions that need a generation result.
	ErrNoResult = errors.New("no generated assets")

	// ErrDiscarded is returned by Generate and Mint when the workspace was
	// cleared or its result replaced before the call finished.
	ErrDiscarded = errors.New("result discarded")
)

// Generator produces the asset bundle for a sketch.
type Generator interface {
	Generate(ctx context.Context, image []byte, mimeType, keywords string) (*models.GeneratedAssetData, error)
}

// Collections is the part of the collection service used when saving.
type Collections interface {
	Create(ctx context.Context, name string) (*models.Collection, error)
	AddLook(ctx context.Context, collectionID string, data models.GeneratedAssetData, lookName, originalSketch, prompt string) (*models.Look, error)
}

// File is the selected sketch.
type File struct {
	Name     string `json:"name"`
	MIMEType string `json:"mimeType"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Data     []byte `json:"-"`
}

// Workspace is safe for concurrent use. The lock is released while a
// generation batch runs, so the state can be observed as Generating.
type Workspace struct {
	mu       sync.Mutex
	state    State
	file     *File
	keywords string
	result   *models.GeneratedAssetData
	errMsg   string
	// epoch changes on every transition that invalidates an in-flight batch.
	epoch uint64
	mint  mint.Dialog
}

// New returns an idle workspace with the default keywords.
func New() *Workspace {
	return &Workspace{state: Idle, keywords: DefaultKeywords}
}

// View is a point-in-time copy of the workspace.
type View struct {
	State    State                      `json:"state"`
	File     *File                      `json:"file,omitempty"`
	Sketch   string                     `json:"sketch,omitempty"`
	Keywords string                     `json:"keywords"`
	Result   *models.GeneratedAssetData `json:"result,omitempty"`
	Error    string                     `json:"error,omitempty"`
	Mint     mint.Status                `json:"mint"`
}

// View returns the current state.
func (w *Workspace) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	v := View{
		State:    w.state,
		Keywords: w.keywords,
		Error:    w.errMsg,
		Mint:     w.mint.Status(),
	}
	if w.file != nil {
		f := *w.file
		v.File = &f
		v.Sketch = base64.StdEncoding.EncodeToString(w.file.Data)
	}
	if w.result != nil {
		r := w.result.Clone()
		v.Result = &r
	}
	return v
}

// Result returns a copy of the current result, or ErrNoResult.
func (w *Workspace) Result() (*models.GeneratedAssetData, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.result == nil {
		return nil, ErrNoResult
	}
	r := w.result.Clone()
	return &r, nil
}

// SelectFile replaces the sketch. The previous result and error are
// cleared. An unreadable or unsupported file moves the workspace to the
// error state with no file selected.
func (w *Workspace) SelectFile(name string, r io.Reader) error {
	sketch, decodeErr := imaging.DecodeSketch(name, r)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == Generating {
		return ErrBusy
	}

	w.epoch++
	w.result = nil
	w.errMsg = ""
	w.resetMint()

	if decodeErr != nil {
		w.file = nil
		w.state = Failed
		w.errMsg = fileErrorMessage(decodeErr)
		return decodeErr
	}

	w.file = &File{
		Name:     sketch.Name,
		MIMEType: sketch.MIMEType,
		Width:    sketch.Width,
		Height:   sketch.Height,
		Data:     sketch.Data,
	}
	w.state = FileSelected
	return nil
}

func fileErrorMessage(err error) string {
	switch {
	case errors.Is(err, imaging.ErrUnsupportedType):
		return MsgUnsupportedType
	case errors.Is(err, imaging.ErrTooLarge):
		return MsgTooLarge
	case errors.Is(err, imaging.ErrTooManyPixels):
		return MsgTooManyPixels
	}
	return MsgFileRead
}

// SetKeywords replaces the style keywords. It does not change the state.
func (w *Workspace) SetKeywords(s string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.keywords = s
}

// Generate runs gen on the current sketch and keywords. On success the
// workspace holds the result; on failure it moves to the error state with
// the provider's message and no result.
func (w *Workspace) Generate(ctx context.Context, gen Generator) (*models.GeneratedAssetData, error) {
	w.mu.Lock()
	if w.state == Generating {
		w.mu.Unlock()
		return nil, ErrBusy
	}
	if w.file == nil || strings.TrimSpace(w.keywords) == "" {
		w.state = Failed
		w.errMsg = MsgValidation
		w.result = nil
		w.resetMint()
		w.mu.Unlock()
		return nil, ErrValidation
	}

	w.epoch++
	epoch := w.epoch
	w.state = Generating
	w.errMsg = ""
	w.result = nil
	w.resetMint()
	data, mimeType, keywords := w.file.Data, w.file.MIMEType, w.keywords
	w.mu.Unlock()

	res, err := gen.Generate(ctx, data, mimeType, keywords)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.epoch != epoch {
		return nil, ErrDiscarded
	}
	if err != nil {
		w.state = Failed
		w.errMsg = "Failed to generate assets. " + err.Error()
		return nil, fmt.Errorf("generate: %w", err)
	}

	w.state = ResultReady
	w.result = res
	out := res.Clone()
	return &out, nil
}

// Clear returns to idle from any state. A batch still running will have its
// result dropped. The keywords are kept.
func (w *Workspace) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.epoch++
	w.state = Idle
	w.file = nil
	w.result = nil
	w.errMsg = ""
	w.resetMint()
}

// SaveRequest describes where to save the current result.
type SaveRequest struct {
	LookName          string `json:"lookName"`
	CollectionID      string `json:"collectionId"`
	NewCollectionName string `json:"newCollectionName,omitempty"`
}

// SaveLook stores the current result as a look. CollectionID NewCollectionID
// creates a collection named NewCollectionName first. Failures set the
// error message but keep the result.
func (w *Workspace) SaveLook(ctx context.Context, cols Collections, req SaveRequest) (*models.Look, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.result == nil || w.file == nil {
		return nil, ErrNoResult
	}
	if strings.TrimSpace(req.LookName) == "" {
		w.errMsg = MsgLookName
		return nil, fmt.Errorf("%w: look name is required", ErrValidation)
	}

	collectionID := req.CollectionID
	if collectionID == NewCollectionID && strings.TrimSpace(req.NewCollectionName) != "" {
		c, err := cols.Create(ctx, strings.TrimSpace(req.NewCollectionName))
		if err != nil {
			w.errMsg = "Failed to create collection: " + err.Error()
			return nil, err
		}
		collectionID = c.ID
	}
	if collectionID == "" || collectionID == NewCollectionID {
		w.errMsg = MsgSelectCollection
		return nil, fmt.Errorf("%w: no collection selected", ErrValidation)
	}

	sketch := base64.StdEncoding.EncodeToString(w.file.Data)
	look, err := cols.AddLook(ctx, collectionID, *w.result, strings.TrimSpace(req.LookName), sketch, w.keywords)
	if err != nil {
		w.errMsg = "Failed to save look: " + err.Error()
		return nil, err
	}

	w.errMsg = ""
	return look, nil
}

// Mint lists the selected lookbook image (0-based) with the listing.
func (w *Workspace) Mint(ctx context.Context, m mint.Minter, imageIndex int, l mint.Listing) (*mint.Receipt, error) {
	w.mu.Lock()
	if w.result == nil {
		w.mu.Unlock()
		return nil, ErrNoResult
	}
	if imageIndex < 0 || imageIndex >= len(w.result.Images) {
		w.mu.Unlock()
		return nil, fmt.Errorf("%w: image %d out of range", ErrValidation, imageIndex+1)
	}
	image := w.result.Images[imageIndex]
	mc := w.result.MarketingCopy
	dialog := &w.mint
	w.mu.Unlock()

	receipt, err := dialog.Submit(ctx, m, l, image, mc)
	if errors.Is(err, mint.ErrDiscarded) {
		return nil, fmt.Errorf("%w: %w", ErrDiscarded, err)
	}
	return receipt, err
}

// CloseMint resets the mint dialog.
func (w *Workspace) CloseMint() error {
	return w.mint.Close()
}

// resetMint discards the mint dialog when the result changes, including a
// mint still in flight. Callers hold w.mu.
func (w *Workspace) resetMint() {
	w.mint.Reset()
}
