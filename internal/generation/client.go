// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package generation turns a sketch and a set of style keywords into the
// full asset bundle: three lookbook images, a mood board and marketing copy.
// The five provider calls run concurrently and the bundle is returned only
// when every call succeeded.
package generation

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"fashiontechx/internal/ai"
	"fashiontechx/internal/models"
)

var (
	// ErrInvalidInput is returned before any provider call when the image,
	// its MIME type or the keywords are missing.
	ErrInvalidInput = errors.New("invalid generation input")

	// ErrNoImage means a provider answered an image request without image data.
	ErrNoImage = errors.New("generation failed for this image")

	// ErrCopyMalformed means the marketing copy was not the requested JSON object.
	ErrCopyMalformed = errors.New("marketing copy malformed")

	// ErrCopyIncomplete means at least one marketing copy field was empty.
	ErrCopyIncomplete = errors.New("marketing copy incomplete")
)

// Error reports which of the five calls failed.
type Error struct {
	Slot string
	Err  error
}

func (e *Error) Error() string { return e.Slot + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Client issues the generation batch against a provider.
type Client struct {
	provider ai.Provider
	event    string
}

// Option customises a Client.
type Option func(*Client)

// WithEvent sets the event named in the marketing-copy brief.
func WithEvent(event string) Option {
	return func(c *Client) {
		if event != "" {
			c.event = event
		}
	}
}

// NewClient creates a generation client over provider.
func NewClient(provider ai.Provider, opts ...Option) *Client {
	c := &Client{provider: provider, event: DefaultEvent}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate produces the asset bundle for the sketch. The first failing call
// cancels the others and its error is returned; no partial result is ever
// returned.
func (c *Client) Generate(ctx context.Context, image []byte, mimeType, keywords string) (*models.GeneratedAssetData, error) {
	switch {
	case len(image) == 0:
		return nil, fmt.Errorf("%w: empty image", ErrInvalidInput)
	case mimeType == "":
		return nil, fmt.Errorf("%w: missing image type", ErrInvalidInput)
	case strings.TrimSpace(keywords) == "":
		return nil, fmt.Errorf("%w: missing keywords", ErrInvalidInput)
	}

	start := time.Now()
	provider := c.provider.Name()
	slog.Info("generating assets", "provider", provider, "keywords", keywords)

	reference := &ai.InlineImage{MIMEType: mimeType, Data: image}

	var (
		images    [models.LookbookImageCount]string
		moodboard string
		marketing models.MarketingCopy
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range lookbookPrompts {
		g.Go(func() error {
			img, err := c.image(gctx, p.slot, fmt.Sprintf(p.template, keywords), reference)
			if err != nil {
				return err
			}
			images[i] = img
			return nil
		})
	}
	g.Go(func() error {
		img, err := c.image(gctx, SlotMoodboard, moodboardPrompt(keywords), reference)
		if err != nil {
			return err
		}
		moodboard = img
		return nil
	})
	g.Go(func() error {
		mc, err := c.marketingCopy(gctx, keywords)
		if err != nil {
			return err
		}
		marketing = mc
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("asset generation failed", "provider", provider, "duration", time.Since(start), "error", err)
		return nil, err
	}

	slog.Info("assets generated", "provider", provider, "duration", time.Since(start))

	return &models.GeneratedAssetData{
		Images:         images[:],
		MoodboardImage: moodboard,
		MarketingCopy:  marketing,
	}, nil
}

// image runs one image request and returns the payload as base64.
func (c *Client) image(ctx context.Context, slot, prompt string, reference *ai.InlineImage) (string, error) {
	img, err := c.provider.GenerateImage(ctx, ai.ImageRequest{Prompt: prompt, Reference: reference})
	if errors.Is(err, ai.ErrNoImage) {
		return "", &Error{Slot: slot, Err: ErrNoImage}
	}
	if err != nil {
		return "", &Error{Slot: slot, Err: err}
	}
	if img == nil || len(img.Data) == 0 {
		return "", &Error{Slot: slot, Err: ErrNoImage}
	}
	return base64.StdEncoding.EncodeToString(img.Data), nil
}

func (c *Client) marketingCopy(ctx context.Context, keywords string) (models.MarketingCopy, error) {
	var mc models.MarketingCopy

	text, err := c.provider.GenerateStructured(ctx, ai.TextRequest{
		Prompt: copyPrompt(c.event, keywords),
		Schema: copySchema,
	})
	if err != nil {
		return mc, &Error{Slot: SlotCopy, Err: err}
	}

	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &mc); err != nil {
		return mc, &Error{Slot: SlotCopy, Err: fmt.Errorf("%w: %v", ErrCopyMalformed, err)}
	}
	if missing := mc.MissingFields(); len(missing) > 0 {
		return mc, &Error{Slot: SlotCopy, Err: fmt.Errorf("%w: missing %s", ErrCopyIncomplete, strings.Join(missing, ", "))}
	}
	return mc, nil
}
