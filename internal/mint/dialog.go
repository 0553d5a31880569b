// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mint

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fashiontechx/internal/models"
)

// State is the mint dialog state.
type State string

const (
	StateIdle    State = "idle"
	StateMinting State = "minting"
	StateSuccess State = "success"
	StateFailed  State = "failed"
)

var (
	// ErrBusy is returned when the dialog is asked to submit or close while
	// a mint is in flight.
	ErrBusy = errors.New("mint in progress")

	// ErrAlreadyMinted is returned when submitting a dialog that succeeded.
	ErrAlreadyMinted = errors.New("look already minted")

	// ErrDiscarded is returned by Submit when the dialog was reset while the
	// minter ran. The receipt is dropped.
	ErrDiscarded = errors.New("mint discarded")
)

// Dialog tracks one mint attempt for the current result. The zero value is
// an idle dialog.
type Dialog struct {
	mu      sync.Mutex
	state   State
	receipt *Receipt
	err     string
	// round changes on every Reset so a mint in flight can tell it is stale.
	round uint64
}

// Status is a point-in-time view of a Dialog.
type Status struct {
	State   State    `json:"state"`
	Receipt *Receipt `json:"receipt,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Status returns the current dialog state.
func (d *Dialog) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := Status{State: d.state, Receipt: d.receipt, Error: d.err}
	if s.State == "" {
		s.State = StateIdle
	}
	return s
}

// Submit validates the listing and runs the minter. The dialog is locked in
// the minting state until the minter returns.
func (d *Dialog) Submit(ctx context.Context, m Minter, l Listing, image string, mc models.MarketingCopy) (*Receipt, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	switch d.state {
	case StateMinting:
		d.mu.Unlock()
		return nil, ErrBusy
	case StateSuccess:
		d.mu.Unlock()
		return nil, ErrAlreadyMinted
	}
	d.state = StateMinting
	d.err = ""
	round := d.round
	d.mu.Unlock()

	receipt, err := m.Mint(ctx, NewDetails(l, image, mc))

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.round != round {
		return nil, ErrDiscarded
	}
	if err != nil {
		d.state = StateFailed
		d.err = err.Error()
		return nil, fmt.Errorf("mint: %w", err)
	}
	d.state = StateSuccess
	d.receipt = receipt
	return receipt, nil
}

// Close resets the dialog to idle. It fails while a mint is in flight.
func (d *Dialog) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateMinting {
		return ErrBusy
	}
	d.state = StateIdle
	d.receipt = nil
	d.err = ""
	return nil
}

// Reset returns the dialog to idle for a new result. Unlike Close it also
// applies while minting: the running mint finishes with ErrDiscarded.
func (d *Dialog) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.round++
	d.state = StateIdle
	d.receipt = nil
	d.err = ""
}

// Restore sets the dialog from a saved status. A saved minting state cannot
// be resumed and becomes failed.
func (d *Dialog) Restore(s Status) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.state = s.State
	d.receipt = s.Receipt
	d.err = s.Error
	if d.state == StateMinting {
		d.state = StateFailed
		d.err = "mint interrupted"
	}
}
