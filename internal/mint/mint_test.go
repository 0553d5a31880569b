// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mint

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"fashiontechx/internal/models"
)

var sampleCopy = models.MarketingCopy{
	InstagramCaption:    "caption",
	LookbookDescription: "A flowing silk dress in sunset tones.",
	PRPitch:             "pitch",
}

func TestChain(t *testing.T) {
	tests := []struct {
		chain    Chain
		currency string
		explorer string
	}{
		{Polygon, "MATIC", "https://mumbai.polygonscan.com/tx/0xabc"},
		{Ethereum, "ETH", "https://sepolia.etherscan.io/tx/0xabc"},
	}
	for _, tt := range tests {
		if got := tt.chain.Currency(); got != tt.currency {
			t.Errorf("%s Currency = %q, want %q", tt.chain, got, tt.currency)
		}
		if got := tt.chain.ExplorerURL("0xabc"); got != tt.explorer {
			t.Errorf("%s ExplorerURL = %q, want %q", tt.chain, got, tt.explorer)
		}
	}
}

func TestListingValidate(t *testing.T) {
	tests := []struct {
		name    string
		listing Listing
		wantErr string
	}{
		{"default", DefaultListing(), ""},
		{"fixed ethereum", Listing{Chain: Ethereum, Type: Fixed, Price: "0.25"}, ""},
		{"auction", Listing{Chain: Polygon, Type: Auction, StartingBid: "0.5", DurationDays: 3}, ""},
		{"auction ignores bad price", Listing{Chain: Polygon, Type: Auction, Price: "abc", StartingBid: "2", DurationDays: 1}, ""},
		{"unknown chain", Listing{Chain: "solana", Type: Fixed, Price: "1"}, "blockchain must be one of"},
		{"missing chain", Listing{Type: Fixed, Price: "1"}, "blockchain is required"},
		{"unknown type", Listing{Chain: Polygon, Type: "raffle", Price: "1"}, "listingType must be one of"},
		{"fixed without price", Listing{Chain: Polygon, Type: Fixed}, "price is required"},
		{"zero price", Listing{Chain: Polygon, Type: Fixed, Price: "0"}, "price must be a positive number"},
		{"negative price", Listing{Chain: Polygon, Type: Fixed, Price: "-1"}, "price must be a positive number"},
		{"text price", Listing{Chain: Polygon, Type: Fixed, Price: "one"}, "price must be a positive number"},
		{"auction without bid", Listing{Chain: Polygon, Type: Auction, DurationDays: 7}, "startingBid is required"},
		{"auction without duration", Listing{Chain: Polygon, Type: Auction, StartingBid: "1"}, "durationDays is required"},
		{"auction negative duration", Listing{Chain: Polygon, Type: Auction, StartingBid: "1", DurationDays: -2}, "durationDays must be between"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.listing.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidListing) {
				t.Fatalf("err = %v, want ErrInvalidListing", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestNewDetails(t *testing.T) {
	fixed := NewDetails(DefaultListing(), "img", sampleCopy)
	if fixed.Price != "1.0 MATIC" || fixed.StartingBid != "" || fixed.Duration != "" {
		t.Errorf("fixed details = %+v", fixed)
	}
	if fixed.ItemName != ItemName || fixed.Description != sampleCopy.LookbookDescription || fixed.Image != "img" {
		t.Errorf("fixed details = %+v", fixed)
	}

	auction := NewDetails(Listing{Chain: Ethereum, Type: Auction, StartingBid: "0.5", DurationDays: 7}, "img", sampleCopy)
	if auction.StartingBid != "0.5 ETH" || auction.Duration != "7 days" || auction.Price != "" {
		t.Errorf("auction details = %+v", auction)
	}
}

var txHash = regexp.MustCompile(`^0x[0-9a-f]{64}$`)

func TestSimulatedMinter(t *testing.T) {
	m := NewSimulatedMinter(time.Millisecond)

	r, err := m.Mint(context.Background(), NewDetails(Listing{Chain: Ethereum, Type: Fixed, Price: "1"}, "img", sampleCopy))
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if !txHash.MatchString(r.TxHash) {
		t.Errorf("TxHash = %q", r.TxHash)
	}
	if r.Chain != Ethereum || r.ExplorerURL != "https://sepolia.etherscan.io/tx/"+r.TxHash {
		t.Errorf("receipt = %+v", r)
	}

	other, _ := m.Mint(context.Background(), NewDetails(DefaultListing(), "img", sampleCopy))
	if other.TxHash == r.TxHash {
		t.Error("two mints produced the same hash")
	}
}

func TestSimulatedMinter_DefaultDelay(t *testing.T) {
	if m := NewSimulatedMinter(0); m.Delay != DefaultDelay {
		t.Errorf("Delay = %v, want %v", m.Delay, DefaultDelay)
	}
}

func TestSimulatedMinter_Cancelled(t *testing.T) {
	m := NewSimulatedMinter(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Mint(ctx, NewDetails(DefaultListing(), "img", sampleCopy)); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// blockingMinter waits until release is closed.
type blockingMinter struct {
	started chan struct{}
	release chan struct{}
	err     error
}

func (b *blockingMinter) Mint(ctx context.Context, d Details) (*Receipt, error) {
	close(b.started)
	<-b.release
	if b.err != nil {
		return nil, b.err
	}
	return &Receipt{Chain: d.Blockchain, TxHash: "0x1", ExplorerURL: d.Blockchain.ExplorerURL("0x1")}, nil
}

func TestDialog_Lifecycle(t *testing.T) {
	var d Dialog
	if s := d.Status(); s.State != StateIdle {
		t.Fatalf("initial state = %q", s.State)
	}

	m := &blockingMinter{started: make(chan struct{}), release: make(chan struct{})}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := d.Submit(context.Background(), m, DefaultListing(), "img", sampleCopy); err != nil {
			t.Errorf("Submit: %v", err)
		}
	}()
	<-m.started

	if s := d.Status(); s.State != StateMinting {
		t.Errorf("state while minting = %q", s.State)
	}
	if err := d.Close(); !errors.Is(err, ErrBusy) {
		t.Errorf("Close while minting: err = %v, want ErrBusy", err)
	}
	if _, err := d.Submit(context.Background(), m, DefaultListing(), "img", sampleCopy); !errors.Is(err, ErrBusy) {
		t.Errorf("Submit while minting: err = %v, want ErrBusy", err)
	}

	close(m.release)
	wg.Wait()

	s := d.Status()
	if s.State != StateSuccess || s.Receipt == nil || s.Receipt.TxHash != "0x1" {
		t.Errorf("status after mint = %+v", s)
	}
	if _, err := d.Submit(context.Background(), m, DefaultListing(), "img", sampleCopy); !errors.Is(err, ErrAlreadyMinted) {
		t.Errorf("resubmit: err = %v, want ErrAlreadyMinted", err)
	}

	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if s := d.Status(); s.State != StateIdle || s.Receipt != nil {
		t.Errorf("status after close = %+v", s)
	}
}

func TestDialog_ResetWhileMinting(t *testing.T) {
	var d Dialog
	m := &blockingMinter{started: make(chan struct{}), release: make(chan struct{})}

	done := make(chan error, 1)
	go func() {
		_, err := d.Submit(context.Background(), m, DefaultListing(), "img", sampleCopy)
		done <- err
	}()
	<-m.started

	d.Reset()
	if s := d.Status(); s.State != StateIdle {
		t.Errorf("state after reset = %q, want idle", s.State)
	}

	close(m.release)
	if err := <-done; !errors.Is(err, ErrDiscarded) {
		t.Fatalf("err = %v, want ErrDiscarded", err)
	}
	if s := d.Status(); s.State != StateIdle || s.Receipt != nil {
		t.Errorf("status after stale mint = %+v", s)
	}

	if _, err := d.Submit(context.Background(), NewSimulatedMinter(time.Millisecond), DefaultListing(), "img", sampleCopy); err != nil {
		t.Fatalf("Submit after reset: %v", err)
	}
	if s := d.Status(); s.State != StateSuccess {
		t.Errorf("state = %q, want success", s.State)
	}
}

func TestDialog_FailureAllowsRetry(t *testing.T) {
	var d Dialog
	boom := errors.New("wallet rejected")
	m := &blockingMinter{started: make(chan struct{}), release: make(chan struct{}), err: boom}
	close(m.release)

	if _, err := d.Submit(context.Background(), m, DefaultListing(), "img", sampleCopy); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if s := d.Status(); s.State != StateFailed || s.Error == "" {
		t.Errorf("status = %+v", s)
	}

	ok := NewSimulatedMinter(time.Millisecond)
	if _, err := d.Submit(context.Background(), ok, DefaultListing(), "img", sampleCopy); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if s := d.Status(); s.State != StateSuccess {
		t.Errorf("state after retry = %q", s.State)
	}
}

func TestDialog_InvalidListingStaysIdle(t *testing.T) {
	var d Dialog
	_, err := d.Submit(context.Background(), NewSimulatedMinter(time.Millisecond), Listing{Chain: Polygon, Type: Fixed, Price: "0"}, "img", sampleCopy)
	if !errors.Is(err, ErrInvalidListing) {
		t.Fatalf("err = %v, want ErrInvalidListing", err)
	}
	if s := d.Status(); s.State != StateIdle {
		t.Errorf("state = %q, want idle", s.State)
	}
}

func TestDialog_RestoreMinting(t *testing.T) {
	var d Dialog
	d.Restore(Status{State: StateMinting})
	if s := d.Status(); s.State != StateFailed {
		t.Errorf("state = %q, want failed", s.State)
	}
}
