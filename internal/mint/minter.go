// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mint

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// DefaultDelay is how long the simulated transaction takes.
const DefaultDelay = 2500 * time.Millisecond

// Receipt is the outcome of a successful mint.
type Receipt struct {
	Chain       Chain  `json:"blockchain"`
	TxHash      string `json:"transactionHash"`
	ExplorerURL string `json:"explorerUrl"`
}

// Minter lists an item on a chain.
type Minter interface {
	Mint(ctx context.Context, d Details) (*Receipt, error)
}

// SimulatedMinter waits for Delay and returns a random transaction hash.
type SimulatedMinter struct {
	Delay time.Duration
	rand  io.Reader
}

// NewSimulatedMinter returns a minter with the given delay. A zero delay
// means DefaultDelay.
func NewSimulatedMinter(delay time.Duration) *SimulatedMinter {
	if delay == 0 {
		delay = DefaultDelay
	}
	return &SimulatedMinter{Delay: delay, rand: rand.Reader}
}

// Mint implements Minter. It returns ctx.Err() if the context ends before
// the delay elapses.
func (m *SimulatedMinter) Mint(ctx context.Context, d Details) (*Receipt, error) {
	slog.Info("minting", "blockchain", d.Blockchain, "listing_type", d.ListingType,
		"price", d.Price, "starting_bid", d.StartingBid, "duration", d.Duration, "item", d.ItemName)

	if m.Delay > 0 {
		t := time.NewTimer(m.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	src := m.rand
	if src == nil {
		src = rand.Reader
	}
	buf := make([]byte, 32)
	if _, err := io.ReadFull(src, buf); err != nil {
		return nil, fmt.Errorf("mint: transaction hash: %w", err)
	}
	hash := "0x" + hex.EncodeToString(buf)

	return &Receipt{
		Chain:       d.Blockchain,
		TxHash:      hash,
		ExplorerURL: d.Blockchain.ExplorerURL(hash),
	}, nil
}
