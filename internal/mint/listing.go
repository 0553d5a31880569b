// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mint simulates listing a generated look as an NFT. Nothing is
// sent to a blockchain: the Minter interface is the boundary where a real
// wallet integration would plug in.
package mint

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"fashiontechx/internal/models"
)

// Chain is a supported test network.
type Chain string

const (
	Polygon  Chain = "polygon"
	Ethereum Chain = "ethereum"
)

// Currency returns the native token symbol of the chain.
func (c Chain) Currency() string {
	if c == Ethereum {
		return "ETH"
	}
	return "MATIC"
}

// ExplorerURL links to the transaction on the chain's block explorer.
func (c Chain) ExplorerURL(txHash string) string {
	if c == Ethereum {
		return "https://sepolia.etherscan.io/tx/" + txHash
	}
	return "https://mumbai.polygonscan.com/tx/" + txHash
}

// ListingType selects between a fixed price sale and an auction.
type ListingType string

const (
	Fixed   ListingType = "fixed"
	Auction ListingType = "auction"
)

// Listing defaults, as pre-filled in the mint dialog.
const (
	ItemName            = "FashionTechX Look"
	DefaultPrice        = "1.0"
	DefaultStartingBid  = "0.5"
	DefaultDurationDays = 7
)

// ErrInvalidListing wraps every listing validation failure.
var ErrInvalidListing = errors.New("invalid listing")

// Listing is the user's choice in the mint dialog.
type Listing struct {
	Chain        Chain       `json:"blockchain" validate:"required,oneof=polygon ethereum"`
	Type         ListingType `json:"listingType" validate:"required,oneof=fixed auction"`
	Price        string      `json:"price,omitempty" validate:"required_if=Type fixed,omitempty,positive_decimal"`
	StartingBid  string      `json:"startingBid,omitempty" validate:"required_if=Type auction,omitempty,positive_decimal"`
	DurationDays int         `json:"durationDays,omitempty" validate:"required_if=Type auction,omitempty,min=1,max=365"`
}

// DefaultListing returns the dialog's initial values.
func DefaultListing() Listing {
	return Listing{
		Chain:        Polygon,
		Type:         Fixed,
		Price:        DefaultPrice,
		StartingBid:  DefaultStartingBid,
		DurationDays: DefaultDurationDays,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("positive_decimal", func(fl validator.FieldLevel) bool {
		f, err := strconv.ParseFloat(strings.TrimSpace(fl.Field().String()), 64)
		return err == nil && f > 0 && !math.IsInf(f, 0)
	})
	return v
}

// Validate checks the listing. Fields irrelevant to the listing type are
// ignored.
func (l Listing) Validate() error {
	switch l.Type {
	case Fixed:
		l.StartingBid, l.DurationDays = "", 0
	case Auction:
		l.Price = ""
	}

	err := validate.Struct(l)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidListing, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidListing, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	name := jsonName(fe.StructField())
	switch fe.Tag() {
	case "required", "required_if":
		return name + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, fe.Param())
	case "positive_decimal":
		return name + " must be a positive number"
	case "min", "max":
		return fmt.Sprintf("%s must be between 1 and 365", name)
	}
	return name + " is invalid"
}

func jsonName(field string) string {
	switch field {
	case "Chain":
		return "blockchain"
	case "Type":
		return "listingType"
	case "Price":
		return "price"
	case "StartingBid":
		return "startingBid"
	case "DurationDays":
		return "durationDays"
	}
	return field
}

// Details is the full description of the item handed to a Minter.
type Details struct {
	Blockchain  Chain       `json:"blockchain"`
	ListingType ListingType `json:"listingType"`
	Price       string      `json:"price,omitempty"`
	StartingBid string      `json:"startingBid,omitempty"`
	Duration    string      `json:"duration,omitempty"`
	ItemName    string      `json:"itemName"`
	Description string      `json:"description"`
	Image       string      `json:"-"`
}

// NewDetails builds the mint details for image from a validated listing.
// Amounts carry the chain's currency symbol.
func NewDetails(l Listing, image string, mc models.MarketingCopy) Details {
	d := Details{
		Blockchain:  l.Chain,
		ListingType: l.Type,
		ItemName:    ItemName,
		Description: mc.LookbookDescription,
		Image:       image,
	}
	currency := l.Chain.Currency()
	if l.Type == Auction {
		d.StartingBid = strings.TrimSpace(l.StartingBid) + " " + currency
		d.Duration = fmt.Sprintf("%d days", l.DurationDays)
	} else {
		d.Price = strings.TrimSpace(l.Price) + " " + currency
	}
	return d
}
