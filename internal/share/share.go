// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package share builds social sharing links, download file names and QR
// codes for generated looks.
package share

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"fashiontechx/internal/models"
)

// MoodboardFileName is the download name of a mood board.
const MoodboardFileName = "fashiontechx-moodboard.png"

// Links holds the share intents for one look.
type Links struct {
	Twitter   string `json:"twitter"`
	Facebook  string `json:"facebook"`
	Pinterest string `json:"pinterest"`
}

// SocialLinks returns the Twitter, Facebook and Pinterest share URLs.
// pageURL is the page being shared; imageURL is the picture pinned on
// Pinterest.
func SocialLinks(pageURL, imageURL string, mc models.MarketingCopy) Links {
	page := encodeComponent(pageURL)
	desc := encodeComponent(mc.LookbookDescription)
	return Links{
		Twitter:   "https://twitter.com/intent/tweet?text=" + encodeComponent(mc.InstagramCaption) + "&url=" + page,
		Facebook:  "https://www.facebook.com/sharer/sharer.php?u=" + page + "&quote=" + desc,
		Pinterest: "https://pinterest.com/pin/create/button/?url=" + page + "&media=" + encodeComponent(imageURL) + "&description=" + desc,
	}
}

// encodeComponent escapes s for use as a single query value, with spaces
// as %20 rather than '+'.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// DesignFileName is the download name of lookbook image n (1-based).
func DesignFileName(n int) string {
	return fmt.Sprintf("fashiontechx-design-%d.png", n)
}

// PressKitFileName is the download name of a look's press kit.
func PressKitFileName(lookName, ext string) string {
	s := Slug(lookName)
	if s == "" {
		s = "look"
	}
	return "fashiontechx-" + s + "-presskit" + ext
}

// QRCode encodes target as a square PNG of the given size in pixels.
func QRCode(target string, size int) ([]byte, error) {
	if target == "" {
		return nil, fmt.Errorf("qr code: empty content")
	}
	png, err := qrcode.Encode(target, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}
	return png, nil
}

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace      = regexp.MustCompile(`\s+`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Slug lower-cases s and reduces it to letters, digits and single hyphens.
// Example: "Sunset Bohemian Dress #2" → "sunset-bohemian-dress-2"
func Slug(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
