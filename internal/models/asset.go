// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the value objects shared by the generation client,
// the collection service and the HTTP layer. JSON field names follow the
// persisted collection layout, so they are camelCase.
package models

import "strings"

// LookbookImageCount is the number of lookbook shots produced by one
// generation call (studio, runway, detail).
const LookbookImageCount = 3

// MarketingCopy is the text bundle generated alongside the imagery.
type MarketingCopy struct {
	InstagramCaption    string `json:"instagramCaption"`
	LookbookDescription string `json:"lookbookDescription"`
	PRPitch             string `json:"prPitch"`
}

// MissingFields returns the JSON names of the fields that are empty or
// whitespace only.
func (m MarketingCopy) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(m.InstagramCaption) == "" {
		missing = append(missing, "instagramCaption")
	}
	if strings.TrimSpace(m.LookbookDescription) == "" {
		missing = append(missing, "lookbookDescription")
	}
	if strings.TrimSpace(m.PRPitch) == "" {
		missing = append(missing, "prPitch")
	}
	return missing
}

// GeneratedAssetData is the result of one generation call. Images are
// base64-encoded and ordered as the lookbook prompts were issued.
type GeneratedAssetData struct {
	Images         []string      `json:"images"`
	MoodboardImage string        `json:"moodboardImage"`
	MarketingCopy  MarketingCopy `json:"marketingCopy"`
}

// Clone returns a deep copy so callers cannot mutate a stored result
// through a shared images slice.
func (g GeneratedAssetData) Clone() GeneratedAssetData {
	out := g
	if g.Images != nil {
		out.Images = append([]string(nil), g.Images...)
	}
	return out
}
