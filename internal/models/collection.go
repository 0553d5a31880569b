// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Look is a saved generation result together with the sketch and keywords
// that produced it. Looks are immutable once created.
type Look struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	CreatedAt      time.Time     `json:"createdAt"`
	OriginalSketch string        `json:"originalSketch"`
	Prompt         string        `json:"prompt"`
	Images         []string      `json:"images"`
	MoodboardImage string        `json:"moodboardImage"`
	MarketingCopy  MarketingCopy `json:"marketingCopy"`
}

// Collection is a named, ordered group of looks, most recent first.
type Collection struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Looks []Look `json:"looks"`
}

// FindLook returns the look with the given ID, or nil.
func (c *Collection) FindLook(id string) *Look {
	for i := range c.Looks {
		if c.Looks[i].ID == id {
			return &c.Looks[i]
		}
	}
	return nil
}

// LookCount returns the number of looks in the collection.
func (c *Collection) LookCount() int {
	return len(c.Looks)
}
