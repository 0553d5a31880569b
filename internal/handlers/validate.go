// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"
)

const (
	maxCollectionNameLen = 200
	maxLookNameLen       = 200
	maxKeywordsLen       = 1_000
	maxShareURLLen       = 2_000
)

// validateCollectionName returns a user-facing message, or "" if valid.
func validateCollectionName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Collection name is required."
	}
	if utf8.RuneCountInString(name) > maxCollectionNameLen {
		return "Collection name is too long (max 200 characters)."
	}
	return ""
}

// validateSaveRequest checks the lengths of a save request. Presence is
// checked by the workspace so its error message is kept on screen.
func validateSaveRequest(lookName, newCollectionName string) string {
	if utf8.RuneCountInString(strings.TrimSpace(lookName)) > maxLookNameLen {
		return "Look name is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(strings.TrimSpace(newCollectionName)) > maxCollectionNameLen {
		return "Collection name is too long (max 200 characters)."
	}
	return ""
}

func validateKeywords(keywords string) string {
	if utf8.RuneCountInString(keywords) > maxKeywordsLen {
		return "Keywords are too long (max 1,000 characters)."
	}
	return ""
}

func validateShareURL(target string) string {
	target = strings.TrimSpace(target)
	if target == "" {
		return "url is required."
	}
	if len(target) > maxShareURLLen {
		return "url is too long (max 2,000 characters)."
	}
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		return "url must start with http:// or https://."
	}
	return ""
}
