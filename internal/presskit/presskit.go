// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package presskit assembles a press kit for a saved look: a Markdown
// document with the look's keywords and marketing copy, and its HTML form.
package presskit

import (
	"fmt"
	"html/template"
	"strings"

	"fashiontechx/internal/markdown"
	"fashiontechx/internal/models"
	"fashiontechx/internal/share"
)

// Markdown returns the press kit document for look.
func Markdown(collectionName string, look *models.Look) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", markdown.Escape(look.Name))
	fmt.Fprintf(&b, "**Collection:** %s  \n", markdown.Escape(collectionName))
	fmt.Fprintf(&b, "**Created:** %s\n\n", look.CreatedAt.Format("2 January 2006"))

	section(&b, "Design keywords", look.Prompt)
	section(&b, "Lookbook description", look.MarketingCopy.LookbookDescription)
	section(&b, "PR pitch", look.MarketingCopy.PRPitch)
	section(&b, "Instagram caption", look.MarketingCopy.InstagramCaption)

	b.WriteString("## Assets\n\n")
	for i := range look.Images {
		fmt.Fprintf(&b, "- Lookbook image %d: `%s`\n", i+1, share.DesignFileName(i+1))
	}
	if look.MoodboardImage != "" {
		fmt.Fprintf(&b, "- Mood board: `%s`\n", share.MoodboardFileName)
	}
	return b.String()
}

func section(b *strings.Builder, title, body string) {
	fmt.Fprintf(b, "## %s\n\n%s\n\n", title, markdown.Escape(strings.TrimSpace(body)))
}

// HTML renders the press kit Markdown as an HTML fragment.
func HTML(collectionName string, look *models.Look) (template.HTML, error) {
	out, err := markdown.ToHTML(Markdown(collectionName, look))
	if err != nil {
		return "", fmt.Errorf("press kit html: %w", err)
	}
	return template.HTML(out), nil
}
