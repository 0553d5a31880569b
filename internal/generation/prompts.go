// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generation

import (
	"fmt"

	"fashiontechx/internal/ai"
)

// DefaultEvent is the fashion event named in the marketing-copy brief.
const DefaultEvent = "Bengaluru International Fashion Week"

// Slot names identify each of the five provider calls in errors and logs.
const (
	SlotStudio    = "lookbook image 1 (studio)"
	SlotRunway    = "lookbook image 2 (runway)"
	SlotDetail    = "lookbook image 3 (detail)"
	SlotMoodboard = "mood board"
	SlotCopy      = "marketing copy"
)

type imagePrompt struct {
	slot     string
	template string
}

var lookbookPrompts = [...]imagePrompt{
	{SlotStudio, "Generate a photorealistic lookbook image of a fashion design based on the provided sketch. " +
		"The style should reflect these keywords: %s. Use a clean studio background with professional lighting. " +
		"The model should be posing elegantly in a full-body shot."},
	{SlotRunway, "Generate a dynamic, photorealistic action shot of the design based on the sketch, with these keywords: %s. " +
		"The model should be captured as if walking down a runway or a stylish city street."},
	{SlotDetail, "Generate a detailed, artistic close-up shot of the fashion design from the sketch, focusing on fabric texture, " +
		"and intricate details. Keywords: %s. The lighting should be dramatic to highlight the craftsmanship."},
}

const moodboardTemplate = "Create a visually stunning fashion mood board based on the provided sketch and these keywords: %s. " +
	"The mood board should be a collage that includes inspirational images, fabric textures, a color palette, " +
	"and typographic elements that capture the essence of the design's mood."

const copyTemplate = "You are a fashion marketing expert for %s. " +
	"Based on a design described by the keywords '%s', generate marketing assets."

// copySchema declares the three required marketing-copy fields.
var copySchema = ai.Schema{
	Name: "marketing_copy",
	Fields: []ai.Field{
		{Name: "instagramCaption", Description: "An exciting Instagram caption (around 40-60 words) with 3-5 relevant hashtags."},
		{Name: "lookbookDescription", Description: "A professional and evocative lookbook description (around 80-100 words) for the design."},
		{Name: "prPitch", Description: "A short, punchy PR pitch (around 50 words) to send to fashion editors."},
	},
}

func moodboardPrompt(keywords string) string {
	return fmt.Sprintf(moodboardTemplate, keywords)
}

func copyPrompt(event, keywords string) string {
	return fmt.Sprintf(copyTemplate, event, keywords)
}
