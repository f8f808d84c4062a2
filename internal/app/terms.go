package app

import (
	"strings"

	"github.com/zjrosen/signup/internal/log"
	"github.com/zjrosen/signup/internal/ui/markdown"
	"github.com/zjrosen/signup/internal/ui/styles"
)

const termsTitle = "Terms of Service"

const termsMarkdown = `## Using this service

By creating an account you agree to:

- provide a **username** that is yours to use,
- keep your favorite food honest,
- be kind to other people who signed up.

## Your data

The details you enter are sent to the registration service once, when you
press **Submit**. Nothing is stored on this machine.
`

// renderTerms renders the terms overlay at width cells, borders included.
func renderTerms(width int, style string) string {
	inner := max(width-4, 10)
	body := termsMarkdown
	if r, err := markdown.New(inner, style); err != nil {
		log.ErrorErr(log.CatUI, "Terms renderer unavailable", err)
	} else if out, err := r.Render(termsMarkdown); err != nil {
		log.ErrorErr(log.CatUI, "Rendering terms failed", err)
	} else {
		body = out
	}

	lines := strings.Split(body, "\n")
	for i, l := range lines {
		lines[i] = " " + l
	}
	lines = append(lines, "")
	return styles.RenderFormSection(lines, termsTitle, "esc to close", width, true, styles.BorderHighlightFocusColor)
}
