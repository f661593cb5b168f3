package ui

import (
	"html/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// usageNotes is rendered onto the index page.
const usageNotes = `## Input format

One observation per line, as ` + "`<index> <value>`" + ` separated by
whitespace. A line holding a single number is read as a bare value.
Blank lines and lines starting with ` + "`#` or `//`" + ` are skipped.
A decimal comma is accepted (` + "`12,5`" + ` reads as 12.5).

## What you get

One worksheet per sample with descriptive statistics, four normality
tests (Shapiro-Wilk, Pearson chi-square, Kolmogorov-Smirnov,
Romanovsky), three outlier criteria (IQR fence, 3-sigma, Grubbs) and
four charts. Statistics are live formulas: edit the value column in
Excel and everything recomputes.`

// usageNotesHTML converts the notes to HTML once per call; the text is
// tiny and the page is local, so no caching.
func usageNotesHTML() template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	out := markdown.ToHTML([]byte(usageNotes), p, renderer)
	return template.HTML(out)
}
