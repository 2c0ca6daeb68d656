package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aalvaropc/inferix/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func renderResultSummary(t Theme, result domain.AnalysisResult, runID string) string {
	var b strings.Builder

	b.WriteString(t.Title.Render(result.TaskName))
	b.WriteString("\n")
	b.WriteString(t.Subtitle.Render("method: " + result.Method))
	b.WriteString("\n")
	if runID != "" {
		b.WriteString(t.Help.Render("run: " + runID))
		b.WriteString("\n")
	}
	if !result.StartedAt.IsZero() && !result.EndedAt.IsZero() {
		b.WriteString(t.Help.Render("duration: " + result.EndedAt.Sub(result.StartedAt).Round(time.Millisecond).String()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, e := range result.Effects {
		b.WriteString(renderEffectDetails(t, e))
	}

	ok, fail := countEffects(result.Effects)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d pair(s): %d ok, %d failed\n", ok+fail, ok, fail))

	return b.String()
}

func renderEffectDetails(t Theme, e domain.Effect) string {
	var b strings.Builder

	mark := t.OK.Render("✓")
	if e.Failed() {
		mark = t.Fail.Render("✗")
	}
	b.WriteString(mark)
	b.WriteString(" ")
	b.WriteString(e.Treatment)
	b.WriteString(" -> ")
	b.WriteString(e.Outcome)
	b.WriteString("\n")

	if e.Error != nil {
		b.WriteString("    error: ")
		b.WriteString(clampString(e.Error.Message, 100))
		b.WriteString(" (")
		b.WriteString(string(e.Error.Kind))
		b.WriteString(")\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("    estimate: %g\n", *e.Estimate))
	if e.Estimand != nil && len(e.Estimand.Adjustment) > 0 {
		b.WriteString("    adjusted for: ")
		b.WriteString(strings.Join(e.Estimand.Adjustment, ", "))
		b.WriteString("\n")
	}
	if e.Estimand != nil {
		for _, note := range e.Estimand.Notes {
			b.WriteString("    note: ")
			b.WriteString(clampString(note, 100))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func countEffects(effects []domain.Effect) (ok, fail int) {
	for _, e := range effects {
		if e.Failed() {
			fail++
		} else {
			ok++
		}
	}
	return ok, fail
}
