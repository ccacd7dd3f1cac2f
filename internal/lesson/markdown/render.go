// Package markdown renders a lesson plan into a single formatted document.
// Rendering is purely presentational: every content block in the input
// produces visible output, and nothing is reordered or dropped.
package markdown

import (
	"fmt"
	"strings"

	"github.com/fieldline/coachlab-backend/internal/lesson"
)

// boxWidth is the total width of boxed callouts; long lines word-wrap to
// fit inside it.
const boxWidth = 72

// calloutLabels maps the boxed block kinds to their box titles.
var calloutLabels = map[lesson.BlockKind]string{
	lesson.BlockExercise:      "EXERCISE",
	lesson.BlockSafetyNote:    "SAFETY NOTE",
	lesson.BlockTechniqueStep: "TECHNIQUE STEP",
	lesson.BlockCoachingCue:   "COACHING CUE",
	lesson.BlockCommonMistake: "COMMON MISTAKE",
}

// inlineLabels maps the analytic block kinds to a bold inline prefix.
var inlineLabels = map[lesson.BlockKind]string{
	lesson.BlockBiomechanicalAnalysis: "Biomechanics",
	lesson.BlockProgressionDrill:      "Progression",
	lesson.BlockAssessmentCriteria:    "Assessment",
}

// Render converts a plan into one markdown document with a bordered
// header, boxed callouts, and a closing footer.
func Render(plan *lesson.LessonPlan) string {
	var b strings.Builder

	rule := strings.Repeat("=", boxWidth)
	b.WriteString(rule + "\n")
	b.WriteString(center(plan.Title) + "\n")
	b.WriteString(rule + "\n\n")
	if plan.Sport != "" {
		b.WriteString(fmt.Sprintf("**Sport:** %s  \n", plan.Sport))
	}
	if plan.Level != "" {
		b.WriteString(fmt.Sprintf("**Level:** %s  \n", plan.Level))
	}
	if plan.Duration != "" {
		b.WriteString(fmt.Sprintf("**Duration:** %s  \n", plan.Duration))
	}
	if plan.Objective != "" {
		b.WriteString(fmt.Sprintf("\n**Objective:** %s\n", plan.Objective))
	}

	for i, part := range plan.Parts {
		b.WriteString(fmt.Sprintf("\n## Part %d: %s\n", i+1, part.PartTitle))
		if part.Duration != "" {
			b.WriteString(fmt.Sprintf("*%s*\n", part.Duration))
		}
		if part.Description != "" {
			b.WriteString("\n" + part.Description + "\n")
		}
		for _, sec := range part.Sections {
			b.WriteString(fmt.Sprintf("\n### %s\n\n", sec.SectionTitle))
			for _, block := range sec.Content {
				writeBlock(&b, block)
			}
		}
	}

	b.WriteString("\n" + rule + "\n")
	b.WriteString(center("End of Lesson Plan") + "\n")
	b.WriteString(rule + "\n")
	return b.String()
}

func writeBlock(b *strings.Builder, block lesson.ContentBlock) {
	if label, ok := calloutLabels[block.Type]; ok {
		writeBox(b, label, block)
		return
	}
	if label, ok := inlineLabels[block.Type]; ok {
		b.WriteString(fmt.Sprintf("**%s:** %s\n\n", label, block.Text))
		return
	}
	switch block.Type {
	case lesson.BlockHeading:
		depth := block.Level
		if depth < 1 || depth > 4 {
			depth = 2
		}
		// Plan parts use ## and sections ###; headings nest below that.
		b.WriteString(strings.Repeat("#", depth+2) + " " + block.Text + "\n\n")
	case lesson.BlockListItem:
		b.WriteString("- " + block.Text + "\n")
	default:
		// Unrecognized kinds render as plain paragraphs rather than erroring.
		b.WriteString(block.Text + "\n\n")
	}
}

func writeBox(b *strings.Builder, label string, block lesson.ContentBlock) {
	inner := boxWidth - 4 // "| " and " |"

	top := "+-- " + label + " "
	if pad := boxWidth - len(top) - 1; pad > 0 {
		top += strings.Repeat("-", pad)
	}
	top += "+"
	b.WriteString(top + "\n")

	for _, line := range wrap(block.Text, inner) {
		b.WriteString("| " + pad(line, inner) + " |\n")
	}
	if meta := blockMeta(block); meta != "" {
		b.WriteString("| " + pad("", inner) + " |\n")
		for _, line := range wrap(meta, inner) {
			b.WriteString("| " + pad(line, inner) + " |\n")
		}
	}

	b.WriteString("+" + strings.Repeat("-", boxWidth-2) + "+\n\n")
}

func blockMeta(block lesson.ContentBlock) string {
	parts := make([]string, 0, 4)
	if block.Duration != "" {
		parts = append(parts, "Duration: "+block.Duration)
	}
	if block.Difficulty != "" {
		parts = append(parts, "Difficulty: "+string(block.Difficulty))
	}
	if block.Intensity != "" {
		parts = append(parts, "Intensity: "+string(block.Intensity))
	}
	if block.FocusArea != "" {
		parts = append(parts, "Focus: "+block.FocusArea)
	}
	return strings.Join(parts, " | ")
}

// wrap word-wraps text to the given width. Words longer than the width get
// a line of their own rather than being split.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	lines := make([]string, 0, 4)
	cur := words[0]
	for _, w := range words[1:] {
		if len(cur)+1+len(w) <= width {
			cur += " " + w
			continue
		}
		lines = append(lines, cur)
		cur = w
	}
	lines = append(lines, cur)
	return lines
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func center(s string) string {
	if len(s) >= boxWidth {
		return s
	}
	left := (boxWidth - len(s)) / 2
	return strings.Repeat(" ", left) + s
}
