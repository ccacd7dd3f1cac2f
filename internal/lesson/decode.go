package lesson

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodePlan converts the raw structured-generation payload into a typed
// LessonPlan and enforces the structural invariants. The generative
// service is expected to honor the request schema but is not trusted to:
// a payload that parses as JSON yet violates the plan shape is rejected
// here, and the caller treats that like a parse failure.
func DecodePlan(raw map[string]any) (*LessonPlan, error) {
	if raw == nil {
		return nil, fmt.Errorf("decode lesson plan: nil payload")
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("decode lesson plan: re-marshal: %w", err)
	}
	var plan LessonPlan
	if err := json.Unmarshal(b, &plan); err != nil {
		return nil, fmt.Errorf("decode lesson plan: %w", err)
	}
	normalizePlan(&plan)
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

func normalizePlan(p *LessonPlan) {
	p.Title = strings.TrimSpace(p.Title)
	p.Objective = strings.TrimSpace(p.Objective)
	p.Duration = strings.TrimSpace(p.Duration)
	p.Sport = strings.TrimSpace(p.Sport)
	for pi := range p.Parts {
		part := &p.Parts[pi]
		part.PartTitle = strings.TrimSpace(part.PartTitle)
		part.Description = strings.TrimSpace(part.Description)
		part.Duration = strings.TrimSpace(part.Duration)
		for si := range part.Sections {
			sec := &part.Sections[si]
			sec.SectionTitle = strings.TrimSpace(sec.SectionTitle)
			kept := sec.Content[:0]
			for _, block := range sec.Content {
				block.Text = strings.TrimSpace(block.Text)
				if block.Text == "" {
					continue
				}
				kept = append(kept, block)
			}
			sec.Content = kept
		}
	}
}
