package prompts

import "github.com/fieldline/coachlab-backend/internal/lesson"

func ObjectSchema(properties map[string]any, required []string) map[string]any {
	if properties == nil {
		properties = map[string]any{}
	}
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

func ArraySchema(items map[string]any, minItems, maxItems int) map[string]any {
	out := map[string]any{
		"type":  "array",
		"items": items,
	}
	if minItems > 0 {
		out["minItems"] = minItems
	}
	if maxItems > 0 {
		out["maxItems"] = maxItems
	}
	return out
}

func StringSchema(minLength int) map[string]any {
	out := map[string]any{"type": "string"}
	if minLength > 0 {
		out["minLength"] = minLength
	}
	return out
}

func IntSchema(min, max int) map[string]any {
	out := map[string]any{"type": "integer"}
	if min != 0 {
		out["minimum"] = min
	}
	if max != 0 {
		out["maximum"] = max
	}
	return out
}

func EnumSchema(values ...string) map[string]any {
	arr := make([]any, 0, len(values))
	for _, v := range values {
		arr = append(arr, v)
	}
	return map[string]any{"type": "string", "enum": arr}
}

// avgWordLength approximates one word as six characters (five letters plus
// a separator) when translating word targets into schema minLength.
const avgWordLength = 6

// LessonPlanSchema builds the response schema for a full lesson plan. All
// array bounds and string floors flow from the Input, which carries the
// detail-level mapping from lesson.Config.Bounds.
func LessonPlanSchema(in Input) map[string]any {
	kinds := lesson.BlockKinds()
	kindNames := make([]string, 0, len(kinds))
	for _, k := range kinds {
		kindNames = append(kindNames, string(k))
	}

	contentBlock := ObjectSchema(map[string]any{
		"type":       EnumSchema(kindNames...),
		"text":       StringSchema(in.MinWords * avgWordLength),
		"level":      IntSchema(1, 4),
		"duration":   map[string]any{"type": "string"},
		"difficulty": EnumSchema("beginner", "intermediate", "advanced", "expert"),
		"intensity":  EnumSchema("low", "moderate", "high", "variable"),
		"focus_area": map[string]any{"type": "string"},
	}, []string{"type", "text"})

	section := ObjectSchema(map[string]any{
		"sectionTitle": StringSchema(1),
		"content":      ArraySchema(contentBlock, in.BlocksMin, in.BlocksMax),
	}, []string{"sectionTitle", "content"})

	part := ObjectSchema(map[string]any{
		"partTitle":   StringSchema(1),
		"description": StringSchema(1),
		"duration":    map[string]any{"type": "string"},
		"sections":    ArraySchema(section, in.SectionsMin, in.SectionsMax),
	}, []string{"partTitle", "description", "duration", "sections"})

	return ObjectSchema(map[string]any{
		"title":     StringSchema(1),
		"objective": StringSchema(1),
		"duration":  map[string]any{"type": "string"},
		"sport":     map[string]any{"type": "string"},
		"level":     EnumSchema("beginner", "intermediate", "advanced"),
		"parts":     ArraySchema(part, in.PartCount, in.PartCount),
	}, []string{"title", "objective", "duration", "sport", "level", "parts"})
}
