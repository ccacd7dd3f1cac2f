// Package fallback synthesizes a complete lesson plan with no external
// calls. It is the guaranteed-available substitute used when the
// generative service is down or disabled: deterministic for fixed inputs,
// and it never fails.
package fallback

import (
	"fmt"
	"strings"

	"github.com/fieldline/coachlab-backend/internal/lesson"
)

// Generate returns a fully populated plan with exactly lesson.PartCount
// parts. The topic appears verbatim in the title and in content block
// text; detailedInstructions, when supplied, is embedded verbatim in one
// paragraph block labeled as the instructor's own notes.
func Generate(topic, sport string, level lesson.Level, duration, detailedInstructions string) *lesson.LessonPlan {
	topic = strings.TrimSpace(topic)
	sport = strings.TrimSpace(sport)
	duration = strings.TrimSpace(duration)
	if topic == "" {
		topic = "Fundamentals"
	}
	if sport == "" {
		sport = "General Athletics"
	}
	if duration == "" {
		duration = "60 minutes"
	}
	lvl := string(level)
	if lvl == "" {
		lvl = string(lesson.LevelBeginner)
	}

	plan := &lesson.LessonPlan{
		Title:     fmt.Sprintf("%s: %s Session Plan", topic, sport),
		Objective: fmt.Sprintf("Develop %s competence in %s through a structured %s session covering preparation, instruction, deliberate practice, and applied work.", lvl, topic, duration),
		Duration:  duration,
		Sport:     sport,
		Level:     lesson.Level(lvl),
		Parts: []lesson.LessonPart{
			warmUpPart(topic, sport, lvl),
			instructionPart(topic, sport, lvl, detailedInstructions),
			practicePart(topic, sport, lvl),
			applicationPart(topic, sport, lvl),
		},
	}
	return plan
}

func warmUpPart(topic, sport, lvl string) lesson.LessonPart {
	return lesson.LessonPart{
		PartTitle:   "Warm-Up & Preparation",
		Description: fmt.Sprintf("General and specific preparation for today's focus on %s.", topic),
		Duration:    "10 minutes",
		Sections: []lesson.LessonSection{
			{
				SectionTitle: "General Warm-Up",
				Content: []lesson.ContentBlock{
					{Type: lesson.BlockHeading, Text: "Raise, Mobilize, Activate", Level: 2},
					{Type: lesson.BlockParagraph, Text: fmt.Sprintf("Begin with five minutes of light continuous movement appropriate to %s so heart rate and core temperature rise before any technical work on %s begins. The goal is a light sweat, not fatigue.", sport, topic)},
					{Type: lesson.BlockExercise, Text: "Light cardio circuit: two minutes of easy jogging or shadow movement, one minute of jumping jacks, one minute of bodyweight squats, one minute of arm circles and trunk rotations.", Duration: "5 minutes", Intensity: lesson.IntensityLow, Difficulty: lesson.DifficultyBeginner},
					{Type: lesson.BlockCoachingCue, Text: "Breathe through the nose, keep the pace conversational, and shake out any areas that feel stiff before moving on."},
					{Type: lesson.BlockSafetyNote, Text: "Stop and report any sharp or joint-line pain during the warm-up before continuing with the session."},
				},
			},
			{
				SectionTitle: "Specific Preparation",
				Content: []lesson.ContentBlock{
					{Type: lesson.BlockParagraph, Text: fmt.Sprintf("Transition into movements that rehearse the joint angles and positions that %s demands, at reduced speed and load.", topic)},
					{Type: lesson.BlockTechniqueStep, Text: fmt.Sprintf("Walk through the key positions of %s slowly, holding each for two breaths, so the body maps the shapes before speed is added.", topic)},
					{Type: lesson.BlockExercise, Text: fmt.Sprintf("Three rounds of position rehearsal for %s: 30 seconds of slow-motion execution, 30 seconds of rest, focusing on range of motion rather than power.", topic), Duration: "3 minutes", Intensity: lesson.IntensityModerate},
					{Type: lesson.BlockCommonMistake, Text: fmt.Sprintf("Rushing the specific warm-up is the most common error at the %s level; athletes who skip position rehearsal consistently show poorer mechanics in the technical block.", lvl)},
					{Type: lesson.BlockListItem, Text: "Checkpoint: joints feel loose, breathing is controlled, and the key positions are reachable without strain."},
				},
			},
		},
	}
}

func instructionPart(topic, sport, lvl, detailedInstructions string) lesson.LessonPart {
	sec := []lesson.LessonSection{
		{
			SectionTitle: "Concept Introduction",
			Content: []lesson.ContentBlock{
				{Type: lesson.BlockHeading, Text: fmt.Sprintf("Understanding %s", topic), Level: 2},
				{Type: lesson.BlockParagraph, Text: fmt.Sprintf("%s is today's core teaching focus. Explain what the technique accomplishes in %s, when it applies, and what distinguishes correct execution from a near miss at the %s level.", topic, sport, lvl)},
				{Type: lesson.BlockParagraph, Text: "Demonstrate the full movement at normal speed once, then again slowly with narration, so athletes see both the end product and the mechanics that produce it."},
				{Type: lesson.BlockBiomechanicalAnalysis, Text: fmt.Sprintf("Break down the force chain behind %s: where the movement is initiated, how weight shifts through the base of support, and which joints must stay stable while others move.", topic), FocusArea: "kinetic chain"},
				{Type: lesson.BlockCoachingCue, Text: "Slow is smooth, smooth is fast. Earn speed with position first."},
			},
		},
		{
			SectionTitle: "Step-by-Step Breakdown",
			Content: []lesson.ContentBlock{
				{Type: lesson.BlockTechniqueStep, Text: fmt.Sprintf("Step 1 - Setup: establish the starting position for %s, checking base, posture, and grip or contact points before any movement begins.", topic)},
				{Type: lesson.BlockTechniqueStep, Text: "Step 2 - Initiation: begin the movement from the correct segment, letting the larger muscle groups lead and the extremities follow."},
				{Type: lesson.BlockTechniqueStep, Text: "Step 3 - Execution: move through the full range deliberately, keeping the checkpoints from the demonstration in view at all times."},
				{Type: lesson.BlockTechniqueStep, Text: "Step 4 - Finish: complete the movement into a stable end position and hold it long enough to confirm balance and control."},
				{Type: lesson.BlockCommonMistake, Text: fmt.Sprintf("Most %s athletes compress steps two and three into one rushed motion; separate them explicitly until the sequence is automatic.", lvl)},
				{Type: lesson.BlockSafetyNote, Text: "Keep spacing between athletes generous during the breakdown so a lost balance never becomes a collision."},
			},
		},
	}

	if strings.TrimSpace(detailedInstructions) != "" {
		sec = append(sec, lesson.LessonSection{
			SectionTitle: "Instructor's Notes",
			Content: []lesson.ContentBlock{
				{Type: lesson.BlockHeading, Text: "From the Instructor", Level: 3},
				{Type: lesson.BlockParagraph, Text: fmt.Sprintf("The instructor provided the following notes for this session: %s", strings.TrimSpace(detailedInstructions))},
				{Type: lesson.BlockCoachingCue, Text: "Fold these points into every drill that follows; they take precedence over the generic progression."},
			},
		})
	}

	return lesson.LessonPart{
		PartTitle:   "Technical Instruction",
		Description: fmt.Sprintf("Core teaching block for %s with demonstration and guided breakdown.", topic),
		Duration:    "15 minutes",
		Sections:    sec,
	}
}

func practicePart(topic, sport, lvl string) lesson.LessonPart {
	return lesson.LessonPart{
		PartTitle:   "Practice & Drilling",
		Description: fmt.Sprintf("Structured repetition of %s with progressive resistance.", topic),
		Duration:    "20 minutes",
		Sections: []lesson.LessonSection{
			{
				SectionTitle: "Isolation Drills",
				Content: []lesson.ContentBlock{
					{Type: lesson.BlockParagraph, Text: fmt.Sprintf("Drill %s in isolation first: no partner resistance, no time pressure, full attention on the checkpoints from the technical block.", topic)},
					{Type: lesson.BlockExercise, Text: fmt.Sprintf("Solo repetition: 3 sets of 10 controlled repetitions of %s with 45 seconds rest between sets. Quality over count; reset fully between reps.", topic), Duration: "8 minutes", Intensity: lesson.IntensityModerate, Difficulty: lesson.Difficulty(lvl)},
					{Type: lesson.BlockCoachingCue, Text: "Reset to a perfect setup before every repetition. A sloppy start guarantees a sloppy rep."},
					{Type: lesson.BlockProgressionDrill, Text: "Once ten clean repetitions come easily, add speed in the final third of the movement while keeping the setup and initiation slow."},
					{Type: lesson.BlockCommonMistake, Text: "Counting reps instead of judging them; a repetition that misses a checkpoint does not count toward the set."},
				},
			},
			{
				SectionTitle: "Partner & Resisted Work",
				Content: []lesson.ContentBlock{
					{Type: lesson.BlockParagraph, Text: fmt.Sprintf("Add a partner or graded resistance so %s is performed against realistic, progressive interference.", topic)},
					{Type: lesson.BlockExercise, Text: "Partner drill: 4 rounds of 90 seconds, alternating roles. The resisting partner gives 25 percent resistance in round one, 50 percent in round two, and situational resistance thereafter.", Duration: "8 minutes", Intensity: lesson.IntensityHigh},
					{Type: lesson.BlockSafetyNote, Text: "Resistance is cooperative, not competitive. The resisting partner's job is to expose weak checkpoints, not to win the round."},
					{Type: lesson.BlockAssessmentCriteria, Text: fmt.Sprintf("An athlete passes this block when they complete three consecutive resisted repetitions of %s without losing any checkpoint position.", topic)},
					{Type: lesson.BlockListItem, Text: "Rotate partners each round so athletes feel different body types and resistance styles."},
				},
			},
		},
	}
}

func applicationPart(topic, sport, lvl string) lesson.LessonPart {
	return lesson.LessonPart{
		PartTitle:   "Application & Recovery",
		Description: fmt.Sprintf("Live application of %s followed by cool-down and review.", topic),
		Duration:    "15 minutes",
		Sections: []lesson.LessonSection{
			{
				SectionTitle: "Situational Application",
				Content: []lesson.ContentBlock{
					{Type: lesson.BlockParagraph, Text: fmt.Sprintf("Place %s inside realistic %s scenarios so athletes learn to recognize the moment the technique applies, not just how to perform it.", topic, sport)},
					{Type: lesson.BlockExercise, Text: fmt.Sprintf("Scenario rounds: 3 rounds of 2 minutes starting from the position where %s naturally occurs. Score one point for each clean application.", topic), Duration: "8 minutes", Intensity: lesson.IntensityVariable, Difficulty: lesson.Difficulty(lvl)},
					{Type: lesson.BlockCoachingCue, Text: "Hunt the setup, not the finish. Recognition beats speed."},
					{Type: lesson.BlockCommonMistake, Text: "Forcing the technique when the scenario does not offer it; a skipped attempt in the wrong moment is the correct decision."},
				},
			},
			{
				SectionTitle: "Cool-Down & Review",
				Content: []lesson.ContentBlock{
					{Type: lesson.BlockParagraph, Text: "Bring heart rate down with two minutes of easy movement, then stretch the muscle groups the session loaded most heavily, holding each stretch for thirty seconds."},
					{Type: lesson.BlockExercise, Text: "Static stretching sequence covering the primary movers of today's session, one 30-second hold per side per stretch.", Duration: "5 minutes", Intensity: lesson.IntensityLow},
					{Type: lesson.BlockAssessmentCriteria, Text: fmt.Sprintf("Session review: each athlete names the checkpoint of %s they most improved and the one they will focus on next session.", topic)},
					{Type: lesson.BlockSafetyNote, Text: "Flag any pain or tweaks from the session now so they can be managed before the next training day."},
					{Type: lesson.BlockParagraph, Text: fmt.Sprintf("Close by connecting today's work on %s to the broader %s development plan, so athletes leave knowing why the session mattered.", topic, sport)},
				},
			},
		},
	}
}
