package advisor

import (
	"fmt"
	"strings"

	"moyenne-bot/api/internal/gpa"
)

const systemPrompt = `You are an expert academic advisor for Algerian students.`

// BuildPrompt renders the student profile. Only graded subjects are listed,
// by their English name.
func BuildPrompt(req Request) string {
	var perf strings.Builder
	for _, s := range req.Subjects {
		if s.Grade == nil {
			continue
		}
		fmt.Fprintf(&perf, "- %s (Coeff: %s): %s/20\n",
			s.Name.EN, gpa.FormatGrade(s.Coefficient), gpa.FormatGrade(*s.Grade))
	}

	var b strings.Builder
	b.WriteString("Student Profile:\n")
	fmt.Fprintf(&b, "- Level: %s\n", req.LevelName)
	fmt.Fprintf(&b, "- Stream: %s\n", req.StreamName)
	fmt.Fprintf(&b, "- Current GPA: %s/20\n", gpa.Format(req.CurrentAvg))
	fmt.Fprintf(&b, "- Target Goal: %s/20\n\n", gpa.FormatGrade(req.TargetAvg))
	b.WriteString("Subject Breakdown:\n")
	b.WriteString(perf.String())
	fmt.Fprintf(&b, `
Task: Provide a structured analysis and advice in %s language.
1. Analysis: Briefly analyze their strengths and weaknesses based on coefficients and grades.
2. Tips: Give 3-4 specific, actionable study tips to bridge the gap to the target (or maintain it). Focus on high-coefficient subjects.
3. Encouragement: A short motivational closing.

Return the response in JSON format matching this schema:
{
  "analysis": "string",
  "tips": ["string", "string", ...],
  "encouragement": "string"
}`, req.Lang.EnglishName())
	return b.String()
}
