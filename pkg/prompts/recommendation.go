package prompts

import (
	"strings"
)

// RecommendationPrompt asks for a fresh recommendation from the transcript.
func RecommendationPrompt(transcript string) string {
	var sb strings.Builder
	sb.WriteString("Based on the following conversation, recommend the best engagement route " +
		"(Independent Contractor, SOW, Agency or Permanent Hire).\n")
	sb.WriteString("Provide a JSON response with:\n")
	sb.WriteString(`{
  "routes": [
    {"type": "sow", "title": "Statement of Work", "description": "...", "pros": [], "cons": [], "matchScore": 90, "priority": "primary"}
  ],
  "summary": "..."
}
`)
	sb.WriteString("Valid route types are independent, sow, agency and permanent. matchScore is 0-100. ")
	sb.WriteString("List the best route first.\n\n")
	sb.WriteString("Conversation:\n")
	sb.WriteString(transcript)
	return sb.String()
}
