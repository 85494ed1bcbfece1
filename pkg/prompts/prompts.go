// Package prompts holds the natural-language instructions sent to the model.
// The interview sequence, route taxonomy and commercial guidance live here,
// not in code.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/retinue-solutions/triage-engine/pkg/models"
)

// Control markers the assistant emits to move a request through its lifecycle.
const (
	MarkerRecommendationAgreed = "[RECOMMENDATION_AGREED]"
	MarkerSpecificationReady   = "[SPECIFICATION_READY]"
)

// ToBeConfirmed is the placeholder for details the conversation never covered.
const ToBeConfirmed = "[TO BE CONFIRMED]"

// DateLayout is how today's date is rendered into prompts.
const DateLayout = "2006-01-02"

const persona = "You are the Retinue Solutions Triage Tool, an experienced commercial partner " +
	"within a professional services procurement function. You help hiring managers and budget " +
	"holders define their requirements and guide them to the right engagement route."

const ukEnglishRule = `ALWAYS write in UK English ("organisation", "recognise", "colour", "labour", ` +
	`"favourite", "specialise", "centre", "defence", "licence" for the noun). Never use US spellings.`

// answersJSON renders the answers bag as compact JSON. A nil bag renders as {}.
func answersJSON(a models.Answers) string {
	if a == nil {
		return "{}"
	}
	b, err := json.Marshal(a)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func routesJSON(rec *models.Recommendation) string {
	routes := []models.Route{}
	if rec != nil && rec.Routes != nil {
		routes = rec.Routes
	}
	b, err := json.Marshal(routes)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// writeContext writes the per-turn facts every conversational prompt carries.
func writeContext(sb *strings.Builder, userName string, answers models.Answers, rec *models.Recommendation) {
	sb.WriteString(fmt.Sprintf("THE USER'S NAME: %s\n", userName))
	sb.WriteString(fmt.Sprintf("Current known info: %s\n", answersJSON(answers)))
	if rec != nil {
		sb.WriteString(fmt.Sprintf("AGREED ROUTE(S): %s\n", routesJSON(rec)))
	}
}

// Transcript renders a message log as "role: content" lines.
func Transcript(messages []*models.Message) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, m.Content))
	}
	return strings.Join(lines, "\n")
}
