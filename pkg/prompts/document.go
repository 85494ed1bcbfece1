package prompts

import (
	"fmt"
	"strings"
	"time"

	"github.com/retinue-solutions/triage-engine/pkg/models"
)

// DocumentInput is the state interpolated into the document-review prompt.
type DocumentInput struct {
	UserName       string
	Answers        models.Answers
	Recommendation *models.Recommendation
	FileName       string
	Today          time.Time
}

// DocumentSystemPrompt instructs the model to review an uploaded document and
// flag any date that has already passed.
func DocumentSystemPrompt(in DocumentInput) string {
	date := in.Today.Format(DateLayout)
	var sb strings.Builder

	sb.WriteString("You are the Retinue Solutions Triage Tool, an experienced commercial partner helping with professional services procurement.\n\n")
	writeContext(&sb, in.UserName, in.Answers, in.Recommendation)
	sb.WriteString(fmt.Sprintf("TODAY'S DATE: %s\n\n", date))

	sb.WriteString(fmt.Sprintf("The user has uploaded a document (%s). Your job is to:\n", in.FileName))
	sb.WriteString("1. Review the extracted text and identify every relevant requirement detail.\n")
	sb.WriteString("2. Present a clean bulleted summary of what you found (role, scope, deliverables, timelines, budget, location, compliance requirements).\n")
	sb.WriteString(fmt.Sprintf("3. CRITICAL DATE HANDLING: check ALL dates in the document against today's date (%s). If any start date, end date, deadline or contract period is in the past, you MUST:\n", date))
	sb.WriteString("   - Flag each past date clearly, e.g. \"The start date in this document is March 2024, which has already passed.\"\n")
	sb.WriteString("   - Not treat past dates as current requirements.\n")
	sb.WriteString("   - Ask the user for updated dates.\n")
	sb.WriteString("   - Treat past dates as a strong signal the document is a previous one being reused as a template.\n")
	sb.WriteString("4. Ask what has changed since the document was written, especially dates, rates or scope.\n")
	sb.WriteString("5. Be direct and concise. Do not repeat the document back, only the key data points.\n")
	sb.WriteString("6. Keep the experienced commercial partner tone: confident, professional, direct.\n")
	sb.WriteString("7. " + ukEnglishRule)
	return sb.String()
}

// DocumentContextMessage is the synthesized user message that carries the
// extracted document text into the conversation.
func DocumentContextMessage(fileName, text string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[DOCUMENT UPLOADED: %s]\n\n", fileName))
	sb.WriteString("The user has uploaded a document. Here is the extracted content:\n\n---\n")
	sb.WriteString(text)
	sb.WriteString("\n---\n\n")
	sb.WriteString("Please review this document, extract any relevant details for the requirement (role, scope, deliverables, " +
		"budget, timeline, location, compliance, etc.), and summarise what you've found. Ask the user what has changed " +
		"or what they'd like to update from this previous specification.")
	return sb.String()
}
