// Package personalize renders outbound lead messages, optionally enriched
// with passages retrieved from the brochure index. It is a consumer of the
// retrieval service, not part of the indexing pipeline, and must keep
// working when retrieval is unavailable.
package personalize

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/casadesk/brochure-search/internal/core/ports/driving"
	"github.com/casadesk/brochure-search/internal/logger"
)

// Lead holds the structured CRM fields the message template draws on.
type Lead struct {
	Name                    string
	ProjectName             string
	UnitType                string
	MinBudget               float64
	MaxBudget               float64
	LastConversationSummary string
}

// ProjectContext retrieves brochure passages comparing the lead's current
// project with the campaign's target project and joins them into a single
// context string. Retrieval failure degrades to an empty context rather
// than failing the message; the caller proceeds without it.
func ProjectContext(ctx context.Context, retrieval driving.RetrievalService, currentProject, targetProject string) string {
	results, err := retrieval.Query(ctx, fmt.Sprintf("Compare %s and %s", currentProject, targetProject), driving.DefaultTopK)
	if err != nil {
		logger.Warn("Brochure context lookup failed, proceeding without it: %v", err)
		return ""
	}
	if len(results) == 0 {
		return ""
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text
	}
	logger.Debug("Retrieved %d context passages for %s vs %s", len(results), currentProject, targetProject)
	return strings.Join(texts, " ")
}

// RenderMessage builds the personalized subject and body for a lead from
// structured fields and the last conversation summary.
func RenderMessage(lead Lead, targetProject, offerText string) (subject, body string) {
	subject = fmt.Sprintf("%s, a quick update on %s", lead.Name, targetProject)

	project := lead.ProjectName
	if project == "" {
		project = "our properties"
	}
	unit := lead.UnitType
	if unit == "" {
		unit = "your preferred unit"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", lead.Name)
	fmt.Fprintf(&b, "Thanks again for your interest earlier in %s.", project)
	if lead.LastConversationSummary != "" {
		fmt.Fprintf(&b, " Here is a quick recap from our last conversation: %s", lead.LastConversationSummary)
	}
	fmt.Fprintf(&b, "\n\nWe think %s could be a great fit for you based on your preferences (unit: %s, budget: %s - %s).",
		targetProject, unit, formatBudget(lead.MinBudget), formatBudget(lead.MaxBudget))
	if offerText != "" {
		fmt.Fprintf(&b, "\n\nLimited-time offer: %s", offerText)
	}
	b.WriteString("\n\nWould you like to schedule a quick call or a property viewing?")
	b.WriteString(" Happy to share a few options that match your needs.")
	b.WriteString("\n\nBest regards,\nSales Team")

	return subject, b.String()
}

// formatBudget renders a budget figure with thousands separators, or "-"
// when the lead has none recorded.
func formatBudget(amount float64) string {
	if amount <= 0 {
		return "-"
	}
	digits := strconv.FormatInt(int64(amount), 10)

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}
