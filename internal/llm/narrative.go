package llm

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/mjseo/auditor/internal/model"
)

const narratorSystemPrompt = "You are an expert SEO consultant providing actionable insights."

// Narrator turns a completed audit's findings into an executive summary.
// A terminal language-model failure degrades to a templated summary; it never
// surfaces as an error because narrative text must not fail an audit.
type Narrator struct {
	client Client
	logger *slog.Logger
}

func NewNarrator(client Client, logger *slog.Logger) *Narrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Narrator{client: client, logger: logger}
}

// topPageChars bounds the homepage markdown stored for chat context.
const topPageChars = 8_000

// PageContext converts crawled homepage HTML into prompt-safe markdown for
// later chat turns. Conversion failures degrade to an empty context.
func (n *Narrator) PageContext(rawHTML string) string {
	md, err := PageMarkdown(rawHTML, topPageChars)
	if err != nil {
		n.logger.Warn("page markdown conversion failed", "error", err)
		return ""
	}
	return md
}

// Summary generates the audit's narrative summary.
func (n *Narrator) Summary(ctx context.Context, audit *model.Audit, findings []model.Finding) string {
	prompt := buildSummaryPrompt(audit, findings)
	reply, err := n.client.Complete(ctx, narratorSystemPrompt, []Message{{Role: "user", Content: prompt}})
	if err != nil {
		n.logger.Warn("narrative generation failed, using fallback", "audit_id", audit.ID, "error", err)
		return fallbackSummary(audit, findings)
	}
	return strings.TrimSpace(reply)
}

func buildSummaryPrompt(audit *model.Audit, findings []model.Finding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are analyzing a comprehensive SEO audit of %s.\n\n", audit.WebsiteURL)
	fmt.Fprintf(&b, "Audit Results Summary:\n- Total Checks: %d\n- Failed: %d\n- Warnings: %d\n- Passed: %d\n",
		audit.TotalChecks, audit.ChecksFailed, audit.ChecksWarning, audit.ChecksPassed)
	if audit.OverallScore != nil {
		fmt.Fprintf(&b, "- Overall Score: %.1f/100\n", *audit.OverallScore)
	}

	b.WriteString("\nTop Issues:\n")
	for _, f := range topFailed(findings, 5) {
		detail := f.Cons
		if detail == "" {
			detail = f.CurrentValue
		}
		fmt.Fprintf(&b, "- %s: %s\n", f.CheckName, detail)
	}

	b.WriteString(`
Provide:
1. Executive Summary (2-3 sentences)
2. Top 3 Critical Issues requiring immediate attention
3. Quick Wins (3-5 easy fixes with high impact)
4. Long-term Recommendations
5. Estimated Impact on Rankings

Be specific, actionable, and prioritize by impact.
`)
	return b.String()
}

// fallbackSummary is the templated stand-in used when the language model is
// unavailable.
func fallbackSummary(audit *model.Audit, findings []model.Finding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Audit of %s completed: %d of %d checks passed, %d failed, %d warnings.",
		audit.WebsiteURL, audit.ChecksPassed, audit.TotalChecks, audit.ChecksFailed, audit.ChecksWarning)
	if audit.OverallScore != nil {
		fmt.Fprintf(&b, " Overall score: %.1f/100.", *audit.OverallScore)
	}

	top := topFailed(findings, 3)
	if len(top) > 0 {
		b.WriteString(" The highest-impact issues to address first:")
		for _, f := range top {
			fmt.Fprintf(&b, " %s;", f.CheckName)
		}
	}
	b.WriteString(" Review the detailed check results for specific fixes.")
	return b.String()
}

// topFailed returns up to n failed findings, highest impact first.
func topFailed(findings []model.Finding, n int) []model.Finding {
	var failed []model.Finding
	for _, f := range findings {
		if f.Status == model.StatusFail {
			failed = append(failed, f)
		}
	}
	sort.SliceStable(failed, func(i, j int) bool {
		return failed[i].ImpactScore > failed[j].ImpactScore
	})
	if len(failed) > n {
		failed = failed[:n]
	}
	return failed
}
