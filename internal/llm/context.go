package llm

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/microcosm-cc/bluemonday"

	"github.com/mjseo/auditor/internal/model"
)

// PageMarkdown converts raw crawled HTML into markdown suitable for a prompt.
// The HTML is sanitized first so scripts, styles and event handlers never
// reach the model, then converted and trimmed to maxChars.
func PageMarkdown(rawHTML string, maxChars int) (string, error) {
	clean := bluemonday.UGCPolicy().Sanitize(rawHTML)
	md, err := htmltomarkdown.ConvertString(clean)
	if err != nil {
		return "", fmt.Errorf("llm: convert page to markdown: %w", err)
	}
	md = strings.TrimSpace(md)
	if maxChars > 0 && len(md) > maxChars {
		md = md[:maxChars] + "\n...[truncated]"
	}
	return md, nil
}

// AuditContext renders the completed audit as the context block injected
// into the chat system prompt.
func AuditContext(audit *model.Audit, findings []model.Finding) string {
	var b strings.Builder
	b.WriteString("Current Audit Context:\n")
	fmt.Fprintf(&b, "- Website: %s\n", audit.WebsiteURL)
	if audit.OverallScore != nil {
		fmt.Fprintf(&b, "- Overall Score: %.1f/100\n", *audit.OverallScore)
	}
	fmt.Fprintf(&b, "- Failed Checks: %d\n", audit.ChecksFailed)
	fmt.Fprintf(&b, "- Warning Checks: %d\n", audit.ChecksWarning)
	fmt.Fprintf(&b, "- Pages Crawled: %d\n", audit.PagesCrawled)

	top := topFailed(findings, 5)
	if len(top) > 0 {
		b.WriteString("- Top Failed Checks:\n")
		for _, f := range top {
			fmt.Fprintf(&b, "  - %s (%s): %s\n", f.CheckName, f.Category, f.CurrentValue)
		}
	}

	if audit.TopPageMarkdown != "" {
		b.WriteString("\nHomepage Content (markdown):\n")
		b.WriteString(audit.TopPageMarkdown)
		b.WriteString("\n")
	}
	return b.String()
}
