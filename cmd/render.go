package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/Aditya73singh/rcai/internal/types"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Adaptive colors for dark/light terminals
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorDim     = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#F25D94", Dark: "#F25D94"}
	colorGreen   = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}
	colorRed     = lipgloss.AdaptiveColor{Light: "#D94F4F", Dark: "#F06C6C"}

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	indexStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	channelStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	metaStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	positiveStyle = lipgloss.NewStyle().Foreground(colorGreen)
	negativeStyle = lipgloss.NewStyle().Foreground(colorRed)
	neutralStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

func renderResults(result types.ResultSet, req types.SearchRequest, page int) string {
	var b strings.Builder

	header := fmt.Sprintf("%d result(s)", result.TotalResults)
	if req.Query != "" {
		header += fmt.Sprintf(" for %q", req.Query)
	}
	header += fmt.Sprintf(" — page %d, %d channel(s)", page, result.SourceCount)
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n\n")

	if len(result.Comments) == 0 {
		b.WriteString(metaStyle.Render("Nothing matched. Try a broader query or a lower --min-upvotes."))
		b.WriteString("\n")
		return b.String()
	}

	for i, c := range result.Comments {
		meta := fmt.Sprintf("%d pts · %s · %s", c.Upvotes, relAge(time.Since(c.CreatedUTC)), c.Author)
		if c.Awards > 0 {
			meta += fmt.Sprintf(" · %d award(s)", c.Awards)
		}

		b.WriteString(fmt.Sprintf("%s %s  %s  %s\n",
			indexStyle.Render(fmt.Sprintf("%2d.", i+1)),
			channelStyle.Render(c.SourceChannel),
			sentimentStyle(c.Sentiment).Render(string(c.Sentiment)),
			metaStyle.Render(meta),
		))
		b.WriteString("    " + truncate(collapse(c.Body), 160) + "\n")
		b.WriteString("    " + metaStyle.Render(fmt.Sprintf("score %.2f  %s", c.Score, c.Permalink)) + "\n\n")
	}
	return b.String()
}

func sentimentStyle(s types.Sentiment) lipgloss.Style {
	switch s {
	case types.SentimentPositive:
		return positiveStyle
	case types.SentimentNegative:
		return negativeStyle
	default:
		return neutralStyle
	}
}

// relAge renders a duration the way humans read comment ages.
func relAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
