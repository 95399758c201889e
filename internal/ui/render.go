package ui

import (
	"fmt"
	"strings"

	"github.com/atalib94/procedure-tracker-sub001/internal/review"
)

// RenderStats formats the dashboard summary for non-interactive output.
func RenderStats(s review.Stats, theme Theme) string {
	var b strings.Builder
	fmt.Fprintln(&b, theme.Header.Render("progress"))
	fmt.Fprintf(&b, "answered    %d\n", s.TotalAnswered)
	fmt.Fprintf(&b, "correct     %s\n", theme.Pass.Render(fmt.Sprintf("%d", s.TotalCorrect)))
	fmt.Fprintf(&b, "incorrect   %s\n", theme.Fail.Render(fmt.Sprintf("%d", s.TotalIncorrect)))
	fmt.Fprintf(&b, "accuracy    %d%%\n", s.Accuracy)
	fmt.Fprintf(&b, "mastered    %d\n", s.MasteredCount)
	fmt.Fprintf(&b, "struggling  %d\n", s.StrugglingCount)
	fmt.Fprintf(&b, "flagged     %d\n", s.MarkedCount)
	if s.LastStudyDate != nil {
		fmt.Fprintf(&b, "last study  %s\n", s.LastStudyDate.Format("2006-01-02 15:04"))
	} else {
		fmt.Fprintf(&b, "last study  %s\n", theme.Muted.Render("never"))
	}
	return b.String()
}

// RenderIDList formats a partition listing, one ID per line.
func RenderIDList(title string, ids []string, theme Theme) string {
	var b strings.Builder
	fmt.Fprintln(&b, theme.Header.Render(fmt.Sprintf("%s (%d)", title, len(ids))))
	if len(ids) == 0 {
		fmt.Fprintln(&b, theme.Muted.Render("nothing here"))
		return b.String()
	}
	for _, id := range ids {
		fmt.Fprintf(&b, "  %s\n", id)
	}
	return b.String()
}
