package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/quotekeeper/internal/client/client"
	"github.com/dmitrijs2005/quotekeeper/internal/client/models"
	"github.com/dmitrijs2005/quotekeeper/internal/client/services"
	"github.com/dustin/go-humanize"
)

const cardWidth = 72

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	authorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	contentStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(cardWidth)
)

// renderQuote renders one quote card: author line, boxed content and the
// reaction footer. own marks quotes the current user may edit or delete.
func renderQuote(q models.Quote, v services.ReactionView, own bool, now time.Time) string {
	header := authorStyle.Render(q.Author())
	if !q.CreatedAt.IsZero() {
		header += " " + mutedStyle.Render(humanize.RelTime(q.CreatedAt, now, "ago", "from now"))
	}
	if !q.UpdatedAt.IsZero() && q.UpdatedAt.After(q.CreatedAt) {
		header += mutedStyle.Render(" (edited)")
	}

	footer := mutedStyle.Render("#"+q.ID.String()) + "  " + renderReactions(v, models.ReactionNone)
	if own {
		footer += mutedStyle.Render("  [edit] [delete]")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, contentStyle.Render(q.Content), footer)
}

// renderReactions renders the like/dislike counters, highlighting the
// caller's reaction. pending marks the reaction still being sent.
func renderReactions(v services.ReactionView, pending models.Reaction) string {
	like := fmt.Sprintf("▲ %s", humanize.Comma(int64(v.LikesCount)))
	dislike := fmt.Sprintf("▼ %s", humanize.Comma(int64(v.DislikesCount)))

	switch v.UserReaction {
	case models.ReactionLike:
		like = activeStyle.Render(like)
	case models.ReactionDislike:
		dislike = activeStyle.Render(dislike)
	}

	out := like + "  " + dislike
	if pending.IsAction() {
		out += mutedStyle.Render(fmt.Sprintf("  (sending %s...)", pending))
	}
	return out
}

// renderReactionUpdate is the one-line form printed while a reaction is
// reconciled.
func renderReactionUpdate(v services.ReactionView, pending models.Reaction) string {
	return mutedStyle.Render("#"+v.QuoteID.String()) + "  " + renderReactions(v, pending)
}

func renderPage(title string, page *models.QuotePage, cards []string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	if page.Page > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  page %d", page.Page)))
	}
	if page.Total > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" of %s quotes", humanize.Comma(int64(page.Total)))))
	}
	b.WriteString("\n")

	if len(cards) == 0 {
		b.WriteString(mutedStyle.Render("No quotes yet."))
		return b.String()
	}
	b.WriteString(strings.Join(cards, "\n\n"))
	if page.HasMore() {
		b.WriteString("\n" + mutedStyle.Render("Type 'more' for the next page."))
	}
	return b.String()
}

// renderUser renders a profile; stats may be nil.
func renderUser(u models.User, stats *models.UserStats, now time.Time) string {
	lines := []string{authorStyle.Render(u.Username)}
	if u.Email != "" {
		lines = append(lines, mutedStyle.Render(u.Email))
	}
	if !u.CreatedAt.IsZero() {
		lines = append(lines, "Member since "+u.CreatedAt.Format("January 2006")+
			mutedStyle.Render(" ("+humanize.RelTime(u.CreatedAt, now, "ago", "from now")+")"))
	}

	lines = append(lines, fmt.Sprintf("Quotes: %s  Likes: %s  Dislikes: %s",
		humanize.Comma(int64(u.QuoteCount)),
		humanize.Comma(int64(u.TotalLikes)),
		humanize.Comma(int64(u.TotalDislikes))))

	if stats != nil {
		lines = append(lines, fmt.Sprintf("Likes per quote: %.1f  Like/dislike ratio: %s  Engagement: %.1f",
			stats.LikesPerQuote(), formatRatio(stats.LikeDislikeRatio()), stats.Engagement()))
	}
	return strings.Join(lines, "\n")
}

// renderDirectory renders the authors directory as an aligned table.
func renderDirectory(d *services.Directory, now time.Time) string {
	if len(d.Authors) == 0 {
		return mutedStyle.Render("No authors yet.")
	}

	nameWidth := len("Author")
	for _, a := range d.Authors {
		nameWidth = max(nameWidth, lipgloss.Width(a.Username))
	}
	nameCol := lipgloss.NewStyle().Width(nameWidth + 2)
	numCol := lipgloss.NewStyle().Width(10).Align(lipgloss.Right)

	row := func(cells ...string) string {
		out := nameCol.Render(cells[0])
		for _, c := range cells[1 : len(cells)-1] {
			out += numCol.Render(c)
		}
		return out + "  " + cells[len(cells)-1]
	}

	lines := []string{titleStyle.Render(fmt.Sprintf("Authors (%d)", len(d.Authors))),
		mutedStyle.Render(row("Author", "Quotes", "Likes", "Dislikes", "First seen"))}
	for _, a := range d.Authors {
		seen := "-"
		if !a.FirstSeen.IsZero() {
			seen = humanize.RelTime(a.FirstSeen, now, "ago", "from now")
		}
		lines = append(lines, row(
			a.Username,
			humanize.Comma(int64(a.Stats.QuoteCount)),
			humanize.Comma(int64(a.Stats.TotalLikes)),
			humanize.Comma(int64(a.Stats.TotalDislikes)),
			seen,
		)+mutedStyle.Render("  #"+a.ID.String()))
	}
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("Total: %s quotes, %s reactions",
		humanize.Comma(int64(d.Totals.QuoteCount)),
		humanize.Comma(int64(d.Totals.TotalReactions())))))
	return strings.Join(lines, "\n")
}

func formatRatio(r float64) string {
	if math.IsInf(r, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2f", r)
}

// renderError renders err for the user: the API message when there is one.
func renderError(err error) string {
	msg := err.Error()
	if apiErr := client.AsAPIError(err); apiErr != nil && apiErr.Message != "" {
		msg = apiErr.Message
	}
	return errorStyle.Render("Error: " + msg)
}

func renderNotice(msg string) string {
	return noticeStyle.Render(msg)
}
