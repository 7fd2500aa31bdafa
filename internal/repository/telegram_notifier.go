package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"FutScan/internal/domain/models"
	"FutScan/internal/domain/repository"
	pkghttp "FutScan/pkg/http"
)

const telegramAPIBase = "https://api.telegram.org"

var tierBadges = map[models.StrengthTier]string{
	models.TierWeak:       "",
	models.TierModerate:   "⭐",
	models.TierStrong:     "⭐⭐",
	models.TierVeryStrong: "🔥",
}

// TelegramNotifier delivers scan results as HTML-formatted bot messages.
type TelegramNotifier struct {
	http    *pkghttp.Client
	baseURL string
	token   string
	chatID  string
}

func NewTelegramNotifier(client *pkghttp.Client, token, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		http:    client,
		baseURL: telegramAPIBase,
		token:   token,
		chatID:  chatID,
	}
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (n *TelegramNotifier) send(ctx context.Context, text string) error {
	var resp telegramResponse
	err := n.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodPost,
		URL:    fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token),
		Body: map[string]interface{}{
			"chat_id":                  n.chatID,
			"text":                     text,
			"parse_mode":               "HTML",
			"disable_web_page_preview": true,
		},
	}, &resp)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	if !resp.OK {
		return fmt.Errorf("telegram send: %s", resp.Description)
	}
	return nil
}

func (n *TelegramNotifier) SendSummary(ctx context.Context, s *models.Summary) error {
	return n.send(ctx, formatSummary(s))
}

func (n *TelegramNotifier) SendAlert(ctx context.Context, a *models.DetailedAlert) error {
	return n.send(ctx, formatAlert(a))
}

func (n *TelegramNotifier) SendNoSignals(ctx context.Context, at time.Time) error {
	text := fmt.Sprintf("😴 No opportunities above the signal threshold.\n🕐 %s",
		at.UTC().Format("2006-01-02 15:04 UTC"))
	return n.send(ctx, text)
}

func formatSummary(s *models.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎯 <b>Futures Signal Scan</b>\n")
	fmt.Fprintf(&b, "🕐 %s\n", s.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "Total signals found: %d\n", s.Total)

	if len(s.Long) > 0 {
		b.WriteString("\n📈 <b>LONG</b>\n")
		writeOpportunityLines(&b, s.Long)
	}
	if len(s.Short) > 0 {
		b.WriteString("\n📉 <b>SHORT</b>\n")
		writeOpportunityLines(&b, s.Short)
	}
	if len(s.Warnings) > 0 {
		fmt.Fprintf(&b, "\n⚠️ %d symbols skipped (missing data)\n", len(s.Warnings))
	}
	return b.String()
}

func writeOpportunityLines(b *strings.Builder, opps []models.ScoredOpportunity) {
	for i, o := range opps {
		fmt.Fprintf(b, "%d. <b>%s</b> (%s) — %.2f/10 %s %s\n",
			i+1, o.Instrument, o.Timeframe, o.Score, tierBadges[o.Tier], o.Tier)
		if r := topReason(o); r != "" {
			fmt.Fprintf(b, "   └ %s\n", r)
		}
	}
}

// topReason picks the one-line rationale for a summary entry: the first
// reason of the winning side's verdicts, in evaluator order.
func topReason(o models.ScoredOpportunity) string {
	for _, part := range []string{"technical", "funding", "liquidation"} {
		if v, ok := o.Verdicts[part]; ok && v.Direction == o.Direction && len(v.Reasons) > 0 {
			return v.Reasons[0]
		}
	}
	return ""
}

func formatAlert(a *models.DetailedAlert) string {
	o := a.Opportunity
	var b strings.Builder
	fmt.Fprintf(&b, "🚨 <b>%s SIGNAL: %s</b>\n", strings.ToUpper(string(o.Direction)), o.Instrument)
	fmt.Fprintf(&b, "Timeframe: %s | Score: <b>%.2f/10</b> (%s)\n", o.Timeframe, o.Score, o.Tier)
	if o.Price > 0 {
		fmt.Fprintf(&b, "Price: %s\n", formatPrice(o.Price))
	}
	if o.Confluence > 1 {
		fmt.Fprintf(&b, "Confluence bonus: x%.1f\n", o.Confluence)
	}
	if len(a.Reasons) > 0 {
		b.WriteString("\nReasons:\n")
		for _, r := range a.Reasons {
			fmt.Fprintf(&b, "• %s\n", r)
		}
	}
	return b.String()
}

// formatPrice trims noise: large prices get two decimals, small alts keep
// enough precision to be meaningful.
func formatPrice(p float64) string {
	switch {
	case p >= 100:
		return fmt.Sprintf("%.2f", p)
	case p >= 1:
		return fmt.Sprintf("%.4f", p)
	default:
		return fmt.Sprintf("%.6f", p)
	}
}

var _ repository.Notifier = (*TelegramNotifier)(nil)
