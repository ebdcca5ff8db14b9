package cli

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dyike/stocklyzer/internal/api"
	"github.com/dyike/stocklyzer/internal/dashboard"
	"github.com/dyike/stocklyzer/internal/models"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6"))

	labelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))

	valueStyle = lipgloss.NewStyle().
		Bold(true)

	positiveStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	negativeStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	warningStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F59E0B")).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	borderStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#374151"))
)

// sparkWidth caps chart width so lines fit an 80 column terminal.
const sparkWidth = 60

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// DisplayWelcomeBanner shows the welcome banner
func DisplayWelcomeBanner(w io.Writer) {
	banner := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(1, 4).
		Align(lipgloss.Center).
		Render(fmt.Sprintf("📈 Stocklyzer v%s\nCAPM · Technical Analysis · Price Prediction", Version))
	fmt.Fprintln(w, banner)
	fmt.Fprintln(w)
}

// DisplayError shows an error message. Gateway errors print their display
// message; validation errors are marked as input problems.
func DisplayError(w io.Writer, err error) {
	prefix := "❌"
	if api.KindOf(err) == api.KindValidation {
		prefix = "⚠️ "
	}
	fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("%s %s", prefix, capitalize(err.Error()))))
}

// DisplayInfo shows an info message
func DisplayInfo(w io.Writer, message string) {
	fmt.Fprintln(w, lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Render("ℹ️  "+message))
}

// DisplaySuccess shows a success message
func DisplaySuccess(w io.Writer, message string) {
	fmt.Fprintln(w, positiveStyle.Render("✅ "+message))
}

func renderCAPM(w io.Writer, resp *models.CAPMResponse, years models.Years) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("CAPM Results (%s)", years)))

	stats := []string{
		stat("Market Return", fmt.Sprintf("%.2f%%", dashboard.Percent(resp.MarketReturn))),
		stat("Risk-Free Rate", fmt.Sprintf("%.2f%%", dashboard.Percent(resp.RiskFreeRate))),
	}
	if beta, ok := dashboard.AverageBeta(resp.BetaResults); ok {
		stats = append(stats, stat("Average Beta", fmt.Sprintf("%.3f", beta)))
	}
	if alpha, ok := dashboard.AverageAlpha(resp.BetaResults); ok {
		stats = append(stats, stat("Average Alpha", fmt.Sprintf("%.3f", alpha)))
	}
	fmt.Fprintln(w, strings.Join(stats, "   "))
	fmt.Fprintln(w)

	rows := dashboard.BetaRows(resp)
	if len(rows) > 0 {
		t := newTable("Stock", "Beta", "Alpha", "Expected Return")
		for _, r := range rows {
			t.Row(r.Stock, fmt.Sprintf("%.3f", r.Beta), optional(r.Alpha, "%.3f", 1), optional(r.ExpectedReturn, "%.2f%%", 100))
		}
		fmt.Fprintln(w, t.Render())
		fmt.Fprintln(w)
	}

	series := dashboard.NormalizedSeries(resp.NormalizedData)
	if len(series) == 0 {
		return
	}
	fmt.Fprintln(w, headerStyle.Render("Normalized Stock Prices"))
	width := 0
	for _, s := range series {
		width = max(width, len(s.Name))
	}
	for _, s := range series {
		vals := s.Values()
		if len(vals) == 0 {
			continue
		}
		fmt.Fprintf(w, "%-*s %s %.4f → %s\n", width, s.Name, sparkline(vals, sparkWidth),
			vals[0], toneStyle(vals[len(vals)-1]-vals[0]).Render(fmt.Sprintf("%.4f", vals[len(vals)-1])))
	}
}

func renderAnalysis(w io.Writer, resp *models.AnalysisResponse, period models.Period) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s Technical Analysis (%s)", resp.Symbol, period.Label())))

	change := dashboard.PriceChange(resp.PriceData)
	fmt.Fprintln(w, strings.Join([]string{
		stat("Current Price", fmt.Sprintf("$%.2f", resp.CurrentPrice)),
		stat("Price Change", changeText(change)),
	}, "   "))
	fmt.Fprintln(w)

	if len(resp.PriceData) > 0 {
		prices := make([]float64, len(resp.PriceData))
		for i, p := range resp.PriceData {
			prices[i] = p.Price
		}
		fmt.Fprintln(w, headerStyle.Render("Price Chart"))
		fmt.Fprintf(w, "%s  %s → %s\n\n", sparkline(prices, sparkWidth),
			displayDate(resp.PriceData[0].Date), displayDate(resp.PriceData[len(resp.PriceData)-1].Date))
	}

	cards := dashboard.IndicatorCards(resp.TechnicalIndicators)
	if len(cards) > 0 {
		fmt.Fprintln(w, headerStyle.Render("Technical Indicators"))
		t := newTable("Indicator", "Value", "Description")
		for _, c := range cards {
			t.Row(c.Title, cardStyle(c.Tone).Render(c.Value), c.Description)
		}
		fmt.Fprintln(w, t.Render())
		fmt.Fprintln(w)
	}

	if len(resp.Summary) > 0 {
		fmt.Fprintln(w, headerStyle.Render("Summary Statistics"))
		fmt.Fprintln(w, metricsTable(resp.Summary, "%.2f").Render())
	}
}

func renderPrediction(w io.Writer, sym string, resp *models.PredictionResponse, days models.Days) {
	if resp.Symbol != "" {
		sym = resp.Symbol
	}
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s Price Prediction (%s)", sym, days)))

	if stats := dashboard.Stats(resp); stats != nil {
		fmt.Fprintln(w, strings.Join([]string{
			stat("Current Price", fmt.Sprintf("$%.2f", stats.CurrentPrice)),
			stat("Predicted Price", fmt.Sprintf("$%.2f", stats.LastPrice)),
			stat("Predicted Change", changeText(stats.FromCurrent)),
		}, "   "))
		fmt.Fprintln(w)
	}

	points := dashboard.ForecastSeries(resp)
	if len(points) > 0 {
		var hist, pred []float64
		for _, p := range points {
			if p.Predicted != nil {
				pred = append(pred, *p.Predicted)
			} else if p.Historical != nil {
				hist = append(hist, *p.Historical)
			}
		}
		fmt.Fprintln(w, headerStyle.Render("Price Forecast"))
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("historical"), sparkline(hist, sparkWidth))
		fmt.Fprintf(w, "%s  %s\n\n", labelStyle.Render("predicted"), positiveStyle.Render(sparkline(pred, sparkWidth)))
	}

	if len(resp.ModelInfo) > 0 {
		fmt.Fprintln(w, headerStyle.Render("Model Information"))
		fmt.Fprintln(w, metricsTable(resp.ModelInfo, "%.4f").Render())
		fmt.Fprintln(w)
	}

	if len(resp.Predictions) > 0 {
		fmt.Fprintln(w, headerStyle.Render("Detailed Predictions"))
		t := newTable("Date", "Predicted Price", "Lower Bound", "Upper Bound")
		for _, p := range resp.Predictions[:min(10, len(resp.Predictions))] {
			t.Row(displayDate(p.Date), fmt.Sprintf("$%.2f", p.PredictedPrice),
				optional(p.ConfidenceIntervalLower, "$%.2f", 1), optional(p.ConfidenceIntervalUpper, "$%.2f", 1))
		}
		fmt.Fprintln(w, t.Render())
	}
}

func renderAvailableStocks(w io.Writer, stocks *models.AvailableStocks) {
	fmt.Fprintln(w, titleStyle.Render("Available Stocks"))
	if stocks.Description != "" {
		fmt.Fprintln(w, labelStyle.Render(stocks.Description))
	}
	fmt.Fprintln(w, strings.Join(stocks.Stocks, "  "))
}

func renderSearch(w io.Writer, query string, results *models.SearchResults) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Search: %s", query)))
	if len(results.Results) == 0 {
		DisplayInfo(w, "No matching stocks")
		return
	}
	t := newTable("Symbol", "Name", "Exchange", "Type")
	for _, r := range results.Results {
		t.Row(r.Symbol, truncateString(r.Name, 40), r.Exchange, r.Type)
	}
	fmt.Fprintln(w, t.Render())
}

func renderInfo(w io.Writer, sym string, info models.StockInfo) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s Company Information", sym)))
	if len(info) == 0 {
		DisplayInfo(w, "No information available")
		return
	}
	fmt.Fprintln(w, metricsTable(info, "%.2f").Render())
}

// Helper functions

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// metricsTable lists a loosely typed block with keys sorted and numbers
// printed with numFormat.
func metricsTable(m models.Metrics, numFormat string) *table.Table {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := newTable("Metric", "Value")
	for _, k := range keys {
		value := m.Display(k)
		if f, ok := m.Float(k); ok {
			value = fmt.Sprintf(numFormat, f)
		}
		t.Row(humanize(k), truncateString(value, 50))
	}
	return t
}

func stat(label, value string) string {
	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func changeText(c dashboard.Change) string {
	sign := ""
	if c.Up() {
		sign = "+"
	}
	text := fmt.Sprintf("%s$%.2f (%s%.2f%%)", sign, c.Amount, sign, c.Percent)
	return toneStyle(c.Amount).Render(text)
}

func toneStyle(delta float64) lipgloss.Style {
	if delta >= 0 {
		return positiveStyle
	}
	return negativeStyle
}

func cardStyle(t dashboard.Tone) lipgloss.Style {
	switch t {
	case dashboard.TonePositive:
		return positiveStyle
	case dashboard.ToneNegative:
		return negativeStyle
	case dashboard.ToneWarning:
		return warningStyle
	default:
		return valueStyle
	}
}

func optional(v *float64, format string, scale float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf(format, *v*scale)
}

// sparkline draws values as block characters, sampling down to width.
func sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}
	if len(values) > width {
		sampled := make([]float64, width)
		for i := range sampled {
			sampled[i] = values[i*(len(values)-1)/(width-1)]
		}
		values = sampled
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	var b strings.Builder
	top := len(sparkBlocks) - 1
	for _, v := range values {
		idx := top / 2
		if hi > lo {
			idx = int(math.Round((v - lo) / (hi - lo) * float64(top)))
		}
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

func displayDate(s string) string {
	t, err := models.ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format("Jan 2, 2006")
}

// humanize turns snake_case keys into title case labels.
func humanize(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
