package dashboard

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dyike/stocklyzer/internal/models"
)

// ForecastWindow is how many trailing historical closes are drawn next to a forecast.
const ForecastWindow = 60

var hundred = decimal.NewFromInt(100)

// Point is one (date, value) sample of a chart series.
type Point struct {
	Date  string
	Value float64
}

// Series is a named line of a chart.
type Series struct {
	Name   string
	Points []Point
}

// Values returns the series' y values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// NormalizedSeries pivots wide rows into one date-ordered series per symbol.
// Rows missing a symbol are skipped for that symbol only.
func NormalizedSeries(rows []models.SeriesRow) []Series {
	sorted := make([]models.SeriesRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	byName := make(map[string]*Series)
	var names []string
	for _, row := range sorted {
		for _, col := range row.Columns() {
			s, ok := byName[col]
			if !ok {
				s = &Series{Name: col}
				byName[col] = s
				names = append(names, col)
			}
			s.Points = append(s.Points, Point{Date: row.Date, Value: row.Values[col]})
		}
	}

	sort.Strings(names)
	out := make([]Series, 0, len(names))
	for _, n := range names {
		out = append(out, *byName[n])
	}
	return out
}

// BetaRow is one line of the CAPM results table.
type BetaRow struct {
	Stock          string
	Beta           float64
	Alpha          *float64
	ExpectedReturn *float64
}

// BetaRows joins beta and expected-return results by stock, keeping the
// order of the beta results. Entries only present in capm_results are appended.
func BetaRows(resp *models.CAPMResponse) []BetaRow {
	if resp == nil {
		return nil
	}
	rows := make([]BetaRow, 0, len(resp.BetaResults))
	index := make(map[string]int, len(resp.BetaResults))
	for _, b := range resp.BetaResults {
		alpha := b.Alpha
		index[b.Stock] = len(rows)
		rows = append(rows, BetaRow{Stock: b.Stock, Beta: b.Beta, Alpha: &alpha})
	}
	for _, c := range resp.CAPMResults {
		er := c.ExpectedReturn
		if i, ok := index[c.Stock]; ok {
			rows[i].ExpectedReturn = &er
			continue
		}
		rows = append(rows, BetaRow{Stock: c.Stock, Beta: c.Beta, ExpectedReturn: &er})
	}
	return rows
}

// AverageBeta is the mean beta rounded to three places; ok is false when
// there are no results.
func AverageBeta(results []models.BetaResult) (float64, bool) {
	return mean(results, func(b models.BetaResult) float64 { return b.Beta })
}

func AverageAlpha(results []models.BetaResult) (float64, bool) {
	return mean(results, func(b models.BetaResult) float64 { return b.Alpha })
}

func mean(results []models.BetaResult, pick func(models.BetaResult) float64) (float64, bool) {
	if len(results) == 0 {
		return 0, false
	}
	sum := decimal.Zero
	for _, r := range results {
		sum = sum.Add(decimal.NewFromFloat(pick(r)))
	}
	return sum.Div(decimal.NewFromInt(int64(len(results)))).Round(3).InexactFloat64(), true
}

// Percent renders a fraction such as 0.0825 as a percentage rounded to two places.
func Percent(fraction float64) float64 {
	return decimal.NewFromFloat(fraction).Mul(hundred).Round(2).InexactFloat64()
}

// Change is an absolute and relative move between two prices.
type Change struct {
	Amount  float64
	Percent float64
}

// Up reports whether the move is flat or positive.
func (c Change) Up() bool { return c.Amount >= 0 }

func change(from, to float64) Change {
	f := decimal.NewFromFloat(from)
	diff := decimal.NewFromFloat(to).Sub(f)
	c := Change{Amount: diff.Round(2).InexactFloat64()}
	if !f.IsZero() {
		c.Percent = diff.Div(f).Mul(hundred).Round(2).InexactFloat64()
	}
	return c
}

// PriceChange compares the last close with the one before it. Fewer than
// two points yield a zero change.
func PriceChange(points []models.PricePoint) Change {
	if len(points) < 2 {
		return Change{}
	}
	return change(points[len(points)-2].Price, points[len(points)-1].Price)
}

// Tone hints how a value should be coloured.
type Tone int

const (
	ToneNeutral Tone = iota
	TonePositive
	ToneNegative
	ToneWarning
)

// Card is one technical indicator tile.
type Card struct {
	Title       string
	Value       string
	Description string
	Tone        Tone
}

// RSIStatus classifies an RSI reading.
func RSIStatus(rsi float64) (string, Tone) {
	switch {
	case rsi > 70:
		return "Overbought", ToneNegative
	case rsi < 30:
		return "Oversold", TonePositive
	default:
		return "Neutral", ToneWarning
	}
}

// IndicatorCards lists the indicators that have a value, in display order.
func IndicatorCards(ind models.TechnicalIndicators) []Card {
	var cards []Card
	add := func(v *float64, places int32, title, desc string, tone Tone) {
		if v == nil {
			return
		}
		cards = append(cards, Card{
			Title:       title,
			Value:       decimal.NewFromFloat(*v).StringFixed(places),
			Description: desc,
			Tone:        tone,
		})
	}

	ma := ind.MovingAverages
	add(ma.MA10, 2, "MA (10)", "10-day Moving Average", ToneNeutral)
	add(ma.MA20, 2, "MA (20)", "20-day Moving Average", ToneNeutral)
	add(ma.MA50, 2, "MA (50)", "50-day Moving Average", ToneNeutral)

	if ind.RSI != nil {
		status, tone := RSIStatus(*ind.RSI)
		add(ind.RSI, 2, "RSI", "Relative Strength Index - "+status, tone)
	}

	add(ind.MACD.MACD, 4, "MACD", "Moving Average Convergence Divergence", ToneNeutral)
	add(ind.MACD.Signal, 4, "MACD Signal", "MACD Signal Line", ToneNeutral)
	if h := ind.MACD.Histogram; h != nil {
		tone := ToneNegative
		if *h > 0 {
			tone = TonePositive
		}
		add(h, 4, "MACD Histogram", "MACD Histogram (MACD - Signal)", tone)
	}

	bb := ind.BollingerBands
	add(bb.Upper, 2, "Bollinger Upper", "Upper Bollinger Band", ToneNeutral)
	add(bb.Middle, 2, "Bollinger Middle", "Middle Bollinger Band (SMA 20)", ToneNeutral)
	add(bb.Lower, 2, "Bollinger Lower", "Lower Bollinger Band", ToneNeutral)

	if v := ind.Volume; v != nil {
		add(v.Current, 0, "Volume", "Latest traded volume", ToneNeutral)
		add(v.Relative, 2, "Relative Volume", "Latest volume over average", ToneNeutral)
	}
	return cards
}

// ForecastPoint is one x position of the forecast chart. Historical is set
// for past closes and for the first prediction, which is anchored to the
// last close so the two lines join.
type ForecastPoint struct {
	Date       string
	Historical *float64
	Predicted  *float64
	Upper      *float64
	Lower      *float64
}

// ForecastSeries joins the trailing ForecastWindow closes with the predictions.
func ForecastSeries(resp *models.PredictionResponse) []ForecastPoint {
	if resp == nil {
		return nil
	}
	hist := resp.HistoricalData
	if len(hist) > ForecastWindow {
		hist = hist[len(hist)-ForecastWindow:]
	}

	out := make([]ForecastPoint, 0, len(hist)+len(resp.Predictions))
	for _, h := range hist {
		price := h.Price
		out = append(out, ForecastPoint{Date: h.Date, Historical: &price})
	}
	for i, p := range resp.Predictions {
		price := p.PredictedPrice
		fp := ForecastPoint{
			Date:      p.Date,
			Predicted: &price,
			Upper:     p.ConfidenceIntervalUpper,
			Lower:     p.ConfidenceIntervalLower,
		}
		if i == 0 && len(hist) > 0 {
			last := hist[len(hist)-1].Price
			fp.Historical = &last
		}
		out = append(out, fp)
	}
	return out
}

// PredictionStats summarizes a forecast.
type PredictionStats struct {
	FirstPrice   float64
	LastPrice    float64
	CurrentPrice float64
	// Forecast is the move from the first to the last predicted price.
	Forecast Change
	// FromCurrent is the move from the last close to the last predicted price.
	FromCurrent Change
}

// Stats returns nil when there are no predictions.
func Stats(resp *models.PredictionResponse) *PredictionStats {
	if resp == nil || len(resp.Predictions) == 0 {
		return nil
	}
	first := resp.Predictions[0].PredictedPrice
	last := resp.Predictions[len(resp.Predictions)-1].PredictedPrice
	var current float64
	if n := len(resp.HistoricalData); n > 0 {
		current = resp.HistoricalData[n-1].Price
	}
	return &PredictionStats{
		FirstPrice:   first,
		LastPrice:    last,
		CurrentPrice: current,
		Forecast:     change(first, last),
		FromCurrent:  change(current, last),
	}
}
