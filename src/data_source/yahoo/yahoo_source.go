package yahoo

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"macro-observer/src/analysis/core"
	"macro-observer/src/helpers"
	"macro-observer/src/interfaces"
	"macro-observer/src/logger"
	"macro-observer/src/models"
	"macro-observer/src/utils"
)

const chartURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

type YahooFinanceSource struct {
	Config  *models.MConfig
	Network interfaces.INetworkManager
	Logger  *logger.Logger
	BaseURL string
	now     func() time.Time
}

// -----------------------------------------------------------------------------

func NewYahooFinanceSource(cfg *models.MConfig, netMgr interfaces.INetworkManager, log *logger.Logger) *YahooFinanceSource {
	return &YahooFinanceSource{
		Config:  cfg,
		Network: netMgr,
		Logger:  log,
		BaseURL: chartURL,
		now:     time.Now,
	}
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) Name() string {
	return "yahoo"
}

// -----------------------------------------------------------------------------

// FetchSnapshot fetches daily closes for symbol over the configured range.
func (s *YahooFinanceSource) FetchSnapshot(ctx context.Context, symbol string) (*models.MStockSnapshot, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" || strings.ContainsAny(symbol, "/?# ") {
		return nil, helpers.NewValidationError("invalid symbol %q", symbol)
	}

	params := map[string]string{
		"interval":       "1d",
		"range":          s.Config.DataSource.StockRange,
		"includePrePost": "false",
	}

	respBytes, err := s.Network.Get(ctx, s.BaseURL+url.PathEscape(symbol), params)
	if err != nil {
		return nil, helpers.NewFetchError(fmt.Sprintf("fetch %s", symbol), err)
	}

	snap, err := s.parseChartResponse(symbol, respBytes)
	if err != nil {
		return nil, err
	}
	snap.MarketOpen = utils.GetCalendar(symbol).IsOpenOnMinute(s.now())
	snap.FetchedAt = s.now().UTC()
	s.Logger.Debug("Snapshot %s: %d closes, last %.2f", symbol, len(snap.History), snap.Price)
	return snap, nil
}

// -----------------------------------------------------------------------------

type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				ExchangeName       string  `json:"exchangeName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) parseChartResponse(symbol string, data []byte) (*models.MStockSnapshot, error) {
	var resp YahooChartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, helpers.NewDecodeError(fmt.Sprintf("decode chart for %s", symbol), err)
	}

	if resp.Chart.Error != nil {
		return nil, helpers.NewFetchError(fmt.Sprintf("yahoo api error for %s", symbol),
			fmt.Errorf("%s - %s", resp.Chart.Error.Code, resp.Chart.Error.Description))
	}
	if len(resp.Chart.Result) == 0 {
		return nil, helpers.NewDecodeError(fmt.Sprintf("no result in response for %s", symbol), nil)
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, helpers.NewDecodeError(fmt.Sprintf("no quote data in response for %s", symbol), nil)
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		s.Logger.Info("Data alignment error for %s: %d timestamps, %d closes", symbol, len(result.Timestamp), len(closes))
		return nil, helpers.NewDecodeError(fmt.Sprintf("data alignment error for %s", symbol), nil)
	}

	var history []models.MPricePoint
	for i, ts := range result.Timestamp {
		c := closes[i]
		if c == nil || *c <= 0 || math.IsNaN(*c) {
			continue
		}
		history = append(history, models.MPricePoint{Timestamp: ts, Close: *c})
	}
	if len(history) == 0 {
		return nil, helpers.NewDecodeError(fmt.Sprintf("no valid data points for %s", symbol), nil)
	}
	sort.Slice(history, func(i, j int) bool { return history[i].Timestamp < history[j].Timestamp })

	meta := result.Meta
	price := history[len(history)-1].Close
	if meta.RegularMarketPrice > 0 {
		price = meta.RegularMarketPrice
	}
	prev := meta.ChartPreviousClose
	if len(history) > 1 {
		prev = history[len(history)-2].Close
	}

	closeValues := make([]float64, len(history))
	for i, p := range history {
		closeValues[i] = p.Close
	}
	_, vol := core.CalculateMeanStd(core.DailyReturns(closeValues))

	return &models.MStockSnapshot{
		Symbol:        symbol,
		Currency:      meta.Currency,
		Exchange:      meta.ExchangeName,
		Price:         price,
		PreviousClose: prev,
		ChangePercent: core.CalculateChangePercent(price, prev),
		Volatility:    vol,
		History:       history,
	}, nil
}
