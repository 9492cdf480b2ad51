package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"StockAnalysis/internal/model"

	"github.com/shopspring/decimal"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooSource loads a daily chart from the Yahoo Finance public API.
type YahooSource struct {
	BaseURL string
	Symbol  string // Yahoo ticker, e.g. GOOGL or ^GSPC
	Range   string
	Client  *http.Client
}

// NewYahooSource creates a Yahoo source with optional proxy support.
func NewYahooSource(symbol, rng, proxyURL string) *YahooSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if rng == "" {
		rng = "10y"
	}
	return &YahooSource{
		BaseURL: defaultYahooBaseURL,
		Symbol:  symbol,
		Range:   rng,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (y *YahooSource) Name() string { return "yahoo:" + y.Symbol }

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func at(vals []*float64, i int) *float64 {
	if i >= len(vals) {
		return nil
	}
	return vals[i]
}

func (y *YahooSource) Load() ([]model.Record, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		y.BaseURL, url.PathEscape(y.Symbol), url.QueryEscape(y.Range))

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	records := make([]model.Record, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o, h, l, c := at(quote.Open, i), at(quote.High, i), at(quote.Low, i), at(quote.Close, i)
		if o == nil || h == nil || l == nil || c == nil {
			continue // skip null bars (holidays etc.)
		}
		var vol int64
		if v := at(quote.Volume, i); v != nil {
			vol = int64(*v)
		}
		records = append(records, model.Record{
			Date:   model.Day(time.Unix(ts, 0).UTC()),
			Open:   decimal.NewFromFloat(*o),
			High:   decimal.NewFromFloat(*h),
			Low:    decimal.NewFromFloat(*l),
			Close:  decimal.NewFromFloat(*c),
			Volume: vol,
		})
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })
	return records, nil
}
