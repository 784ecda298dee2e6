package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"coinwatch/models"
)

// DefaultBaseURL is the public CoinGecko v3 endpoint.
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// Client fetches market data from the CoinGecko API. Every call is a single
// request/response with no caching or retries; failures carry a descriptive
// error for the presentation layer to render.
type Client struct {
	httpClient *http.Client
	baseURL    string
	vsCurrency string
}

// NewClient creates a market-data client. Empty arguments fall back to the
// public endpoint and USD quotes.
func NewClient(baseURL, vsCurrency string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if vsCurrency == "" {
		vsCurrency = "usd"
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		vsCurrency: vsCurrency,
	}
}

// rawCoinDetail is the provider's nested detail response. Market figures are
// keyed by quote currency and may be absent for dead listings, so everything
// is optional.
type rawCoinDetail struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Image  struct {
		Large string `json:"large"`
	} `json:"image"`
	MarketCapRank int `json:"market_cap_rank"`
	MarketData    *struct {
		CurrentPrice                       map[string]float64 `json:"current_price"`
		PriceChangePercentage24hInCurrency map[string]float64 `json:"price_change_percentage_24h_in_currency"`
		PriceChangePercentage7dInCurrency  map[string]float64 `json:"price_change_percentage_7d_in_currency"`
		MarketCap                          map[string]float64 `json:"market_cap"`
		TotalVolume                        map[string]float64 `json:"total_volume"`
		CirculatingSupply                  float64            `json:"circulating_supply"`
		TotalSupply                        float64            `json:"total_supply"`
		MaxSupply                          float64            `json:"max_supply"`
	} `json:"market_data"`
	Description map[string]string `json:"description"`
	Links       struct {
		Homepage []string `json:"homepage"`
	} `json:"links"`
}

// rawTrendingResponse is the provider's trending listing: thin item stubs
// that must be joined against the markets endpoint for full figures.
type rawTrendingResponse struct {
	Coins []struct {
		Item struct {
			ID string `json:"id"`
		} `json:"item"`
	} `json:"coins"`
}

// GetCoinMarkets returns one page of the market listing, sorted by
// descending market cap.
func (c *Client) GetCoinMarkets(ctx context.Context, page, perPage int) ([]models.Coin, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 100
	}

	params := url.Values{}
	params.Set("vs_currency", c.vsCurrency)
	params.Set("order", "market_cap_desc")
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))
	params.Set("sparkline", "false")

	return c.fetchMarkets(ctx, params)
}

// GetCoinDetails returns the full figures for a single coin, flattened to
// the USD quote with the description stripped of HTML markup.
func (c *Client) GetCoinDetails(ctx context.Context, coinID string) (*models.CoinDetail, error) {
	params := url.Values{}
	params.Set("localization", "false")
	params.Set("tickers", "false")
	params.Set("market_data", "true")
	params.Set("community_data", "false")
	params.Set("developer_data", "false")
	params.Set("sparkline", "false")

	endpoint := fmt.Sprintf("%s/coins/%s?%s", c.baseURL, url.PathEscape(coinID), params.Encode())

	var raw rawCoinDetail
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("coin details for %s: %w", coinID, err)
	}

	detail := &models.CoinDetail{
		ID:            raw.ID,
		Symbol:        raw.Symbol,
		Name:          raw.Name,
		Image:         raw.Image.Large,
		MarketCapRank: raw.MarketCapRank,
		Description:   "No description available.",
		Homepage:      "#",
	}

	if md := raw.MarketData; md != nil {
		detail.CurrentPrice = md.CurrentPrice[c.vsCurrency]
		detail.PriceChangePercentage24h = md.PriceChangePercentage24hInCurrency[c.vsCurrency]
		detail.PriceChangePercentage7d = md.PriceChangePercentage7dInCurrency[c.vsCurrency]
		detail.MarketCap = md.MarketCap[c.vsCurrency]
		detail.TotalVolume = md.TotalVolume[c.vsCurrency]
		detail.CirculatingSupply = md.CirculatingSupply
		detail.TotalSupply = md.TotalSupply
		detail.MaxSupply = md.MaxSupply
	}
	if description := strings.TrimSpace(stripHTMLTags(raw.Description["en"])); description != "" {
		detail.Description = description
	}
	if len(raw.Links.Homepage) > 0 && strings.TrimSpace(raw.Links.Homepage[0]) != "" {
		detail.Homepage = raw.Links.Homepage[0]
	}

	return detail, nil
}

// GetTrendingCoins returns the trending listing joined against the markets
// endpoint, so callers get full market figures instead of the thin trending
// stubs. No trending coins yields an empty slice, not an error.
func (c *Client) GetTrendingCoins(ctx context.Context) ([]models.Coin, error) {
	var trending rawTrendingResponse
	if err := c.getJSON(ctx, c.baseURL+"/search/trending", &trending); err != nil {
		return nil, fmt.Errorf("trending coins: %w", err)
	}

	ids := make([]string, 0, len(trending.Coins))
	for _, coin := range trending.Coins {
		if coin.Item.ID != "" {
			ids = append(ids, coin.Item.ID)
		}
	}
	if len(ids) == 0 {
		return []models.Coin{}, nil
	}

	params := url.Values{}
	params.Set("vs_currency", c.vsCurrency)
	params.Set("ids", strings.Join(ids, ","))
	params.Set("sparkline", "false")

	coins, err := c.fetchMarkets(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("trending market data: %w", err)
	}
	return coins, nil
}

func (c *Client) fetchMarkets(ctx context.Context, params url.Values) ([]models.Coin, error) {
	var coins []models.Coin
	if err := c.getJSON(ctx, c.baseURL+"/coins/markets?"+params.Encode(), &coins); err != nil {
		return nil, fmt.Errorf("coin markets: %w", err)
	}
	if coins == nil {
		coins = []models.Coin{}
	}
	return coins, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("coingecko api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("coingecko request failed: %s - %s", resp.Status, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTMLTags removes markup from provider descriptions, which arrive as
// HTML fragments.
func stripHTMLTags(s string) string {
	return htmlTagPattern.ReplaceAllString(s, "")
}
