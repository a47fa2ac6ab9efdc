package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"coinwatch/internal/model"
)

// binance行情与成交回报客户端。
// 不在这一层做重试，抓取失败直接返回FetchError，由轮询驱动决定下次时机。

// PriceSource 现价数据源
type PriceSource interface {
	FetchPrice(ctx context.Context, symbol string) (float64, error)
}

// ExecutionSource 成交回报数据源
type ExecutionSource interface {
	FetchExecutions(ctx context.Context, symbol string) ([]model.RawExecution, error)
}

// FetchError 上游抓取失败（网络错误、限流、解析失败）
type FetchError struct {
	Op    string
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("binance %s failed: %v", e.Op, e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }

const defaultBaseURL = "https://api.binance.com"

type BinanceClient struct {
	baseURL    string
	apiKey     string
	secretKey  string
	httpClient *http.Client
}

func NewBinanceClient(apiKey, secretKey, baseURL string, timeout time.Duration) (*BinanceClient, error) {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid URL: %s", baseURL)
	}
	if len(parsed.Path) > 0 && parsed.Path[len(parsed.Path)-1:] == "/" {
		parsed.Path = parsed.Path[:len(parsed.Path)-1]
	}
	return &BinanceClient{
		baseURL:    parsed.String(),
		apiKey:     apiKey,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type tickerPriceResp struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// FetchPrice 获取某币种当前现货价格
func (c *BinanceClient) FetchPrice(ctx context.Context, symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/api/v3/ticker/price?symbol=%s", c.baseURL, url.QueryEscape(symbol))

	var ticker tickerPriceResp
	if err := c.doGet(ctx, endpoint, false, &ticker); err != nil {
		return 0, &FetchError{Op: "ticker/price", Cause: err}
	}

	price, err := strconv.ParseFloat(ticker.Price, 64)
	if err != nil {
		return 0, &FetchError{Op: "ticker/price", Cause: fmt.Errorf("parse price %q: %w", ticker.Price, err)}
	}
	if price <= 0 {
		return 0, &FetchError{Op: "ticker/price", Cause: fmt.Errorf("non-positive price %f", price)}
	}
	return price, nil
}

// FetchExecutions 拉取账户在某币种下的全部成交回报（签名接口）
func (c *BinanceClient) FetchExecutions(ctx context.Context, symbol string) ([]model.RawExecution, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	query := params.Encode()
	endpoint := fmt.Sprintf("%s/api/v3/myTrades?%s&signature=%s", c.baseURL, query, c.sign(query))

	var executions []model.RawExecution
	if err := c.doGet(ctx, endpoint, true, &executions); err != nil {
		return nil, &FetchError{Op: "myTrades", Cause: err}
	}
	return executions, nil
}

// sign 对查询串做HMAC-SHA256签名
func (c *BinanceClient) sign(query string) string {
	h := hmac.New(sha256.New, []byte(c.secretKey))
	h.Write([]byte(query))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *BinanceClient) doGet(ctx context.Context, endpoint string, signed bool, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create new request: %w", err)
	}
	if signed {
		req.Header.Set("X-MBX-APIKEY", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request (network error): %w", err)
	}
	defer resp.Body.Close()

	byteData, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(byteData))
	}
	if err := json.Unmarshal(byteData, result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
