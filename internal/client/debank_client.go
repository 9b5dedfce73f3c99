package client

import (
	"context"
	"fmt"
	"math"
	"net"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpproxy"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"w3batch/internal/app/port"
	"w3batch/internal/config"
	"w3batch/internal/domain/entity"
	"w3batch/internal/pkg/utils"
)

// Browser-like headers keep the public endpoints answering.
const debankUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0.0.0 Safari/537.36"

// DebankClient talks to the public DeBank endpoints and implements the
// port.AccountAggregator interface. Requests go through the rate limiter;
// with a proxy pool attached, each new connection rotates to the next
// proxy.
type DebankClient struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewDebankClient creates a DebankClient. pool may be nil for direct
// connections.
func NewDebankClient(cfg config.DebankConfig, pool port.ProxyPool, logger *zap.Logger) *DebankClient {
	timeout := time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond

	httpClient := &fasthttp.Client{}
	if pool != nil && pool.Size() > 0 {
		httpClient.Dial = func(addr string) (net.Conn, error) {
			proxy := pool.Next()
			if strings.HasPrefix(proxy, "socks") {
				return fasthttpproxy.FasthttpSocksDialer(proxy)(addr)
			}
			return fasthttpproxy.FasthttpHTTPDialerTimeout(proxy, timeout)(addr)
		}
	}

	return &DebankClient{
		client:  httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.BurstLimit),
		logger:  logger.Named("DebankClient"),
	}
}

// UsedChains returns the chain ids DeBank has seen activity on for the
// address.
func (c *DebankClient) UsedChains(ctx context.Context, address string) ([]string, error) {
	requestURL := fmt.Sprintf("%s/user/used_chains?id=%s", c.baseURL, strings.ToLower(address))

	var out debankUsedChainsResponse
	if err := c.getJSON(ctx, requestURL, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return nil, fmt.Errorf("unexpected used_chains response: missing data")
	}

	c.logger.Debug("Fetched used chains", zap.String("address", address), zap.Int("chains", len(out.Data.Chains)))
	return out.Data.Chains, nil
}

// ChainBalances returns the address's token balances on one chain.
func (c *DebankClient) ChainBalances(ctx context.Context, address, chain string) ([]entity.BalanceRecord, error) {
	// Query args sorted by key in ascending order, the endpoint cares.
	requestURL := fmt.Sprintf("%s/token/balance_list?chain=%s&user_addr=%s", c.baseURL, chain, strings.ToLower(address))

	var out debankBalanceListResponse
	if err := c.getJSON(ctx, requestURL, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return nil, fmt.Errorf("unexpected balance_list response for chain %s: missing data", chain)
	}

	records := make([]entity.BalanceRecord, 0, len(*out.Data))
	for _, item := range *out.Data {
		records = append(records, toBalanceRecord(item))
	}

	c.logger.Debug("Fetched chain balances",
		zap.String("address", address), zap.String("chain", chain), zap.Int("tokens", len(records)))
	return records, nil
}

func (c *DebankClient) getJSON(ctx context.Context, requestURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent(debankUserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Origin", "https://debank.com")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Referer", "https://debank.com/")
	req.Header.Set("Source", "web")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			return fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, err)
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Warn("DeBank API request failed",
			zap.String("url", requestURL), zap.Int("statusCode", resp.StatusCode()))
		return fmt.Errorf("DeBank API request to %s failed with status %d", requestURL, resp.StatusCode())
	}

	body, err := resp.BodyUncompressed()
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", requestURL, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response from %s: %w", requestURL, err)
	}
	return nil
}

// toBalanceRecord mirrors the balance_list payload semantics: raw_amount
// scaled by decimals when present, otherwise the pre-scaled balance field.
// A zero price means "no price known", not "worth nothing", so UsdValue
// stays unset.
func toBalanceRecord(item debankTokenItem) entity.BalanceRecord {
	amount := item.Balance
	if item.RawAmount != 0 {
		amount = item.RawAmount / math.Pow10(item.Decimals)
	}

	token := item.Symbol
	if token == "" {
		token = item.Name
	}
	if token == "" {
		token = item.ID
	}

	record := entity.BalanceRecord{
		Chain:           item.Chain,
		Token:           token,
		Amount:          amount,
		FormattedAmount: utils.FormatFloat(amount),
	}
	if item.Price != 0 {
		return record.WithUsd(amount * item.Price)
	}
	return record
}
