package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"webhook_bot/internal/models"
	"webhook_bot/pkg/tracing"

	"github.com/bytedance/sonic"
)

const (
	apiKeyHeader = "X-BX-APIKEY"

	// ответы биржи маленькие, больше мегабайта: что-то не то
	maxBodySize = 1 << 20
)

type Config struct {
	APIKey    string
	SecretKey string
	BaseURL   string
}

// Client: подписанные REST-запросы к BingX swap API.
// Контур (live/demo) фиксируется при создании.
type Client struct {
	env       models.Environment
	baseURL   string
	apiKey    string
	secretKey string

	http *http.Client
	now  func() time.Time
}

func NewClient(env models.Environment, conf Config, httpClient *http.Client) (*Client, error) {
	if conf.APIKey == "" || conf.SecretKey == "" {
		return nil, errors.New("bingx: api key and secret key are required")
	}
	if conf.BaseURL == "" {
		return nil, fmt.Errorf("bingx: empty base url for %s", env)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		env:       env,
		baseURL:   strings.TrimRight(conf.BaseURL, "/"),
		apiKey:    conf.APIKey,
		secretKey: conf.SecretKey,
		http:      httpClient,
		now:       time.Now,
	}, nil
}

func (c *Client) Environment() models.Environment { return c.env }

type envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// do подписывает и отправляет запрос. Подпись и timestamp считаются здесь,
// в момент отправки: повторный вызов всегда строит новую подпись.
func (c *Client) do(ctx context.Context, method, endpoint string, params map[string]string) (body []byte, err error) {
	span, ctx := tracing.StartSpan(ctx, "bingx "+endpoint)
	span.SetTag("bingx.env", string(c.env))
	started := time.Now()
	defer func() {
		observeRequest(endpoint, started, err)
		tracing.FinishSpan(span, err)
	}()

	query, signature := c.Sign(params, c.now())
	reqURL := c.baseURL + endpoint + "?" + query + "&signature=" + signature

	req, err := http.NewRequestWithContext(ctx, method, reqURL, http.NoBody)
	if err != nil {
		return nil, &APIError{Kind: ErrUpstream, Endpoint: endpoint, Err: fmt.Errorf("new request: %w", err), notSent: true}
	}
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error несёт в себе полный URL с подписью: наружу не отдаём
		return nil, &APIError{Kind: ErrUpstream, Endpoint: endpoint, Err: unwrapURLError(err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &APIError{Kind: ErrUpstream, Endpoint: endpoint, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode/100 != 2 {
		return nil, &APIError{Kind: ErrUpstream, Endpoint: endpoint, Status: resp.StatusCode, Body: string(data)}
	}

	var env envelope
	if err := sonic.Unmarshal(data, &env); err != nil {
		return nil, &APIError{Kind: ErrMalformedResponse, Endpoint: endpoint, Status: resp.StatusCode, Body: string(data), Err: err}
	}
	if env.Code != 0 {
		return nil, &APIError{Kind: ErrUpstream, Endpoint: endpoint, Status: resp.StatusCode, Code: env.Code, Msg: env.Msg, Body: string(data)}
	}
	return data, nil
}
