package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
)

// GetPrice: текущая цена контракта. Любой сбой, включая ответ без
// data.price, это ErrUpstream: ордера ещё не было, разбирать нечего.
func (c *Client) GetPrice(ctx context.Context, instrument string) (decimal.Decimal, error) {
	data, err := c.do(ctx, http.MethodGet, pathTickerPrice, map[string]string{
		"symbol": instrument,
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			apiErr.Kind = ErrUpstream
		}
		return decimal.Zero, err
	}

	upstream := func(err error) error {
		return &APIError{Kind: ErrUpstream, Endpoint: pathTickerPrice, Body: string(data), Err: err}
	}

	var r priceResponse
	if err := sonic.Unmarshal(data, &r); err != nil {
		return decimal.Zero, upstream(err)
	}
	if r.Data == nil || r.Data.Price == nil {
		return decimal.Zero, upstream(errors.New("no data.price"))
	}
	if !r.Data.Price.IsPositive() {
		return decimal.Zero, upstream(errors.New("price <= 0"))
	}
	return *r.Data.Price, nil
}
