package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
)

// PlaceOrder отправляет ордер и возвращает фактическое исполнение
// (средняя цена и исполненный объём из ответа биржи).
func (c *Client) PlaceOrder(ctx context.Context, r OrderRequest) (*OrderResult, error) {
	if r.Instrument == "" {
		return nil, errors.New("PlaceOrder: empty instrument")
	}
	if !r.Quantity.IsPositive() {
		return nil, fmt.Errorf("PlaceOrder: quantity must be positive, got %s", r.Quantity)
	}

	data, err := c.do(ctx, http.MethodPost, pathPlaceOrder, r.params())
	if err != nil {
		return nil, err
	}

	malformed := func(err error) error {
		return &APIError{Kind: ErrMalformedResponse, Endpoint: pathPlaceOrder, Body: string(data), Err: err}
	}

	var resp orderResponse
	if err := sonic.Unmarshal(data, &resp); err != nil {
		return nil, malformed(err)
	}
	if resp.Data == nil || resp.Data.Order == nil {
		return nil, malformed(errors.New("no data.order"))
	}
	o := resp.Data.Order
	if o.AvgPrice == nil || o.ExecutedQty == nil {
		return nil, malformed(errors.New("no avgPrice/executedQty"))
	}
	// рыночный ордер без исполнения: считать позицию открытой нельзя
	if !o.AvgPrice.IsPositive() || !o.ExecutedQty.IsPositive() {
		return nil, malformed(fmt.Errorf("empty fill: avgPrice=%s executedQty=%s", o.AvgPrice, o.ExecutedQty))
	}

	return &OrderResult{
		OrderID:     rawID(o.OrderID),
		Status:      o.Status,
		AvgPrice:    *o.AvgPrice,
		ExecutedQty: *o.ExecutedQty,
		Raw:         string(data),
	}, nil
}
