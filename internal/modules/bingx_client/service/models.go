package service

import (
	"encoding/json"
	"strings"
	"webhook_bot/internal/models"

	"github.com/shopspring/decimal"
)

const (
	pathTickerPrice   = "/openApi/swap/v1/ticker/price"
	pathPlaceOrder    = "/openApi/swap/v2/trade/order"
	pathClosePosition = "/openApi/swap/v1/trade/closePosition"
)

type priceResponse struct {
	Data *struct {
		Symbol string           `json:"symbol"`
		Price  *decimal.Decimal `json:"price"`
	} `json:"data"`
}

// OrderRequest: параметры ордера. Extra уходят в запрос как есть.
type OrderRequest struct {
	Instrument   string
	Side         models.Side
	Type         models.OrderType
	PositionSide models.PositionSide
	Quantity     decimal.Decimal
	Price        *decimal.Decimal
	Extra        map[string]string
}

func (r OrderRequest) params() map[string]string {
	p := make(map[string]string, 6+len(r.Extra))
	for k, v := range r.Extra {
		p[k] = v
	}
	p["symbol"] = r.Instrument
	p["side"] = string(r.Side)
	p["type"] = string(r.Type)
	p["positionSide"] = string(r.PositionSide)
	p["quantity"] = r.Quantity.String()
	if r.Price != nil {
		p["price"] = r.Price.String()
	}
	return p
}

// OrderResult: фактическое исполнение ордера.
type OrderResult struct {
	OrderID     string
	Status      string
	AvgPrice    decimal.Decimal
	ExecutedQty decimal.Decimal
	Raw         string
}

type orderResponse struct {
	Data *struct {
		Order *struct {
			OrderID     json.RawMessage  `json:"orderId"`
			Status      string           `json:"status"`
			AvgPrice    *decimal.Decimal `json:"avgPrice"`
			ExecutedQty *decimal.Decimal `json:"executedQty"`
		} `json:"order"`
	} `json:"data"`
}

func rawID(raw json.RawMessage) string {
	return strings.Trim(string(raw), `"`)
}
