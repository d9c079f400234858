package oracle

import (
	"context"
	"fmt"
	"time"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const ratePropertyKey = "ORACLE:RATE:XIN:USD"

type PropertyStore interface {
	WriteProperty(key, val []byte) error
	ReadProperty(key []byte) ([]byte, error)
}

// Client reads the XIN/USD price. An unreachable oracle degrades to the
// last rate persisted locally, then to the configured constant, so a mint
// quotes a slightly stale fee instead of failing outright.
type Client struct {
	http     *resty.Client
	store    PropertyStore
	fallback decimal.Decimal
}

func NewClient(url string, store PropertyStore, fallback decimal.Decimal) *Client {
	c := resty.New()
	c.SetHostURL(url)
	c.SetTimeout(10 * time.Second)
	return &Client{
		http:     c,
		store:    store,
		fallback: fallback,
	}
}

func (c *Client) ExchangeRate(ctx context.Context) (decimal.Decimal, error) {
	rate, err := c.fetch(ctx)
	if err == nil {
		werr := c.store.WriteProperty([]byte(ratePropertyKey), []byte(rate.String()))
		if werr != nil {
			logger.Printf("oracle.WriteProperty() => %v\n", werr)
		}
		return rate, nil
	}
	logger.Printf("oracle.fetch() => %v\n", err)

	bs, rerr := c.store.ReadProperty([]byte(ratePropertyKey))
	if rerr == nil && len(bs) > 0 {
		rate, perr := decimal.NewFromString(string(bs))
		if perr == nil && rate.IsPositive() {
			return rate, nil
		}
	}
	if c.fallback.IsPositive() {
		return c.fallback, nil
	}
	return decimal.Zero, err
}

func (c *Client) fetch(ctx context.Context) (decimal.Decimal, error) {
	var view struct {
		Rate decimal.Decimal `json:"xin_usd"`
	}
	resp, err := c.http.R().SetContext(ctx).SetResult(&view).Get("/rates/xin")
	if err != nil {
		return decimal.Zero, err
	}
	if resp.IsError() {
		return decimal.Zero, fmt.Errorf("oracle response %d", resp.StatusCode())
	}
	if !view.Rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("oracle rate %s", view.Rate)
	}
	return view.Rate, nil
}
