package inventory

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/MixinNetwork/launchpad/mint"
	"github.com/MixinNetwork/launchpad/minter"
	"github.com/go-resty/resty/v2"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// Client talks to the inventory service, the authority on collections,
// phases and remaining supply. Responses carry a machine error code which
// maps onto the mint error taxonomy.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string) *Client {
	c := resty.New()
	c.SetHostURL(baseURL)
	c.SetTimeout(30 * time.Second)
	c.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		r.SetHeader("X-Request-ID", id.String())
		return nil
	})
	return &Client{http: c}
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type phaseView struct {
	PhaseId     string          `json:"phase_id"`
	Name        string          `json:"name"`
	Type        string          `json:"phase_type"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	StartAt     time.Time       `json:"start_at"`
	EndAt       *time.Time      `json:"end_at"`
	WalletLimit int             `json:"wallet_limit"`
	AllowList   []string        `json:"allow_list"`
}

type collectionView struct {
	CollectionId string       `json:"collection_id"`
	Name         string       `json:"name"`
	Creator      string       `json:"creator"`
	TotalSupply  int64        `json:"total_supply"`
	MintedCount  int64        `json:"minted_count"`
	Phases       []*phaseView `json:"phases"`
	Error        *apiError    `json:"error"`
}

func (c *Client) ReadCollection(ctx context.Context, collectionId string) (*mint.Collection, error) {
	var view collectionView
	resp, err := c.http.R().SetContext(ctx).SetResult(&view).SetError(&view).
		Get("/collections/" + collectionId)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, mapError(resp.StatusCode(), view.Error)
	}
	col := &mint.Collection{
		CollectionId: view.CollectionId,
		Name:         view.Name,
		Creator:      view.Creator,
		TotalSupply:  view.TotalSupply,
		MintedCount:  view.MintedCount,
	}
	for _, p := range view.Phases {
		col.Phases = append(col.Phases, &mint.Phase{
			PhaseId:     p.PhaseId,
			Name:        p.Name,
			Type:        p.Type,
			UnitPrice:   p.UnitPrice,
			StartAt:     p.StartAt,
			EndAt:       p.EndAt,
			WalletLimit: p.WalletLimit,
			AllowList:   p.AllowList,
		})
	}
	return col, nil
}

func (c *Client) BuildMintTransaction(ctx context.Context, collectionId, buyer string, unitPrice decimal.Decimal) (*minter.UnsignedTransaction, error) {
	var view struct {
		Transaction    string    `json:"transaction"`
		IdempotencyKey string    `json:"idempotency_key"`
		Error          *apiError `json:"error"`
	}
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]interface{}{
			"buyer":      buyer,
			"unit_price": unitPrice.String(),
		}).
		SetResult(&view).SetError(&view).
		Post("/collections/" + collectionId + "/mint")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, mapError(resp.StatusCode(), view.Error)
	}
	raw, err := base64.RawURLEncoding.DecodeString(view.Transaction)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction encoding %s", view.Transaction)
	}
	if view.IdempotencyKey == "" {
		return nil, fmt.Errorf("empty idempotency key for %s", collectionId)
	}
	return &minter.UnsignedTransaction{
		Raw:            raw,
		IdempotencyKey: view.IdempotencyKey,
	}, nil
}

func (c *Client) FinalizeMint(ctx context.Context, collectionId, buyer, signature, idempotencyKey string) error {
	var view struct {
		Success bool      `json:"success"`
		Error   *apiError `json:"error"`
	}
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]interface{}{
			"buyer":           buyer,
			"signature":       signature,
			"idempotency_key": idempotencyKey,
		}).
		SetResult(&view).SetError(&view).
		Put("/collections/" + collectionId + "/finalize")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return mapError(resp.StatusCode(), view.Error)
	}
	if !view.Success {
		return fmt.Errorf("finalize rejected for %s", idempotencyKey)
	}
	return nil
}

func (c *Client) ReportMintFailure(ctx context.Context, collectionId, buyer string, quantity int, reason string) error {
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]interface{}{
			"buyer":    buyer,
			"quantity": quantity,
			"error":    reason,
		}).
		Post("/collections/" + collectionId + "/failures")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("failure report rejected %d", resp.StatusCode())
	}
	return nil
}

func (c *Client) ReadProgress(ctx context.Context, collectionId string) (*minter.Progress, error) {
	var view struct {
		CollectionId string    `json:"collection_id"`
		MintedCount  int64     `json:"minted_count"`
		TotalSupply  int64     `json:"total_supply"`
		Error        *apiError `json:"error"`
	}
	resp, err := c.http.R().SetContext(ctx).SetResult(&view).SetError(&view).
		Get("/collections/" + collectionId + "/progress")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, mapError(resp.StatusCode(), view.Error)
	}
	return &minter.Progress{
		CollectionId: view.CollectionId,
		MintedCount:  view.MintedCount,
		TotalSupply:  view.TotalSupply,
	}, nil
}

func mapError(status int, ae *apiError) error {
	if ae != nil {
		switch ae.Code {
		case "collection_not_found":
			return mint.ErrCollectionNotFound
		case "phase_not_active":
			return mint.ErrPhaseNotActive
		case "supply_exhausted":
			return mint.ErrSupplyExhausted
		}
		if ae.Description != "" {
			return fmt.Errorf("inventory %d %s: %s", status, ae.Code, ae.Description)
		}
	}
	return fmt.Errorf("inventory response %d", status)
}
