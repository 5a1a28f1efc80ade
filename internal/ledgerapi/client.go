package ledgerapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the node's HTTP API. Timeouts and retries beyond the basic
// request deadline belong to the caller-supplied http.Client.
type Client struct {
	base   string
	http   *http.Client
	logger *slog.Logger
}

// NewClient builds a node client rooted at baseURL (e.g. "https://node/api/v1/").
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		base:   strings.TrimSuffix(baseURL, "/"),
		http:   &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

type accountInfoResponse struct {
	Balance  json.Number `json:"balance"`
	Sequence uint32      `json:"sequence"`
	IsActive bool        `json:"isActive"`
}

// AccountInfo fetches balance, sequence and activation for an account.
func (c *Client) AccountInfo(ctx context.Context, address string) (AccountInfo, error) {
	var resp accountInfoResponse
	if err := c.get(ctx, "account/"+url.PathEscape(address), nil, &resp); err != nil {
		return AccountInfo{}, err
	}
	return AccountInfo{
		Balance:  resp.Balance.String(),
		Sequence: resp.Sequence,
		IsActive: resp.IsActive,
	}, nil
}

// Fee fetches the current per-transaction fee in major units.
func (c *Client) Fee(ctx context.Context) (string, error) {
	var resp struct {
		Fee json.Number `json:"fee"`
	}
	if err := c.get(ctx, "fee", nil, &resp); err != nil {
		return "", err
	}
	return resp.Fee.String(), nil
}

// MaxLedgerVersion fetches the current submission deadline.
func (c *Client) MaxLedgerVersion(ctx context.Context) (uint32, error) {
	var resp struct {
		MaxLedgerVersion uint32 `json:"maxLedgerVersion"`
	}
	if err := c.get(ctx, "ledgerVersion", nil, &resp); err != nil {
		return 0, err
	}
	return resp.MaxLedgerVersion, nil
}

// Submit posts a signed transaction blob and returns the transaction ID.
func (c *Client) Submit(ctx context.Context, rawtx string) (string, error) {
	var resp struct {
		TxID string `json:"txId"`
	}
	if err := c.post(ctx, "tx/send", map[string]string{"rawtx": rawtx}, &resp); err != nil {
		return "", err
	}
	return resp.TxID, nil
}

type txResponse struct {
	ID             string      `json:"id"`
	From           string      `json:"from"`
	To             string      `json:"to"`
	Amount         json.Number `json:"amount"`
	Fee            json.Number `json:"fee"`
	Timestamp      time.Time   `json:"timestamp"`
	Status         bool        `json:"status"`
	DestinationTag *uint32     `json:"destinationTag"`
	InvoiceID      string      `json:"invoiceId"`
}

func (t txResponse) toTx() Tx {
	return Tx{
		ID:             t.ID,
		From:           t.From,
		To:             t.To,
		Amount:         t.Amount.String(),
		Fee:            t.Fee.String(),
		Timestamp:      t.Timestamp,
		Status:         t.Status,
		DestinationTag: t.DestinationTag,
		InvoiceID:      t.InvoiceID,
	}
}

// AccountTxs fetches one page of account history starting at cursor.
func (c *Client) AccountTxs(ctx context.Context, address, cursor string) (TxPage, error) {
	params := url.Values{}
	if cursor != "" {
		params.Set("start", cursor)
	}
	var resp struct {
		Transactions []txResponse `json:"transactions"`
		HasMore      bool         `json:"hasMore"`
		Cursor       string       `json:"cursor"`
	}
	if err := c.get(ctx, "account/"+url.PathEscape(address)+"/txs", params, &resp); err != nil {
		return TxPage{}, err
	}
	page := TxPage{HasMore: resp.HasMore, Cursor: resp.Cursor}
	for _, tx := range resp.Transactions {
		page.Transactions = append(page.Transactions, tx.toTx())
	}
	return page, nil
}

// Tx fetches a single transaction by ID.
func (c *Client) Tx(ctx context.Context, id string) (Tx, error) {
	var resp txResponse
	if err := c.get(ctx, "tx/"+url.PathEscape(id), nil, &resp); err != nil {
		return Tx{}, err
	}
	return resp.toTx(), nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.base + "/" + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/"+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", req.Method, req.URL.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		nodeErr := &NodeError{StatusCode: resp.StatusCode}
		var body struct {
			ResultCode string `json:"resultCode"`
			Error      string `json:"error"`
		}
		if err := json.Unmarshal(raw, &body); err == nil {
			nodeErr.Code = body.ResultCode
			nodeErr.Message = body.Error
		}
		c.logger.Warn("node request failed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.Int("status", resp.StatusCode),
			slog.String("result_code", nodeErr.Code))
		return nodeErr
	}

	if out == nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
