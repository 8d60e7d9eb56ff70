// Package inventoryclient реализует типизированный клиент GraphQL API склада.
package inventoryclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	endpoint   string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []wireError     `json:"errors"`
}

type wireError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code    string              `json:"code"`
		Details map[string][]string `json:"details"`
	} `json:"extensions"`
}

// do выполняет операцию и раскладывает data в out. Первая ошибка ответа возвращается как *Error.
func (c *Client) do(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("inventoryclient: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("inventoryclient: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("inventoryclient: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("inventoryclient: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inventoryclient: unexpected status %d", resp.StatusCode)
	}

	var res response
	if err := json.Unmarshal(raw, &res); err != nil {
		return fmt.Errorf("inventoryclient: decode response: %w", err)
	}

	if len(res.Errors) > 0 {
		first := res.Errors[0]
		return &Error{
			Code:    Code(first.Extensions.Code),
			Message: first.Message,
			Details: first.Extensions.Details,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(res.Data, out); err != nil {
		return fmt.Errorf("inventoryclient: decode data: %w", err)
	}

	return nil
}
