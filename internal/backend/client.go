// Package backend клиент REST API бэкенда сервиса: авторизация, подписка, оплата,
// обращения в поддержку и админские ресурсы.
//
// Все вызовы принимают context.Context. Отмена контекста прерывает запрос,
// а вызывающий код отбрасывает результат.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxBodySize ограничение на размер тела ответа.
const maxBodySize = 4 << 20

// Client клиент REST API бэкенда.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option настройка клиента.
type Option func(*Client)

// WithTransport подменяет транспорт, например, на инструментированный метриками.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.httpClient.Transport = rt }
}

// New создает клиент. Базовый адрес один на все вызовы.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body any) (*http.Request, error) {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// raw выполняет запрос и возвращает тело успешного ответа, снятое с обертки {"response": ...}.
func (c *Client) raw(ctx context.Context, method, path, token string, body any) (json.RawMessage, error) {
	op := "backend." + method + " " + path

	req, err := c.newRequest(ctx, method, path, token, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", op, ctxErr)
		}
		return nil, fmt.Errorf("%s: %w", op, &NetworkError{Err: err})
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, &NetworkError{Err: err})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %w", op, classify(resp.StatusCode, data))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%s: %w", op, &ServerError{Status: resp.StatusCode, Err: errors.New("malformed json")})
	}
	return unwrap(data), nil
}

// do выполняет запрос и раскладывает ответ в out, если он не nil.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	data, err := c.raw(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	if out == nil || data == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("backend.%s %s: %w", method, path, &ServerError{Status: http.StatusOK, Err: err})
	}
	return nil
}

// unwrap снимает обертку {"response": ...}, если она есть.
func unwrap(data json.RawMessage) json.RawMessage {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(data, &env); err != nil {
		return data
	}
	if inner, ok := env["response"]; ok && string(inner) != "null" {
		return inner
	}
	return data
}

// MessageResponse ответ с текстом для пользователя.
type MessageResponse struct {
	Message string `json:"message"`
}
