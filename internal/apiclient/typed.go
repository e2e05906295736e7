package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

func Get[T any](ctx context.Context, c *Client, endpoint string, opts ...Option) (T, error) {
	return call[T](ctx, c, http.MethodGet, endpoint, nil, opts)
}

func Post[T any](ctx context.Context, c *Client, endpoint string, data any, opts ...Option) (T, error) {
	return call[T](ctx, c, http.MethodPost, endpoint, data, opts)
}

func Put[T any](ctx context.Context, c *Client, endpoint string, data any, opts ...Option) (T, error) {
	return call[T](ctx, c, http.MethodPut, endpoint, data, opts)
}

func Patch[T any](ctx context.Context, c *Client, endpoint string, data any, opts ...Option) (T, error) {
	return call[T](ctx, c, http.MethodPatch, endpoint, data, opts)
}

func Delete[T any](ctx context.Context, c *Client, endpoint string, opts ...Option) (T, error) {
	return call[T](ctx, c, http.MethodDelete, endpoint, nil, opts)
}

func call[T any](ctx context.Context, c *Client, method, endpoint string, data any, opts []Option) (T, error) {
	var out T

	resp, err := c.Do(ctx, method, endpoint, data, opts...)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return out, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if errors.Is(err, context.DeadlineExceeded) || deadlineHit(resp.Body) {
			log.Warn().Str("method", method).Str("path", endpoint).Msg("[API] response body timed out")
			return out, &Error{Kind: KindTimeout, Status: resp.StatusCode, Message: MsgTimeout, Err: err}
		}
		apiErr := &Error{Kind: KindHTTP, Status: resp.StatusCode, Message: MsgGeneric, Err: err}
		if !c.production {
			apiErr.Detail = err.Error()
		}
		return out, apiErr
	}
	return out, nil
}

func deadlineHit(body io.ReadCloser) bool {
	b, ok := body.(*cancelOnClose)
	return ok && errors.Is(b.ctx.Err(), context.DeadlineExceeded)
}
