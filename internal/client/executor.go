package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"
)

// execute sends req and waits at most c.timeout for the response headers.
//
// One timer is armed per request and stopped as soon as Do settles. The request context stays alive
// until the response body is closed so the body can still be read after the timer is disarmed.
// Transport errors other than the timeout are returned unchanged.
func (c *Client) execute(req *http.Request) (*http.Response, error) {
	ctx, cancel := context.WithCancelCause(req.Context())
	timer := time.AfterFunc(c.timeout, func() { cancel(ErrTimeout) })

	res, err := c.httpClient.Do(req.WithContext(ctx))
	stopped := timer.Stop()

	if err != nil {
		cancel(nil)
		if errors.Is(context.Cause(ctx), ErrTimeout) {
			return nil, ErrTimeout
		}
		return nil, err
	}

	// the timer fired while Do was returning: the body is already cancelled and cannot be read
	if !stopped {
		res.Body.Close()
		cancel(nil)
		return nil, ErrTimeout
	}

	res.Body = &releasingBody{ReadCloser: res.Body, release: func() { cancel(nil) }}
	return res, nil
}

// releasingBody releases the request context when the body is closed
type releasingBody struct {
	io.ReadCloser
	once    sync.Once
	release func()
}

func (b *releasingBody) Close() error {
	err := b.ReadCloser.Close()
	b.once.Do(b.release)
	return err
}
