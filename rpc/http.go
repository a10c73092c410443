// Copyright 2024 The go-dece Authors
// This file is part of the go-dece library.
//
// The go-dece library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-dece library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-dece library. If not, see <http://www.gnu.org/licenses/>.

package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPError is returned by client operations when the HTTP status code of the
// response is not a 2xx status.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (err HTTPError) Error() string {
	if len(err.Body) == 0 {
		return err.Status
	}
	return fmt.Sprintf("%v: %s", err.Status, err.Body)
}

func newHTTPClient(endpoint string, cfg *clientConfig) *Client {
	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = new(http.Client)
	}
	headers := make(http.Header, 2+len(cfg.httpHeaders))
	headers.Set("accept", "application/json")
	headers.Set("content-type", "application/json")
	for key, values := range cfg.httpHeaders {
		headers[http.CanonicalHeaderKey(key)] = values
	}
	return &Client{
		endpoint:   endpoint,
		isHTTP:     true,
		log:        cfg.log,
		httpClient: httpClient,
		headers:    headers,
		closed:     make(chan struct{}),
	}
}

func (c *Client) sendHTTP(ctx context.Context, msg *jsonrpcMessage) (*jsonrpcMessage, error) {
	body, err := c.doPost(ctx, msg)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp jsonrpcMessage
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) sendBatchHTTP(ctx context.Context, msgs []*jsonrpcMessage) ([]*jsonrpcMessage, error) {
	body, err := c.doPost(ctx, msgs)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if !isBatch(raw) {
		// Certain servers respond with a single error object when the whole
		// batch is rejected. Surface it as the call error.
		var resp jsonrpcMessage
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, err
		}
		if resp.Error != nil {
			return nil, resp.Error
		}
		return nil, fmt.Errorf("rpc: non-batch response to batch request")
	}
	var resp []*jsonrpcMessage
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) doPost(ctx context.Context, msg interface{}) (io.ReadCloser, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.ContentLength = int64(len(body))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	req.Header = c.headers.Clone()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var buf bytes.Buffer
		var respBody []byte
		if _, err := buf.ReadFrom(resp.Body); err == nil {
			respBody = buf.Bytes()
		}
		resp.Body.Close()
		return nil, HTTPError{
			Status:     resp.Status,
			StatusCode: resp.StatusCode,
			Body:       respBody,
		}
	}
	return resp.Body, nil
}
