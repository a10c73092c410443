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
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsReadBuffer       = 1024
	wsWriteBuffer      = 1024
	wsMessageSizeLimit = 32 * 1024 * 1024
	wsPingInterval     = 30 * time.Second
	wsPingWriteTimeout = 5 * time.Second
	wsPongTimeout      = 30 * time.Second
)

type wsHandshakeError struct {
	err    error
	status string
}

func (e wsHandshakeError) Error() string {
	s := e.err.Error()
	if e.status != "" {
		s += " (HTTP status " + e.status + ")"
	}
	return s
}

func (e wsHandshakeError) Unwrap() error { return e.err }

func newWebsocketClient(ctx context.Context, endpoint string, cfg *clientConfig) (*Client, error) {
	dialer := cfg.wsDialer
	if dialer == nil {
		dialer = &websocket.Dialer{
			ReadBufferSize:  wsReadBuffer,
			WriteBufferSize: wsWriteBuffer,
			Proxy:           http.ProxyFromEnvironment,
		}
	}
	header := make(http.Header, len(cfg.httpHeaders))
	for key, values := range cfg.httpHeaders {
		header[http.CanonicalHeaderKey(key)] = values
	}
	conn, resp, err := dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		hErr := wsHandshakeError{err: err}
		if resp != nil {
			hErr.status = resp.Status
		}
		return nil, hErr
	}
	conn.SetReadLimit(wsMessageSizeLimit)
	conn.SetPongHandler(func(appData string) error {
		conn.SetReadDeadline(time.Time{})
		return nil
	})
	c := &Client{
		endpoint: endpoint,
		log:      cfg.log,
		conn:     conn,
		pending:  make(map[string]chan *jsonrpcMessage),
		closed:   make(chan struct{}),
	}
	go c.readLoop()
	go c.pingLoop()
	return c, nil
}

// readLoop drains the connection, routing responses back to their waiting
// caller by request id.
func (c *Client) readLoop() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.teardown(err)
			return
		}
		msgs, _ := parseMessage(data)
		for _, msg := range msgs {
			c.deliver(msg)
		}
	}
}

// pingLoop sends periodic ping frames when the connection is idle.
func (c *Client) pingLoop() {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.closed:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			c.conn.SetWriteDeadline(time.Now().Add(wsPingWriteTimeout))
			c.conn.WriteMessage(websocket.PingMessage, nil)
			c.conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
			c.writeMu.Unlock()
		}
	}
}

func (c *Client) deliver(msg *jsonrpcMessage) {
	if msg == nil || !msg.isResponse() {
		c.log.Debug("dropping non-response message", zap.String("msg", msg.String()))
		return
	}
	c.pendingMu.Lock()
	ch, ok := c.pending[string(msg.ID)]
	if ok {
		delete(c.pending, string(msg.ID))
	}
	c.pendingMu.Unlock()
	if !ok {
		c.log.Debug("dropping unsolicited response", zap.String("id", string(msg.ID)))
		return
	}
	ch <- msg
}

// teardown fails every pending request after the connection broke.
func (c *Client) teardown(err error) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	if c.readErr == nil {
		c.readErr = err
	}
	for id, ch := range c.pending {
		delete(c.pending, id)
		close(ch)
	}
}

func (c *Client) opRegister(msgs ...*jsonrpcMessage) ([]chan *jsonrpcMessage, error) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	if c.readErr != nil {
		return nil, c.readErr
	}
	chs := make([]chan *jsonrpcMessage, len(msgs))
	for i, msg := range msgs {
		ch := make(chan *jsonrpcMessage, 1)
		c.pending[string(msg.ID)] = ch
		chs[i] = ch
	}
	return chs, nil
}

func (c *Client) opCancel(msgs ...*jsonrpcMessage) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	for _, msg := range msgs {
		delete(c.pending, string(msg.ID))
	}
}

func (c *Client) readError() error {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	if c.readErr != nil {
		return c.readErr
	}
	return ErrClientQuit
}

func (c *Client) waitResponse(ctx context.Context, ch chan *jsonrpcMessage) (*jsonrpcMessage, error) {
	select {
	case msg, ok := <-ch:
		if !ok {
			return nil, c.readError()
		}
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.closed:
		return nil, ErrClientQuit
	}
}

func (c *Client) writeJSON(ctx context.Context, v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultWriteTimeout)
	}
	c.conn.SetWriteDeadline(deadline)
	return c.conn.WriteJSON(v)
}

func (c *Client) sendWS(ctx context.Context, msg *jsonrpcMessage) (*jsonrpcMessage, error) {
	chs, err := c.opRegister(msg)
	if err != nil {
		return nil, err
	}
	if err := c.writeJSON(ctx, msg); err != nil {
		c.opCancel(msg)
		return nil, err
	}
	resp, err := c.waitResponse(ctx, chs[0])
	if err != nil {
		c.opCancel(msg)
	}
	return resp, err
}

func (c *Client) sendBatchWS(ctx context.Context, msgs []*jsonrpcMessage) ([]*jsonrpcMessage, error) {
	chs, err := c.opRegister(msgs...)
	if err != nil {
		return nil, err
	}
	if err := c.writeJSON(ctx, msgs); err != nil {
		c.opCancel(msgs...)
		return nil, err
	}
	resp := make([]*jsonrpcMessage, 0, len(msgs))
	for i, ch := range chs {
		msg, err := c.waitResponse(ctx, ch)
		if err != nil {
			c.opCancel(msgs[i:]...)
			return nil, err
		}
		resp = append(resp, msg)
	}
	return resp, nil
}
