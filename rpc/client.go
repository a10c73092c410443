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

// Package rpc implements the JSON-RPC 2.0 client side used to talk to dece
// nodes over HTTP and WebSocket.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ErrClientQuit is returned when the connection was closed while a call was
// waiting for its response.
var ErrClientQuit = errors.New("client is closed")

const defaultWriteTimeout = 10 * time.Second // used if context has no deadline

// BatchElem is an element in a batch request.
type BatchElem struct {
	Method string
	Args   []interface{}
	// The result is unmarshaled into this field. Result must be set to a
	// non-nil pointer value of the desired type, otherwise the response will be
	// discarded.
	Result interface{}
	// Error is set if the server returns an error for this request, or if
	// unmarshaling into Result fails. It is not set for I/O errors.
	Error error
}

// Client represents a connection to an RPC server. Requests over HTTP are
// independent POSTs, requests over WebSocket multiplex onto one connection and
// are matched back to their caller by request id.
type Client struct {
	endpoint string
	isHTTP   bool
	log      *zap.Logger

	idCounter atomic.Uint64

	// HTTP transport
	httpClient *http.Client
	headers    http.Header

	// WebSocket transport
	conn      *websocket.Conn
	writeMu   sync.Mutex // serializes frame writes
	pendingMu sync.Mutex // guards pending and readErr
	pending   map[string]chan *jsonrpcMessage
	readErr   error
	closeOnce sync.Once
	closed    chan struct{}
}

type clientConfig struct {
	httpClient  *http.Client
	httpHeaders http.Header
	wsDialer    *websocket.Dialer
	log         *zap.Logger
}

// ClientOption is a configuration option for the RPC client.
type ClientOption interface {
	applyOption(*clientConfig)
}

type optionFunc func(*clientConfig)

func (fn optionFunc) applyOption(opt *clientConfig) {
	fn(opt)
}

// WithHTTPClient configures the http.Client used for requests over HTTP(S)
// endpoints.
func WithHTTPClient(c *http.Client) ClientOption {
	return optionFunc(func(cfg *clientConfig) {
		cfg.httpClient = c
	})
}

// WithHeader configures an extra HTTP header sent with every request.
func WithHeader(key, value string) ClientOption {
	return optionFunc(func(cfg *clientConfig) {
		if cfg.httpHeaders == nil {
			cfg.httpHeaders = make(http.Header)
		}
		cfg.httpHeaders.Set(key, value)
	})
}

// WithWebsocketDialer configures the websocket.Dialer used for requests over
// ws:// and wss:// endpoints.
func WithWebsocketDialer(dialer *websocket.Dialer) ClientOption {
	return optionFunc(func(cfg *clientConfig) {
		cfg.wsDialer = dialer
	})
}

// WithLogger configures the logger the client reports transport events to.
func WithLogger(log *zap.Logger) ClientOption {
	return optionFunc(func(cfg *clientConfig) {
		cfg.log = log
	})
}

// Dial creates a new client for the given URL. The currently supported URL
// schemes are "http", "https", "ws" and "wss".
func Dial(rawurl string, options ...ClientOption) (*Client, error) {
	return DialContext(context.Background(), rawurl, options...)
}

// DialContext creates a new RPC client for the given URL. The context is used
// to cancel or time out the initial connection establishment. It does not
// affect subsequent interactions with the client.
func DialContext(ctx context.Context, rawurl string, options ...ClientOption) (*Client, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, err
	}
	cfg := new(clientConfig)
	for _, opt := range options {
		opt.applyOption(cfg)
	}
	if cfg.log == nil {
		cfg.log = zap.NewNop()
	}
	switch u.Scheme {
	case "http", "https":
		return newHTTPClient(rawurl, cfg), nil
	case "ws", "wss":
		return newWebsocketClient(ctx, rawurl, cfg)
	default:
		return nil, fmt.Errorf("no known transport for URL scheme %q", u.Scheme)
	}
}

// Close shuts the client down, releasing the underlying connection. Calls
// waiting for a response return ErrClientQuit.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

func (c *Client) nextID() json.RawMessage {
	id := c.idCounter.Add(1)
	return strconv.AppendUint(nil, id, 10)
}

func (c *Client) newMessage(method string, paramsIn ...interface{}) (*jsonrpcMessage, error) {
	msg := &jsonrpcMessage{Version: vsn, ID: c.nextID(), Method: method}
	if paramsIn != nil { // prevent sending "params":null
		var err error
		if msg.Params, err = json.Marshal(paramsIn); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

// Call performs a JSON-RPC call with the given arguments and unmarshals into
// result if no error occurred.
//
// The result must be a pointer so that package json can unmarshal into it. You
// can also pass nil, in which case the result is ignored.
func (c *Client) Call(result interface{}, method string, args ...interface{}) error {
	return c.CallContext(context.Background(), result, method, args...)
}

// CallContext performs a JSON-RPC call with the given arguments. If the context
// is canceled before the call has successfully returned, CallContext returns
// immediately.
func (c *Client) CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	if result != nil && reflect.TypeOf(result).Kind() != reflect.Ptr {
		return fmt.Errorf("call result parameter must be pointer or nil interface: %v", result)
	}
	msg, err := c.newMessage(method, args...)
	if err != nil {
		return err
	}
	var resp *jsonrpcMessage
	if c.isHTTP {
		resp, err = c.sendHTTP(ctx, msg)
	} else {
		resp, err = c.sendWS(ctx, msg)
	}
	if err != nil {
		return err
	}
	switch {
	case resp.Error != nil:
		return resp.Error
	case len(resp.Result) == 0:
		return ErrNoResult
	default:
		if result == nil {
			return nil
		}
		return json.Unmarshal(resp.Result, result)
	}
}

// BatchCall sends all given requests as a single batch and waits for the server
// to return a response for all of them.
func (c *Client) BatchCall(b []BatchElem) error {
	return c.BatchCallContext(context.Background(), b)
}

// BatchCallContext sends all given requests as a single batch and waits for
// the server to return a response for all of them. The wait duration is
// bounded by the context's deadline.
//
// In contrast to CallContext, BatchCallContext only returns errors that have
// occurred while sending the request. Any error specific to a request is
// reported through the Error field of the corresponding BatchElem.
//
// Note that batch calls may not be executed atomically on the server side.
func (c *Client) BatchCallContext(ctx context.Context, b []BatchElem) error {
	var (
		msgs = make([]*jsonrpcMessage, len(b))
		byID = make(map[string]int, len(b))
	)
	for i, elem := range b {
		msg, err := c.newMessage(elem.Method, elem.Args...)
		if err != nil {
			return err
		}
		msgs[i] = msg
		byID[string(msg.ID)] = i
	}
	var (
		resp []*jsonrpcMessage
		err  error
	)
	if c.isHTTP {
		resp, err = c.sendBatchHTTP(ctx, msgs)
	} else {
		resp, err = c.sendBatchWS(ctx, msgs)
	}
	if err != nil {
		return err
	}
	for _, msg := range resp {
		if msg == nil {
			continue
		}
		idx, ok := byID[string(msg.ID)]
		if !ok {
			c.log.Debug("dropping batch response with unknown id", zap.String("id", string(msg.ID)))
			continue
		}
		delete(byID, string(msg.ID))
		elem := &b[idx]
		switch {
		case msg.Error != nil:
			elem.Error = msg.Error
		case len(msg.Result) == 0:
			elem.Error = ErrNoResult
		default:
			if elem.Result != nil {
				elem.Error = json.Unmarshal(msg.Result, elem.Result)
			}
		}
	}
	// Requests the server did not answer fail with a sentinel.
	for _, idx := range byID {
		b[idx].Error = ErrMissingBatchResponse
	}
	return nil
}
