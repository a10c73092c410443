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
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// handleTestRequest implements the toy service the test servers expose.
// A nil return means the request is deliberately left unanswered.
func handleTestRequest(msg *jsonrpcMessage) *jsonrpcMessage {
	resp := &jsonrpcMessage{Version: vsn, ID: msg.ID}
	switch msg.Method {
	case "test_echo":
		resp.Result = msg.Params
	case "test_fail":
		resp.Error = &jsonError{Code: 3, Message: "boom", Data: "details"}
	case "test_noResult":
		// neither result nor error
	case "test_noAnswer":
		return nil
	default:
		resp.Error = &jsonError{Code: -32601, Message: "method not found"}
	}
	return resp
}

func newTestHTTPServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")

		msgs, batch := parseMessage(body)
		if !batch {
			if resp := handleTestRequest(msgs[0]); resp != nil {
				json.NewEncoder(w).Encode(resp)
			}
			return
		}
		resps := make([]*jsonrpcMessage, 0, len(msgs))
		for _, msg := range msgs {
			if resp := handleTestRequest(msg); resp != nil {
				resps = append(resps, resp)
			}
		}
		json.NewEncoder(w).Encode(resps)
	}))
}

func newHTTPTestClient(t *testing.T, srv *httptest.Server, options ...ClientOption) *Client {
	t.Helper()
	client, err := Dial(srv.URL, options...)
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestDialUnknownScheme(t *testing.T) {
	_, err := Dial("ftp://localhost:1234")
	require.ErrorContains(t, err, "no known transport")
}

func TestClientCall(t *testing.T) {
	srv := newTestHTTPServer(t)
	defer srv.Close()
	client := newHTTPTestClient(t, srv)

	var result []string
	err := client.Call(&result, "test_echo", "hello", "dece")
	require.NoError(t, err)
	require.Equal(t, []string{"hello", "dece"}, result)
}

func TestClientCallNilResult(t *testing.T) {
	srv := newTestHTTPServer(t)
	defer srv.Close()
	client := newHTTPTestClient(t, srv)

	require.NoError(t, client.Call(nil, "test_echo", 1))
}

func TestClientCallNonPointerResult(t *testing.T) {
	srv := newTestHTTPServer(t)
	defer srv.Close()
	client := newHTTPTestClient(t, srv)

	var result string
	err := client.Call(result, "test_echo", "x")
	require.ErrorContains(t, err, "must be pointer")
}

func TestClientCallError(t *testing.T) {
	srv := newTestHTTPServer(t)
	defer srv.Close()
	client := newHTTPTestClient(t, srv)

	err := client.Call(nil, "test_fail")
	require.EqualError(t, err, "boom")

	rpcErr, ok := err.(Error)
	require.True(t, ok, "expected rpc.Error, got %T", err)
	require.Equal(t, 3, rpcErr.ErrorCode())

	dataErr, ok := err.(DataError)
	require.True(t, ok, "expected rpc.DataError, got %T", err)
	require.Equal(t, "details", dataErr.ErrorData())
}

func TestClientCallNoResult(t *testing.T) {
	srv := newTestHTTPServer(t)
	defer srv.Close()
	client := newHTTPTestClient(t, srv)

	var result string
	err := client.Call(&result, "test_noResult")
	require.ErrorIs(t, err, ErrNoResult)
}

func TestClientCallHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oops", http.StatusTeapot)
	}))
	defer srv.Close()
	client := newHTTPTestClient(t, srv)

	err := client.Call(nil, "test_echo")
	var httpErr HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusTeapot, httpErr.StatusCode)
	require.Contains(t, httpErr.Error(), "oops")
}

func TestClientCallContextCanceled(t *testing.T) {
	srv := newTestHTTPServer(t)
	defer srv.Close()
	client := newHTTPTestClient(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := client.CallContext(ctx, nil, "test_echo", 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestClientBatchCall(t *testing.T) {
	srv := newTestHTTPServer(t)
	defer srv.Close()
	client := newHTTPTestClient(t, srv)

	var (
		first  []int
		second string
	)
	batch := []BatchElem{
		{Method: "test_echo", Args: []interface{}{7, 11}, Result: &first},
		{Method: "test_fail", Result: &second},
		{Method: "test_noAnswer", Result: &second},
		{Method: "test_noResult", Result: &second},
	}
	require.NoError(t, client.BatchCall(batch))

	require.NoError(t, batch[0].Error)
	require.Equal(t, []int{7, 11}, first)

	require.EqualError(t, batch[1].Error, "boom")
	require.ErrorIs(t, batch[2].Error, ErrMissingBatchResponse)
	require.ErrorIs(t, batch[3].Error, ErrNoResult)
}

func TestClientBatchCallWholeRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(&jsonrpcMessage{
			Version: vsn,
			ID:      json.RawMessage("1"),
			Error:   &jsonError{Code: -32600, Message: "batch too large"},
		})
	}))
	defer srv.Close()
	client := newHTTPTestClient(t, srv)

	batch := []BatchElem{{Method: "test_echo"}}
	err := client.BatchCall(batch)
	require.EqualError(t, err, "batch too large")
}

func TestClientCustomHeaders(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Token")
		w.Header().Set("Content-Type", "application/json")
		body, _ := io.ReadAll(r.Body)
		msgs, _ := parseMessage(body)
		json.NewEncoder(w).Encode(handleTestRequest(msgs[0]))
	}))
	defer srv.Close()

	client := newHTTPTestClient(t, srv, WithHeader("X-Token", "secret"))
	require.NoError(t, client.Call(nil, "test_echo", 1))
	require.Equal(t, "secret", gotToken)
}

func TestClientRequestIDsIncrease(t *testing.T) {
	var ids []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		msgs, _ := parseMessage(body)
		ids = append(ids, string(msgs[0].ID))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(handleTestRequest(msgs[0]))
	}))
	defer srv.Close()
	client := newHTTPTestClient(t, srv)

	require.NoError(t, client.Call(nil, "test_echo", 1))
	require.NoError(t, client.Call(nil, "test_echo", 2))
	require.Equal(t, []string{"1", "2"}, ids)
}
