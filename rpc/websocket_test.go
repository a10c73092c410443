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
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func newTestWSServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			msgs, batch := parseMessage(data)
			if batch {
				resps := make([]*jsonrpcMessage, 0, len(msgs))
				for _, msg := range msgs {
					if resp := handleTestRequest(msg); resp != nil {
						resps = append(resps, resp)
					}
				}
				conn.WriteJSON(resps)
				continue
			}
			if msgs[0].Method == "test_notify" {
				// A notification lands on the wire before the real response.
				conn.WriteJSON(&jsonrpcMessage{
					Version: vsn,
					Method:  "test_subscription",
					Params:  json.RawMessage(`{"subscription":"0x1"}`),
				})
				conn.WriteJSON(&jsonrpcMessage{
					Version: vsn,
					ID:      msgs[0].ID,
					Result:  json.RawMessage(`"ok"`),
				})
				continue
			}
			if resp := handleTestRequest(msgs[0]); resp != nil {
				conn.WriteJSON(resp)
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func newWSTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	client, err := DialContext(context.Background(), wsURL(srv))
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestWSClientCall(t *testing.T) {
	srv := newTestWSServer(t)
	defer srv.Close()
	client := newWSTestClient(t, srv)

	var result []string
	err := client.Call(&result, "test_echo", "over", "websocket")
	require.NoError(t, err)
	require.Equal(t, []string{"over", "websocket"}, result)

	err = client.Call(nil, "test_fail")
	require.EqualError(t, err, "boom")
}

func TestWSClientBatchCall(t *testing.T) {
	srv := newTestWSServer(t)
	defer srv.Close()
	client := newWSTestClient(t, srv)

	var first []int
	batch := []BatchElem{
		{Method: "test_echo", Args: []interface{}{1, 2, 3}, Result: &first},
		{Method: "test_fail"},
	}
	require.NoError(t, client.BatchCall(batch))
	require.NoError(t, batch[0].Error)
	require.Equal(t, []int{1, 2, 3}, first)
	require.EqualError(t, batch[1].Error, "boom")
}

func TestWSClientBatchCallTimeout(t *testing.T) {
	srv := newTestWSServer(t)
	defer srv.Close()
	client := newWSTestClient(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	// The server never answers the second element, the batch runs into the
	// context deadline.
	batch := []BatchElem{
		{Method: "test_echo", Args: []interface{}{1}},
		{Method: "test_noAnswer"},
	}
	err := client.BatchCallContext(ctx, batch)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWSClientConcurrent(t *testing.T) {
	srv := newTestWSServer(t)
	defer srv.Close()
	client := newWSTestClient(t, srv)

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				want := fmt.Sprintf("msg-%d-%d", g, i)
				var result []string
				if err := client.Call(&result, "test_echo", want); err != nil {
					errs <- err
					return
				}
				if len(result) != 1 || result[0] != want {
					errs <- fmt.Errorf("echo mismatch: got %v, want %s", result, want)
					return
				}
			}
		}(g)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestWSClientSkipsNotifications(t *testing.T) {
	srv := newTestWSServer(t)
	defer srv.Close()
	client := newWSTestClient(t, srv)

	var result string
	err := client.Call(&result, "test_notify")
	require.NoError(t, err)
	require.Equal(t, "ok", result)
}

func TestWSClientServerGone(t *testing.T) {
	srv := newTestWSServer(t)
	client := newWSTestClient(t, srv)

	srv.CloseClientConnections()
	srv.Close()

	// Either the write or the wait observes the broken connection.
	err := client.Call(nil, "test_echo", 1)
	require.Error(t, err)
}

func TestWSClientHandshakeError(t *testing.T) {
	// Plain HTTP endpoint, the upgrade can never succeed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := DialContext(context.Background(), wsURL(srv))
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad handshake")
}

func TestWSClientClosed(t *testing.T) {
	srv := newTestWSServer(t)
	defer srv.Close()
	client := newWSTestClient(t, srv)

	client.Close()
	err := client.Call(nil, "test_echo", 1)
	require.Error(t, err)
}
