package whatsapp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(url string) *Client {
	c := NewClient(url, "user", "pass", "device", 3)
	c.Backoff = time.Millisecond
	return c
}

func TestSendRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"success":true,"data":{"message_id":"m1","status":"sent"}}`))
	}))
	defer server.Close()

	resp, err := testClient(server.URL).SendMessage("0650000001", "bonjour")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestSendGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(server.URL).SendMessage("0650000001", "bonjour")
	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls), "bounded retries")
}

func TestSendNeverRetriesClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := testClient(server.URL).SendMessage("0650000001", "bonjour")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "4xx must not be retried")
}

func TestPhoneNumberConversion(t *testing.T) {
	c := testClient("http://unused")
	assert.Equal(t, "2376500000017", c.convertPhoneNumber("06500000017"))
	assert.Equal(t, "237650000001", c.convertPhoneNumber("237650000001"))
}

func TestGroupJIDSuffix(t *testing.T) {
	var gotPhone string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			gotPhone = req.Phone
		}
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).SendGroupMessage("12036304@g.us", "rapport")
	require.NoError(t, err)
	assert.Equal(t, "12036304@g.us", gotPhone)

	_, err = testClient(server.URL).SendGroupMessage("12036305", "rapport")
	require.NoError(t, err)
	assert.Equal(t, "12036305@g.us", gotPhone)
}
