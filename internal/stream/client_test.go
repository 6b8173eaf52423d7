package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAccountFindsMatchingAlias(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{"accounts":[{"id":"001-1","alias":"primary"},{"id":"002-2","alias":"secondary"}]}`))
	}))
	defer srv.Close()

	c := New("tok", false)
	c.baseURL = srv.URL

	acc, err := c.GetAccount(context.Background(), "secondary")
	require.NoError(t, err)
	assert.Equal(t, "002-2", acc.ID)
}

func TestGetAccountNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"accounts":[{"id":"001-1","alias":"primary"}]}`))
	}))
	defer srv.Close()

	c := New("tok", false)
	c.baseURL = srv.URL
	_, err := c.GetAccount(context.Background(), "missing")
	assert.Error(t, err)
}

func TestGetAccountErrorMessagePassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errorMessage":"Insufficient authorization"}`))
	}))
	defer srv.Close()

	c := New("tok", false)
	c.baseURL = srv.URL
	_, err := c.GetAccount(context.Background(), "primary")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Insufficient authorization")
}

func TestListInstruments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/instruments")
		w.Write([]byte(`{"instruments":[{"name":"EUR_USD","displayName":"EUR/USD"}]}`))
	}))
	defer srv.Close()

	c := New("tok", false)
	c.baseURL = srv.URL
	instruments, err := c.ListInstruments(context.Background(), "001-1")
	require.NoError(t, err)
	require.Len(t, instruments, 1)
	assert.Equal(t, "EUR_USD", instruments[0].Name)
}

func TestStreamPricesYieldsNonEmptyLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "instruments=EUR_USD,USD_JPY")
		w.Write([]byte("{\"type\":\"HEARTBEAT\"}\n\n{\"type\":\"PRICE\"}\n"))
	}))
	defer srv.Close()

	c := New("tok", false)
	c.streamURL = srv.URL

	var lines []string
	err := c.StreamPrices(context.Background(), "001-1", []string{"EUR_USD", "USD_JPY"}, func(b []byte) {
		lines = append(lines, string(b))
	})
	require.NoError(t, err)
	assert.Equal(t, []string{`{"type":"HEARTBEAT"}`, `{"type":"PRICE"}`}, lines)
}

func TestJoinCSV(t *testing.T) {
	assert.Equal(t, "A,B,C", joinCSV([]string{"A", "B", "C"}))
	assert.Equal(t, "", joinCSV(nil))
	assert.True(t, strings.Contains(joinCSV([]string{"A"}), "A"))
}
