package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpoClientSend(t *testing.T) {
	var received []PushMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewExpoClient(server.URL)
	err := client.Send(context.Background(), []PushMessage{{
		To:    []string{"tok1", "tok2"},
		Title: "Alerta FATIGUE",
		Body:  "Operator fatigue detected",
	}})
	require.NoError(t, err)

	require.Len(t, received, 1)
	assert.Equal(t, []string{"tok1", "tok2"}, received[0].To)
}

func TestExpoClientSendErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad tokens", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewExpoClient(server.URL)
	err := client.Send(context.Background(), []PushMessage{{To: []string{"tok1"}}})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestExpoClientDefaultURL(t *testing.T) {
	client := NewExpoClient("")
	assert.Equal(t, DefaultExpoPushURL, client.url)
}
