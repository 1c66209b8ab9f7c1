package circuitbreaker

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestHTTPClient_ForwardsRequestBody(t *testing.T) {
	// Arrange
	var received []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClientWithSettings(HTTPClientSettings{Name: "test"}, zap.NewNop())

	payload := []byte(`{"token":"abc123"}`)
	req, _ := http.NewRequest(http.MethodPost, server.URL, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp, err := client.Do(req)

	// Assert
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	defer resp.Body.Close()
	if !bytes.Equal(received, payload) {
		t.Errorf("Expected server to receive %s, got %s", payload, received)
	}
}

func TestHTTPClient_ServerErrorsTripBreaker(t *testing.T) {
	// Arrange
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPClientWithSettings(HTTPClientSettings{
		Name:             "test",
		FailureThreshold: 2,
	}, zap.NewNop())

	// Act: two 5xx responses open the circuit
	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
		if _, err := client.Do(req); err == nil {
			t.Fatal("Expected error for 5xx response")
		}
	}

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	_, err := client.Do(req)

	// Assert: the third call is blocked before reaching the server
	if !IsOpen(err) {
		t.Errorf("Expected ErrOpen, got %v", err)
	}
	if hits != 2 {
		t.Errorf("Expected 2 upstream hits, got %d", hits)
	}
}
