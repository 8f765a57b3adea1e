package tickets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method    string
	body      map[string]any
	requestID string
	ctype     string
}

func newBackend(t *testing.T, status int) (*httptest.Server, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.requestID = r.Header.Get("X-Request-ID")
		rec.ctype = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &rec.body)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestNew(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)

	_, err = New("/api/tickets")
	assert.Error(t, err, "relative routes are rejected")

	c, err := New("http://backend/api/tickets", WithTimeout(3*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, c.httpClient.Timeout)
}

func TestCreateTicket(t *testing.T) {
	for _, status := range []int{http.StatusCreated, http.StatusConflict, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv, rec := newBackend(t, status)
			c, err := New(srv.URL)
			require.NoError(t, err)

			got, err := c.CreateTicket(context.Background(), 12345, "ticket please help")
			require.NoError(t, err)

			assert.Equal(t, status, got)
			assert.Equal(t, http.MethodPost, rec.method)
			assert.Equal(t, "application/json", rec.ctype)
			assert.NotEmpty(t, rec.requestID)
			assert.Equal(t, float64(12345), rec.body["userId"])
			assert.Equal(t, "ticket please help", rec.body["message"])
		})
	}
}

func TestDeleteTicket(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNotFound, http.StatusBadGateway} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv, rec := newBackend(t, status)
			c, err := New(srv.URL)
			require.NoError(t, err)

			got, err := c.DeleteTicket(context.Background(), "555")
			require.NoError(t, err)

			assert.Equal(t, status, got)
			assert.Equal(t, http.MethodDelete, rec.method)
			assert.Equal(t, "555", rec.body["userId"])
			assert.NotContains(t, rec.body, "message")
		})
	}
}

func TestTransportError(t *testing.T) {
	srv, _ := newBackend(t, http.StatusCreated)
	c, err := New(srv.URL)
	require.NoError(t, err)
	srv.Close()

	status, err := c.CreateTicket(context.Background(), 1, "ticket x")
	assert.Error(t, err)
	assert.Zero(t, status)

	status, err = c.DeleteTicket(context.Background(), "1")
	assert.Error(t, err)
	assert.Zero(t, status)
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	_, err = c.CreateTicket(context.Background(), 1, "ticket slow")
	assert.Error(t, err)
}
