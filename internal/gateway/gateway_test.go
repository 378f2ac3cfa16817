package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/gastos/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokens is a mutable TokenSource.
type fakeTokens struct {
	token string
	mu    sync.Mutex
}

func (f *fakeTokens) Token() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, f.token != ""
}

func (f *fakeTokens) set(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

type captured struct {
	header      http.Header
	method      string
	path        string
	body        string
	contentType string
}

func newEchoServer(t *testing.T, status int, reply string) (*httptest.Server, *[]captured) {
	t.Helper()
	var (
		mu       sync.Mutex
		requests []captured
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, captured{
			method:      r.Method,
			path:        r.URL.Path,
			header:      r.Header.Clone(),
			body:        string(body),
			contentType: r.Header.Get("Content-Type"),
		})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func TestRequestInjectsCurrentToken(t *testing.T) {
	server, requests := newEchoServer(t, http.StatusOK, `[]`)
	tokens := &fakeTokens{}
	client := New(server.URL, 5*time.Second, tokens)
	ctx := context.Background()

	_, err := client.Request(ctx, http.MethodGet, "/categorias/", nil)
	require.NoError(t, err)

	tokens.set("abc123")
	_, err = client.Request(ctx, http.MethodGet, "/categorias/", nil)
	require.NoError(t, err)

	tokens.set("")
	_, err = client.Request(ctx, http.MethodGet, "/categorias/", nil)
	require.NoError(t, err)

	require.Len(t, *requests, 3)
	assert.Empty(t, (*requests)[0].header.Get("Authorization"), "anonymous request must not carry a credential")
	assert.Equal(t, "Bearer abc123", (*requests)[1].header.Get("Authorization"))
	assert.Empty(t, (*requests)[2].header.Get("Authorization"), "cleared token must stop being sent")

	for _, req := range *requests {
		assert.NotEmpty(t, req.header.Get(RequestIDHeader))
	}
}

func TestRequestEncodesBodies(t *testing.T) {
	server, requests := newEchoServer(t, http.StatusCreated, `{"id": 1}`)
	client := New(server.URL+"/", 5*time.Second, &fakeTokens{})
	ctx := context.Background()

	_, err := client.Request(ctx, http.MethodPost, "usuarios/", map[string]string{"email": "a@x.com"})
	require.NoError(t, err)

	form := url.Values{}
	form.Set("username", "a@x.com")
	form.Set("password", "pw")
	_, err = client.Request(ctx, http.MethodPost, "/token", form)
	require.NoError(t, err)

	require.Len(t, *requests, 2)

	assert.Equal(t, "/usuarios/", (*requests)[0].path)
	assert.Equal(t, "application/json", (*requests)[0].contentType)
	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte((*requests)[0].body), &decoded))
	assert.Equal(t, "a@x.com", decoded["email"])

	assert.Equal(t, "application/x-www-form-urlencoded", (*requests)[1].contentType)
	parsed, err := url.ParseQuery((*requests)[1].body)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", parsed.Get("username"))
}

func TestRequestPassesStatusThrough(t *testing.T) {
	server, _ := newEchoServer(t, http.StatusBadRequest, `{"detail":"No se puede borrar la categoría porque tiene transacciones asociadas."}`)
	client := New(server.URL, 5*time.Second, &fakeTokens{token: "t"})

	resp, err := client.Request(context.Background(), http.MethodDelete, "/categorias/4", nil)
	require.NoError(t, err, "non-2xx is not a gateway error")

	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No se puede borrar la categoría porque tiene transacciones asociadas.", resp.Detail())
}

func TestRequestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client := New(server.URL, time.Second, &fakeTokens{})
	_, err := client.Request(context.Background(), http.MethodGet, "/transacciones/", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNetwork)
}

func TestRequestRejectsUnencodableBody(t *testing.T) {
	client := New("http://127.0.0.1:1", time.Second, &fakeTokens{})
	_, err := client.Request(context.Background(), http.MethodPost, "/x", map[string]any{"bad": make(chan int)})
	assert.Error(t, err)
}

func TestResponseDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "string detail", body: `{"detail":"El email ya está registrado"}`, want: "El email ya está registrado"},
		{name: "validation list", body: `{"detail":[{"msg":"field required"},{"msg":"value is not a valid float"}]}`, want: "field required; value is not a valid float"},
		{name: "plain text", body: "Internal Server Error\n", want: "Internal Server Error"},
		{name: "empty", body: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &Response{StatusCode: http.StatusBadRequest, Body: []byte(tt.body)}
			assert.Equal(t, tt.want, resp.Detail())
		})
	}
}

func TestURL(t *testing.T) {
	client := New("http://127.0.0.1:8000/", time.Second, &fakeTokens{})
	assert.Equal(t, "http://127.0.0.1:8000/token", client.URL("/token"))
	assert.Equal(t, "http://127.0.0.1:8000/dashboard/summary", client.URL("dashboard/summary"))
}
