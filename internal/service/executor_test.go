package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Rrens/lookup-bot/internal/config"
	"github.com/Rrens/lookup-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name     string
		template string
		args     []string
		encode   bool
		want     string
	}{
		{"positional", "https://api.test/x?{}&y={}", []string{"A", "B"}, false, "https://api.test/x?A&y=B"},
		{"order matters", "https://api.test/x?{}&y={}", []string{"B", "A"}, false, "https://api.test/x?B&y=A"},
		{"no placeholders", "https://api.test/status", nil, false, "https://api.test/status"},
		{"verbatim keeps delimiters", "https://api.test/q?v={}", []string{"a&b c"}, false, "https://api.test/q?v=a&b%20c"},
		{"verbatim escapes illegal bytes", "https://api.test/q?v={}", []string{"İz\t\"<>"}, false, "https://api.test/q?v=%C4%B0z%09%22%3C%3E"},
		{"verbatim keeps valid escapes", "https://api.test/q?v={}", []string{"50%25 100%"}, false, "https://api.test/q?v=50%25%20100%25"},
		{"encoded", "https://api.test/q?v={}", []string{"a&b c#?"}, true, "https://api.test/q?v=a%26b+c%23%3F"},
		{"argument containing placeholder", "https://api.test/q?a={}&b={}", []string{"{}", "z"}, false, "https://api.test/q?a=%7B%7D&b=z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveURL(tt.template, tt.args, tt.encode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ResolveURL("https://api.test/q?a={}", []string{"1", "2"}, false)
	assert.Error(t, err)
}

func newExecutor(limit int) *QueryExecutor {
	return NewQueryExecutor(config.LookupConfig{
		Timeout:     2 * time.Second,
		InlineLimit: limit,
		EncodeArgs:  true,
	}, nil)
}

func TestQueryExecutor_Format(t *testing.T) {
	exec := newExecutor(4000)
	op := &domain.Operation{ID: "dns", Name: "DNS"}

	inline := exec.Format(op, strings.Repeat("a", 4000))
	assert.False(t, inline.IsDocument)
	assert.Equal(t, "📊 DNS result:\n\n"+strings.Repeat("a", 4000), inline.Text)

	file := exec.Format(op, strings.Repeat("a", 4001))
	assert.True(t, file.IsDocument)
	assert.Equal(t, "DNS_sonuc.txt", file.FileName)
	assert.Len(t, file.Data, 4001)
	assert.Equal(t, "📊 DNS result (file)", file.Caption)

	// characters, not bytes
	multiByte := exec.Format(op, strings.Repeat("ş", 4000))
	assert.False(t, multiByte.IsDocument)

	// under the character limit but over the transport's UTF-16 limit
	emoji := exec.Format(op, strings.Repeat("😀", 3000))
	assert.True(t, emoji.IsDocument)
	assert.Equal(t, "DNS_sonuc.txt", emoji.FileName)
}

func TestQueryExecutor_Execute_Verbatim(t *testing.T) {
	var gotQuery, gotCity, gotExtra string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotCity = r.URL.Query().Get("city")
		gotExtra = r.URL.Query().Get("units")
		w.Write([]byte("sunny"))
	}))
	defer srv.Close()

	exec := NewQueryExecutor(config.LookupConfig{Timeout: 2 * time.Second, InlineLimit: 4000, EncodeArgs: false}, nil)
	op := &domain.Operation{ID: "weather", Name: "Weather", EndpointTemplate: srv.URL + "/w?city={}"}

	body, err := exec.Execute(context.Background(), op, []string{"New York&units=metric"})
	require.NoError(t, err)

	assert.Equal(t, "sunny", body)
	assert.Equal(t, "city=New%20York&units=metric", gotQuery)
	assert.Equal(t, "New York", gotCity)
	assert.Equal(t, "metric", gotExtra)
}

func TestQueryExecutor_Run(t *testing.T) {
	var calls atomic.Int32
	var gotQuery string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/ok":
			gotQuery = r.URL.RawQuery
			w.Write([]byte("result body"))
		case "/big":
			w.Write([]byte(strings.Repeat("x", 5000)))
		case "/created":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte("made"))
		default:
			http.Error(w, "nope", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	exec := newExecutor(4000)
	ctx := context.Background()

	t.Run("inline", func(t *testing.T) {
		op := &domain.Operation{ID: "ok", Name: "OK", EndpointTemplate: srv.URL + "/ok?a={}&b={}"}
		reply := exec.Run(ctx, 1, op, []string{"x y", "1&2"})

		assert.False(t, reply.IsDocument)
		assert.Equal(t, "📊 OK result:\n\nresult body", reply.Text)
		assert.Equal(t, "a=x+y&b=1%262", gotQuery)
	})

	t.Run("file", func(t *testing.T) {
		op := &domain.Operation{ID: "big", Name: "Big", EndpointTemplate: srv.URL + "/big"}
		reply := exec.Run(ctx, 1, op, nil)

		assert.True(t, reply.IsDocument)
		assert.Equal(t, "Big_sonuc.txt", reply.FileName)
	})

	t.Run("any 2xx", func(t *testing.T) {
		op := &domain.Operation{ID: "created", Name: "Created", EndpointTemplate: srv.URL + "/created"}
		reply := exec.Run(ctx, 1, op, nil)
		assert.Equal(t, "📊 Created result:\n\nmade", reply.Text)
	})

	t.Run("non-2xx", func(t *testing.T) {
		op := &domain.Operation{ID: "missing", Name: "Missing", EndpointTemplate: srv.URL + "/missing"}
		reply := exec.Run(ctx, 1, op, nil)
		assert.Equal(t, MsgUpstreamStatus, reply.Text)
	})

	t.Run("argument mismatch", func(t *testing.T) {
		before := calls.Load()
		op := &domain.Operation{ID: "ok", Name: "OK", EndpointTemplate: srv.URL + "/ok?a={}"}
		reply := exec.Run(ctx, 1, op, nil)
		assert.Equal(t, MsgBadArguments, reply.Text)
		assert.Equal(t, before, calls.Load())
	})
}

func TestQueryExecutor_Execute_Failures(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	exec := NewQueryExecutor(config.LookupConfig{Timeout: 50 * time.Millisecond, InlineLimit: 10}, nil)

	_, err := exec.Execute(context.Background(), &domain.Operation{EndpointTemplate: slow.URL}, nil)
	var upstreamErr *domain.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Error(t, upstreamErr.Err)

	closed := httptest.NewServer(http.NotFoundHandler())
	addr := closed.URL
	closed.Close()

	reply := exec.Run(context.Background(), 1, &domain.Operation{ID: "down", Name: "Down", EndpointTemplate: addr}, nil)
	assert.Equal(t, MsgUpstreamFailure, reply.Text)
}
