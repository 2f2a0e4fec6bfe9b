package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a tiny in-memory /users collection.
type fakeAPI struct {
	mu       sync.Mutex
	users    []User
	headers  []http.Header
	patched  []User
	deleted  []int
	failWith int
}

func (f *fakeAPI) router() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			f.mu.Lock()
			f.headers = append(f.headers, req.Header.Clone())
			code := f.failWith
			f.mu.Unlock()
			if code != 0 {
				http.Error(w, "nope", code)
				return
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/users", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, f.users)
	})
	r.Post("/users/", func(w http.ResponseWriter, req *http.Request) {
		var u User
		if err := json.NewDecoder(req.Body).Decode(&u); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		u.ID = len(f.users) + 1
		f.users = append(f.users, u)
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, u)
	})
	r.Patch("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		var u User
		if err := json.NewDecoder(req.Body).Decode(&u); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.patched = append(f.patched, u)
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, u)
	})
	r.Delete("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(req, "id"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.deleted = append(f.deleted, id)
		f.mu.Unlock()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{}"))
	})
	return r
}

func (f *fakeAPI) recorded() (headers []http.Header, patched []User, deleted []int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]http.Header(nil), f.headers...), append([]User(nil), f.patched...), append([]int(nil), f.deleted...)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "jsonplaceholder.typicode.com", u.Host)

	u, err = parseBaseURL("example.com:1234/api/?x=1#frag")
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, "/api", u.Path)
	assert.Empty(t, u.RawQuery)
	assert.Empty(t, u.Fragment)

	_, err = parseBaseURL("http://")
	assert.Error(t, err)
}

func TestClient_CRUDRoundTrip(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{users: []User{
		{ID: 1, Name: "Leanne Graham", Email: "leanne@example.com"},
		{ID: 2, Name: "Ervin Howell", Email: "ervin@example.com"},
	}}
	c := newTestClient(t, api.router())
	ctx := context.Background()

	want := append([]User(nil), api.users...)
	list, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, list)

	saved, err := c.Create(ctx, User{Name: "Amanuel", Email: "amanuel@gmail.com"})
	require.NoError(t, err)
	assert.Equal(t, 3, saved.ID)
	assert.Equal(t, "Amanuel", saved.Name)

	updated, err := c.Update(ctx, User{ID: 2, Name: "X", Email: "ervin@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "X", updated.Name)
	require.NoError(t, c.Delete(ctx, 5))

	headers, patched, deleted := api.recorded()
	require.Len(t, patched, 1)
	assert.Equal(t, User{ID: 2, Name: "X", Email: "ervin@example.com"}, patched[0])
	assert.Equal(t, []int{5}, deleted)
	require.Len(t, headers, 4)
	for _, h := range headers {
		assert.True(t, strings.HasPrefix(h.Get("User-Agent"), "roster/"))
		assert.NotEmpty(t, h.Get("X-Request-ID"))
		assert.Equal(t, "application/json", h.Get("Accept"))
	}
}

func TestClient_KeepsBasePathPrefix(t *testing.T) {
	t.Parallel()

	paths := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.Path
		writeJSON(w, http.StatusOK, []User{})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/api/v1/", Options{})
	require.NoError(t, err)
	_, err = c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/users", <-paths)
}

func TestClient_StatusErrorMessage(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{failWith: http.StatusNotFound}
	c := newTestClient(t, api.router())

	err := c.Delete(context.Background(), 5)
	require.Error(t, err)
	assert.Equal(t, "delete user 5: Request failed with status code 404", err.Error())

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Equal(t, http.MethodDelete, statusErr.Method)
	assert.Equal(t, "/users/5", statusErr.Path)
	assert.False(t, IsCanceled(err))
}

func TestClient_DecodeError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{not-json"))
	}))

	_, err := c.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_CanceledListIsRecognised(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	c := newTestClient(t, http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := c.List(ctx)
	require.Error(t, err)
	assert.True(t, IsCanceled(err), "err = %v", err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_TimeoutIsNotCancellation(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.List(context.Background())
	require.Error(t, err)
	assert.False(t, IsCanceled(err))
}

func TestNilClient(t *testing.T) {
	var c *Client
	_, err := c.List(context.Background())
	assert.Error(t, err)
	assert.Error(t, c.Delete(context.Background(), 1))
}
