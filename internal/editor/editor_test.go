package editor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"publish/internal/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const origin = "https://publish.example"

type request struct {
	Method string
	Query  string
	Body   map[string]any
}

// fakeAPI answers every request with reply and records what it got.
type fakeAPI struct {
	mu    sync.Mutex
	reqs  []request
	reply string
	srv   *httptest.Server
}

func newFakeAPI(t *testing.T, reply string) *fakeAPI {
	t.Helper()
	f := &fakeAPI{reply: reply}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := request{Method: r.Method, Query: r.URL.RawQuery}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &req.Body)
		}
		f.mu.Lock()
		f.reqs = append(f.reqs, req)
		reply := f.reply
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) last(t *testing.T) request {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.reqs)
	return f.reqs[len(f.reqs)-1]
}

func (f *fakeAPI) setReply(reply string) {
	f.mu.Lock()
	f.reply = reply
	f.mu.Unlock()
}

func testHTTPClient() *http.Client {
	return &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
}

func newTestEditor(endpoint string) *Editor {
	return NewEditor(client.New(endpoint, testHTTPClient()), origin)
}

func TestSave_NewDraftCreates(t *testing.T) {
	api := newFakeAPI(t, `{"ok":true,"id":"1","name":"t"}`)
	ed := newTestEditor(api.srv.URL + "/api")

	ed.Edit(func(f *Fields) {
		f.Title = "T"
		f.Author = "A"
		f.Content = "C"
	})
	require.NoError(t, ed.Save(context.Background()))

	got := api.last(t)
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "T", got.Body["title"])
	assert.NotContains(t, got.Body, "id")
	assert.NotContains(t, got.Body, "name")

	v := ed.View()
	assert.Equal(t, "1", v.ID)
	assert.Equal(t, "t", v.Name)
	assert.Equal(t, "1", v.LocalID)
	assert.Equal(t, Editing, v.Lifecycle)
	assert.Empty(t, v.Error)
	assert.Equal(t, origin+"/t", v.PublicURL)
}

func TestSave_NamedDraftUpdates(t *testing.T) {
	api := newFakeAPI(t, `{"ok":true,"msg":"Saved","payload":{"id":"1","name":"t"}}`)
	ed := newTestEditor(api.srv.URL + "/api")

	ed.Restore(Draft{Fields: Fields{Title: "T", Content: "C"}, ID: "1", Name: "t"})
	require.NoError(t, ed.Save(context.Background()))

	got := api.last(t)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "1", got.Body["id"])
	assert.Equal(t, "t", got.Body["name"])
	assert.Equal(t, "C", got.Body["content"])
}

func TestLoad_Success(t *testing.T) {
	api := newFakeAPI(t, `{"ok":false,"msg":"nope"}`)
	ed := newTestEditor(api.srv.URL + "/api")

	// leave an error behind first
	require.Error(t, ed.Load(context.Background(), "x"))
	require.Equal(t, "nope", ed.View().Error)

	api.setReply(`{"ok":true,"payload":{"id":"1","name":"t","title":"T","author":"A",` +
		`"website":"w","content":"C","twitter":"tw","facebook":"fb","github":"gh","instagram":"ig"}}`)
	require.NoError(t, ed.Load(context.Background(), "1"))

	got := api.last(t)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "id=1", got.Query)

	v := ed.View()
	assert.Equal(t, Draft{
		Fields: Fields{
			LocalID: "1", Title: "T", Author: "A", Website: "w", Content: "C",
			Twitter: "tw", Facebook: "fb", Github: "gh", Instagram: "ig",
		},
		ID:   "1",
		Name: "t",
	}, v.Draft)
	assert.Empty(t, v.Error)
	assert.Equal(t, Editing, v.Lifecycle)
}

func TestLoad_RejectedKeepsFields(t *testing.T) {
	api := newFakeAPI(t, `{"ok":false,"msg":"not found"}`)
	ed := newTestEditor(api.srv.URL + "/api")

	before := Draft{Fields: Fields{Title: "Mine", Content: "kept"}, ID: "9", Name: "mine"}
	ed.Restore(before)

	err := ed.Load(context.Background(), "1")

	var rej *client.RejectedError
	require.ErrorAs(t, err, &rej)
	v := ed.View()
	assert.Equal(t, "not found", v.Error)
	assert.Equal(t, Editing, v.Lifecycle)
	assert.Equal(t, before, v.Draft)
}

func TestSave_TransportFailureUsesFallback(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL + "/api"
	srv.Close()

	ed := newTestEditor(endpoint)
	ed.Edit(func(f *Fields) { f.Title = "T" })

	err := ed.Save(context.Background())

	var te *client.TransportError
	require.ErrorAs(t, err, &te)
	v := ed.View()
	assert.Equal(t, MsgSaveFailed, v.Error)
	assert.Equal(t, "T", v.Title)
	assert.Empty(t, v.ID)
	assert.Empty(t, v.Name)
	assert.Equal(t, Editing, v.Lifecycle)
}

func TestLoad_TransportFailureUsesFallback(t *testing.T) {
	api := newFakeAPI(t, `not json`)
	ed := newTestEditor(api.srv.URL + "/api")

	require.Error(t, ed.Load(context.Background(), "1"))
	assert.Equal(t, MsgLoadFailed, ed.View().Error)
}

func TestSave_IncompleteAnswer(t *testing.T) {
	api := newFakeAPI(t, `{"ok":true,"payload":{"id":"1"}}`)
	ed := newTestEditor(api.srv.URL + "/api")

	require.Error(t, ed.Save(context.Background()))
	v := ed.View()
	assert.Equal(t, MsgSaveFailed, v.Error)
	assert.Empty(t, v.ID)
	assert.Empty(t, v.Name)
}

func TestLoad_IncompleteAnswer(t *testing.T) {
	before := Draft{Fields: Fields{Title: "Mine"}, ID: "9", Name: "mine"}

	for _, reply := range []string{
		`{"ok":true,"payload":{"id":"1","title":"T"}}`,
		`{"ok":true}`,
	} {
		t.Run(reply, func(t *testing.T) {
			api := newFakeAPI(t, reply)
			ed := newTestEditor(api.srv.URL + "/api")
			ed.Restore(before)

			require.Error(t, ed.Load(context.Background(), "1"))
			v := ed.View()
			assert.Equal(t, MsgLoadFailed, v.Error)
			assert.Equal(t, before, v.Draft)
			assert.Equal(t, Editing, v.Lifecycle)
		})
	}
}

func TestSave_RejectedKeepsFields(t *testing.T) {
	api := newFakeAPI(t, `{"ok":false,"msg":"Permission denied."}`)
	ed := newTestEditor(api.srv.URL + "/api")

	before := Draft{Fields: Fields{Title: "Mine", Content: "kept"}, ID: "9", Name: "mine"}
	ed.Restore(before)

	err := ed.Save(context.Background())

	var rej *client.RejectedError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, http.MethodPost, api.last(t).Method)
	v := ed.View()
	assert.Equal(t, "Permission denied.", v.Error)
	assert.Equal(t, before, v.Draft)
	assert.Equal(t, Editing, v.Lifecycle)
}

// blockingAPI holds every request until release is closed.
func blockingAPI(t *testing.T) (endpoint string, received <-chan struct{}, release chan struct{}) {
	t.Helper()
	recv := make(chan struct{}, 4)
	rel := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recv <- struct{}{}
		select {
		case <-rel:
		case <-r.Context().Done():
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true,"payload":{"id":"1","name":"t","title":"Loaded"}}`)
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/api", recv, rel
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
	}
}

func TestLifecycle_LoadingWhileInFlight(t *testing.T) {
	endpoint, received, release := blockingAPI(t)
	ed := newTestEditor(endpoint)
	require.Equal(t, Editing, ed.View().Lifecycle)

	done := make(chan error, 1)
	go func() { done <- ed.Save(context.Background()) }()
	waitFor(t, received)

	v := ed.View()
	assert.Equal(t, Loading, v.Lifecycle)
	assert.Equal(t, "button is-success is-medium is-disabled is-loading", v.SaveButtonClass)

	// a second call is refused and changes nothing
	assert.ErrorIs(t, ed.Load(context.Background(), "2"), ErrBusy)
	assert.ErrorIs(t, ed.Save(context.Background()), ErrBusy)
	assert.Equal(t, v, ed.View())

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("save did not finish")
	}

	v = ed.View()
	assert.Equal(t, Editing, v.Lifecycle)
	assert.Equal(t, "button is-success is-medium", v.SaveButtonClass)
	assert.Equal(t, "t", v.Name)
}

func TestNew_AbandonsInFlightRequest(t *testing.T) {
	endpoint, received, _ := blockingAPI(t)
	ed := newTestEditor(endpoint)
	ed.Edit(func(f *Fields) { f.Title = "old" })
	ed.ShowSocial()

	done := make(chan error, 1)
	go func() { done <- ed.Load(context.Background(), "1") }()
	waitFor(t, received)

	ed.New()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrAbandoned)
	case <-time.After(5 * time.Second):
		t.Fatal("load did not return")
	}

	v := ed.View()
	assert.Equal(t, Draft{}, v.Draft)
	assert.Empty(t, v.Error)
	assert.Equal(t, Editing, v.Lifecycle)
	assert.False(t, v.SocialVisible)
	assert.Empty(t, v.PublicURL)
}

func TestCallerContextCancelled(t *testing.T) {
	endpoint, received, _ := blockingAPI(t)
	ed := newTestEditor(endpoint)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ed.Load(ctx, "1") }()
	waitFor(t, received)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("load did not return")
	}
	v := ed.View()
	assert.Equal(t, MsgLoadFailed, v.Error)
	assert.Equal(t, Editing, v.Lifecycle)
}

func TestSubscribe(t *testing.T) {
	api := newFakeAPI(t, `{"ok":true,"id":"1","name":"t"}`)
	ed := newTestEditor(api.srv.URL + "/api")

	var mu sync.Mutex
	var seen []View
	unsubscribe := ed.Subscribe(func(v View) {
		mu.Lock()
		seen = append(seen, v)
		mu.Unlock()
	})

	ed.Edit(func(f *Fields) { f.Title = "T" })
	require.NoError(t, ed.Save(context.Background()))
	unsubscribe()
	ed.New()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 3)
	assert.Equal(t, "T", seen[0].Title)
	assert.Equal(t, Loading, seen[1].Lifecycle)
	assert.Equal(t, Editing, seen[2].Lifecycle)
	assert.Equal(t, origin+"/t", seen[2].PublicURL)
	assert.Less(t, seen[0].Version, seen[1].Version)
	assert.Less(t, seen[1].Version, seen[2].Version)
}

func TestEdit_KeepsIdentity(t *testing.T) {
	ed := NewEditor(nil, origin)
	ed.Restore(Draft{ID: "1", Name: "t"})

	ed.Edit(func(f *Fields) {
		*f = Fields{Title: "new"}
	})

	v := ed.View()
	assert.Equal(t, "new", v.Title)
	assert.Equal(t, "1", v.ID)
	assert.Equal(t, "t", v.Name)
}

func TestEdit_CallbackMayReadView(t *testing.T) {
	ed := NewEditor(nil, origin)
	ed.Edit(func(f *Fields) { f.Title = "one" })

	done := make(chan struct{})
	go func() {
		defer close(done)
		ed.Edit(func(f *Fields) {
			f.Title = ed.View().Title + " two"
		})
	}()
	waitFor(t, done)

	assert.Equal(t, "one two", ed.View().Title)
}
