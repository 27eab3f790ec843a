// Package editor holds the state behind the page editor: the draft being
// written, whether a request is in flight and the last error to show.
package editor

import (
	"context"
	"errors"
	"sync"

	"publish/internal/client"
	"publish/internal/logger"

	"go.uber.org/zap"
)

// Messages shown when the request itself failed.
const (
	MsgLoadFailed = "error loading, try again later"
	MsgSaveFailed = "error saving, try again later"
)

var (
	// ErrBusy is returned by Load and Save while another request is in flight.
	ErrBusy = errors.New("editor: request already in flight")
	// ErrAbandoned is returned when New discarded the request's result.
	ErrAbandoned = errors.New("editor: request abandoned")

	errIncomplete = errors.New("editor: response without id and name")
)

type Lifecycle int

const (
	Editing Lifecycle = iota
	Loading
)

func (l Lifecycle) String() string {
	if l == Loading {
		return "loading"
	}
	return "editing"
}

// Fields are what the author can type into.
type Fields struct {
	LocalID   string `json:"localId"   yaml:"local_id,omitempty"`
	Title     string `json:"title"     yaml:"title,omitempty"`
	Author    string `json:"author"    yaml:"author,omitempty"`
	Website   string `json:"website"   yaml:"website,omitempty"`
	Content   string `json:"content"   yaml:"content,omitempty"`
	Twitter   string `json:"twitter"   yaml:"twitter,omitempty"`
	Facebook  string `json:"facebook"  yaml:"facebook,omitempty"`
	Github    string `json:"github"    yaml:"github,omitempty"`
	Instagram string `json:"instagram" yaml:"instagram,omitempty"`
}

// Draft adds the server-assigned identity. ID and Name are set together.
type Draft struct {
	Fields `yaml:",inline"`
	ID     string `json:"id"   yaml:"id,omitempty"`
	Name   string `json:"name" yaml:"name,omitempty"`
}

// View is a snapshot of the editor with the derived values filled in.
type View struct {
	Draft
	Error           string
	Lifecycle       Lifecycle
	SocialVisible   bool
	PublicURL       string
	SaveButtonClass string
	// Version grows with every change; subscribers can drop older snapshots.
	Version uint64
}

// Requester is satisfied by *client.Client.
type Requester interface {
	Do(ctx context.Context, verb client.Verb, payload map[string]any, dst any) error
}

type Editor struct {
	api    Requester
	origin string

	mu        sync.Mutex
	draft     Draft
	err       string
	lifecycle Lifecycle
	social    bool
	version   uint64

	gen    uint64
	cancel context.CancelFunc

	subs    map[int]func(View)
	nextSub int
}

// NewEditor returns an empty draft. origin prefixes the public URL.
func NewEditor(api Requester, origin string) *Editor {
	return &Editor{api: api, origin: origin, subs: map[int]func(View){}}
}

// View returns the current state.
func (e *Editor) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// Subscribe calls fn after every change. The returned func detaches it.
func (e *Editor) Subscribe(fn func(View)) func() {
	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

// Edit applies a user change to the editable fields. fn works on a copy and
// runs without the lock held, so it may call View.
func (e *Editor) Edit(fn func(*Fields)) {
	e.mu.Lock()
	f := e.draft.Fields
	e.mu.Unlock()

	fn(&f)
	e.change(func() { e.draft.Fields = f })
}

func (e *Editor) ShowSocial() {
	e.change(func() { e.social = true })
}

// Restore puts back a draft saved earlier, identity included.
func (e *Editor) Restore(d Draft) {
	e.change(func() { e.draft = d })
}

// New drops everything and starts an empty draft. A request still in flight
// is cancelled and its result ignored.
func (e *Editor) New() {
	e.change(func() {
		if e.cancel != nil {
			e.cancel()
			e.cancel = nil
		}
		e.gen++
		e.draft = Draft{}
		e.err = ""
		e.lifecycle = Editing
		e.social = false
	})
}

type pagePayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Website   string `json:"website"`
	Content   string `json:"content"`
	Twitter   string `json:"twitter"`
	Facebook  string `json:"facebook"`
	Github    string `json:"github"`
	Instagram string `json:"instagram"`
}

// Load replaces the draft with the page whose edit key is localID. On failure
// the draft stays as it was and the error is shown.
func (e *Editor) Load(ctx context.Context, localID string) error {
	ctx, gen, _, err := e.begin(ctx)
	if err != nil {
		return err
	}

	var p pagePayload
	err = e.api.Do(ctx, client.Read, map[string]any{"id": localID}, &p)
	if err == nil && (p.ID == "" || p.Name == "") {
		err = errIncomplete
	}

	if !e.finish(gen, func() {
		if err != nil {
			e.err = userMessage(err, MsgLoadFailed)
			return
		}
		e.draft = Draft{
			Fields: Fields{
				LocalID:   p.ID,
				Title:     p.Title,
				Author:    p.Author,
				Website:   p.Website,
				Content:   p.Content,
				Twitter:   p.Twitter,
				Facebook:  p.Facebook,
				Github:    p.Github,
				Instagram: p.Instagram,
			},
			ID:   p.ID,
			Name: p.Name,
		}
	}) {
		return ErrAbandoned
	}

	if err != nil {
		logger.WithCtx(ctx).Info("load failed", zap.String("local_id", localID), zap.Error(err))
	}
	return err
}

// Save creates the page when the draft has no name yet and updates it
// otherwise. Only id and name are taken from the answer.
func (e *Editor) Save(ctx context.Context) error {
	ctx, gen, d, err := e.begin(ctx)
	if err != nil {
		return err
	}

	verb := client.Create
	payload := map[string]any{
		"title":     d.Title,
		"author":    d.Author,
		"website":   d.Website,
		"content":   d.Content,
		"twitter":   d.Twitter,
		"facebook":  d.Facebook,
		"github":    d.Github,
		"instagram": d.Instagram,
	}
	if d.Name != "" {
		verb = client.Update
		payload["id"] = d.ID
		payload["name"] = d.Name
	}

	var saved struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	err = e.api.Do(ctx, verb, payload, &saved)
	if err == nil && (saved.ID == "" || saved.Name == "") {
		err = errIncomplete
	}

	if !e.finish(gen, func() {
		if err != nil {
			e.err = userMessage(err, MsgSaveFailed)
			return
		}
		e.draft.ID = saved.ID
		e.draft.Name = saved.Name
		e.draft.LocalID = saved.ID
	}) {
		return ErrAbandoned
	}

	if err != nil {
		logger.WithCtx(ctx).Info("save failed", zap.Stringer("verb", verb), zap.Error(err))
	}
	return err
}

// begin moves to Loading and returns a context that New can cancel.
func (e *Editor) begin(parent context.Context) (context.Context, uint64, Draft, error) {
	e.mu.Lock()
	if e.lifecycle == Loading {
		e.mu.Unlock()
		return nil, 0, Draft{}, ErrBusy
	}

	ctx, cancel := context.WithCancel(parent)
	e.gen++
	e.cancel = cancel
	e.err = ""
	e.lifecycle = Loading
	gen, d := e.gen, e.draft
	v, subs := e.commit()
	e.mu.Unlock()

	notify(subs, v)
	return ctx, gen, d, nil
}

// finish applies the outcome of request gen unless New has moved on.
func (e *Editor) finish(gen uint64, apply func()) bool {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return false
	}

	apply()
	e.lifecycle = Editing
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	v, subs := e.commit()
	e.mu.Unlock()

	notify(subs, v)
	return true
}

func (e *Editor) change(fn func()) {
	e.mu.Lock()
	fn()
	v, subs := e.commit()
	e.mu.Unlock()

	notify(subs, v)
}

// commit bumps the version. Callers hold mu.
func (e *Editor) commit() (View, []func(View)) {
	e.version++
	subs := make([]func(View), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	return e.snapshot(), subs
}

func (e *Editor) snapshot() View {
	return View{
		Draft:           e.draft,
		Error:           e.err,
		Lifecycle:       e.lifecycle,
		SocialVisible:   e.social,
		PublicURL:       PublicURL(e.origin, e.draft.Name),
		SaveButtonClass: SaveButtonClass(e.lifecycle),
		Version:         e.version,
	}
}

func notify(subs []func(View), v View) {
	for _, fn := range subs {
		fn(v)
	}
}

// userMessage keeps server rejections verbatim and hides everything else
// behind fallback.
func userMessage(err error, fallback string) string {
	var rej *client.RejectedError
	if errors.As(err, &rej) {
		return rej.Msg
	}
	return fallback
}
