package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/photoevents/photo-api/internal/core/domain"
	"github.com/photoevents/photo-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

func oid(n int) string { return fmt.Sprintf("%024x", n) }

type stubEventRepo struct {
	events            map[string]*domain.Event
	seq               int
	addContributorErr error
	deleted           []string
}

func newStubEventRepo(events ...*domain.Event) *stubEventRepo {
	r := &stubEventRepo{events: make(map[string]*domain.Event), seq: 1000}
	for _, e := range events {
		r.events[e.ID] = e
	}
	return r
}

func (r *stubEventRepo) Create(_ context.Context, e *domain.Event) (*domain.Event, error) {
	r.seq++
	c := *e
	c.ID = oid(r.seq)
	r.events[c.ID] = &c
	out := c
	return &out, nil
}

func (r *stubEventRepo) FindByID(_ context.Context, id string) (*domain.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	c := *e
	c.UserIDs = append([]string(nil), e.UserIDs...)
	return &c, nil
}

func (r *stubEventRepo) List(_ context.Context) ([]*domain.Event, error) {
	out := make([]*domain.Event, 0, len(r.events))
	for _, e := range r.events {
		c := *e
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubEventRepo) Update(_ context.Context, id string, upd ports.EventUpdate) (*domain.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	if upd.Name != nil {
		e.Name = *upd.Name
	}
	if upd.Date != nil {
		e.Date = upd.Date
	}
	c := *e
	return &c, nil
}

func (r *stubEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(r.events, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubEventRepo) AddContributor(_ context.Context, eventID, userID string) error {
	if r.addContributorErr != nil {
		return r.addContributorErr
	}
	e, ok := r.events[eventID]
	if !ok {
		return domain.ErrEventNotFound
	}
	if !e.HasContributor(userID) {
		e.UserIDs = append(e.UserIDs, userID)
	}
	return nil
}

type stubPhotoRepo struct {
	photos    map[string]*domain.Photo
	seq       int
	insertErr error
	findErr   error
	deleteIDs [][]string
}

func newStubPhotoRepo(photos ...*domain.Photo) *stubPhotoRepo {
	r := &stubPhotoRepo{photos: make(map[string]*domain.Photo), seq: 5000}
	for _, p := range photos {
		r.photos[p.ID] = p
	}
	return r
}

func (r *stubPhotoRepo) sorted(keep func(*domain.Photo) bool) []*domain.Photo {
	out := []*domain.Photo{}
	for _, p := range r.photos {
		if keep(p) {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubPhotoRepo) FindByID(_ context.Context, id string) (*domain.Photo, error) {
	p, ok := r.photos[id]
	if !ok {
		return nil, domain.ErrPhotoNotFound
	}
	c := *p
	return &c, nil
}

func (r *stubPhotoRepo) FindByEvent(_ context.Context, eventID string) ([]*domain.Photo, error) {
	return r.sorted(func(p *domain.Photo) bool { return p.EventID == eventID }), nil
}

func (r *stubPhotoRepo) FindByEventAndUser(_ context.Context, eventID, userID string) ([]*domain.Photo, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.sorted(func(p *domain.Photo) bool { return p.EventID == eventID && p.UserID == userID }), nil
}

func (r *stubPhotoRepo) FindByIDs(_ context.Context, ids []string, eventID string) ([]*domain.Photo, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return r.sorted(func(p *domain.Photo) bool {
		return want[p.ID] && (eventID == "" || p.EventID == eventID)
	}), nil
}

func (r *stubPhotoRepo) CountByEvent(_ context.Context, eventID string) (int64, error) {
	return int64(len(r.sorted(func(p *domain.Photo) bool { return p.EventID == eventID }))), nil
}

func (r *stubPhotoRepo) InsertMany(_ context.Context, photos []*domain.Photo) ([]*domain.Photo, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	out := make([]*domain.Photo, 0, len(photos))
	for _, p := range photos {
		r.seq++
		c := *p
		c.ID = oid(r.seq)
		r.photos[c.ID] = &c
		ret := c
		out = append(out, &ret)
	}
	return out, nil
}

func (r *stubPhotoRepo) DeleteMany(_ context.Context, ids []string) (int64, error) {
	r.deleteIDs = append(r.deleteIDs, append([]string(nil), ids...))
	var n int64
	for _, id := range ids {
		if _, ok := r.photos[id]; ok {
			delete(r.photos, id)
			n++
		}
	}
	return n, nil
}

var errStubNotFound = errors.New("stub: file not found")

type stubStorage struct {
	mu       sync.Mutex
	files    map[string][]byte
	saveErr  error
	failOn   int // fail the n-th Save (1-based) when > 0
	saves    int
	deleted  []string
	pingErr  error
	deleteFn func(locator string) error
}

func newStubStorage() *stubStorage {
	return &stubStorage{files: make(map[string][]byte)}
}

func (s *stubStorage) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil && (s.failOn == 0 || s.saves == s.failOn) {
		return "", s.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	loc := "uploads/" + name
	s.files[loc] = data
	return loc, nil
}

func (s *stubStorage) Open(_ context.Context, locator string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[locator]
	if !ok {
		return nil, errStubNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *stubStorage) Delete(_ context.Context, locator string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, locator)
	if s.deleteFn != nil {
		if err := s.deleteFn(locator); err != nil {
			return err
		}
	}
	if _, ok := s.files[locator]; !ok {
		return errStubNotFound
	}
	delete(s.files, locator)
	return nil
}

func (s *stubStorage) Ping(_ context.Context) error { return s.pingErr }

type stubLocker struct {
	held     map[string]bool
	acquired int
	released int
}

func newStubLocker() *stubLocker { return &stubLocker{held: make(map[string]bool)} }

func (l *stubLocker) Acquire(_ context.Context, eventID, userID string) (func(), error) {
	key := eventID + ":" + userID
	if l.held[key] {
		return nil, domain.ErrUploadInProgress
	}
	l.held[key] = true
	l.acquired++
	return func() {
		delete(l.held, key)
		l.released++
	}, nil
}

// memFile builds an UploadFile backed by an in-memory payload.
func memFile(name, contentType string, data []byte) ports.UploadFile {
	return ports.UploadFile{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func jpeg(name string) ports.UploadFile {
	return memFile(name, "image/jpeg", []byte("jpeg:"+name))
}
