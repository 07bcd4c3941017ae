package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/flipiri/flipiri-api/internal/core/domain"
	"github.com/flipiri/flipiri-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory media store
// ---------------------------------------------------------------------------

const fakeCDN = "https://res.cloudinary.com/demo/image/upload/v1/"

type fakeMediaStore struct {
	objects   map[string]bool
	seq       int
	uploadErr error
	// destroyErr, when set, fails every Destroy call.
	destroyErr error
	destroyed  []string
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{objects: make(map[string]bool)}
}

func (f *fakeMediaStore) Upload(_ context.Context, r io.Reader, folder string) (*domain.StoredImage, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	f.seq++
	id := path.Join(folder, fmt.Sprintf("img%d", f.seq))
	f.objects[id] = true
	return &domain.StoredImage{URL: fakeCDN + id + ".png", ExternalID: id}, nil
}

func (f *fakeMediaStore) Destroy(_ context.Context, id string) error {
	f.destroyed = append(f.destroyed, id)
	if f.destroyErr != nil {
		return f.destroyErr
	}
	delete(f.objects, id)
	return nil
}

func (f *fakeMediaStore) ExternalID(url string) (string, bool) {
	if !strings.HasPrefix(url, fakeCDN) {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(url, fakeCDN), ".png"), true
}

// ---------------------------------------------------------------------------
// In-memory repositories
// ---------------------------------------------------------------------------

type stubProjectRepo struct {
	items     map[string]*domain.Project
	seq       int
	createErr error
	updateErr error
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{items: make(map[string]*domain.Project)}
}

func (r *stubProjectRepo) Create(_ context.Context, p *domain.Project) (*domain.Project, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	clone := *p
	clone.ID = fmt.Sprintf("p%d", r.seq)
	r.items[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubProjectRepo) List(_ context.Context) ([]*domain.Project, error) {
	out := make([]*domain.Project, 0, len(r.items))
	for _, p := range r.items {
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProjectRepo) Update(_ context.Context, id string, patch ports.ProjectPatch) (*domain.Project, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	p, ok := r.items[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	p.UpdatedAt = patch.UpdatedAt
	clone := *p
	return &clone, nil
}

func (r *stubProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrProjectNotFound
	}
	delete(r.items, id)
	return nil
}

type stubClientRepo struct {
	items     map[string]*domain.Client
	seq       int
	createErr error
	updateErr error
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{items: make(map[string]*domain.Client)}
}

func (r *stubClientRepo) Create(_ context.Context, c *domain.Client) (*domain.Client, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	clone := *c
	clone.ID = fmt.Sprintf("c%d", r.seq)
	r.items[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubClientRepo) List(_ context.Context) ([]*domain.Client, error) {
	out := make([]*domain.Client, 0, len(r.items))
	for _, c := range r.items {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id string) (*domain.Client, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubClientRepo) Update(_ context.Context, id string, patch ports.ClientPatch) (*domain.Client, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.Designation != nil {
		c.Designation = *patch.Designation
	}
	if patch.Image != nil {
		c.Image = *patch.Image
	}
	c.UpdatedAt = patch.UpdatedAt
	clone := *c
	return &clone, nil
}

func (r *stubClientRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrClientNotFound
	}
	delete(r.items, id)
	return nil
}

type stubAccountRepo struct {
	byEmail map[string]*domain.Account
	seq     int
	findErr error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byEmail: make(map[string]*domain.Account)}
}

func (r *stubAccountRepo) add(a *domain.Account) {
	r.seq++
	a.ID = fmt.Sprintf("u%d", r.seq)
	r.byEmail[a.Email] = a
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	a, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return a, nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	for _, a := range r.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	if _, ok := r.byEmail[a.Email]; ok {
		return nil, domain.ErrAccountExists
	}
	clone := *a
	r.add(&clone)
	return &clone, nil
}

type stubContactRepo struct {
	items map[string]*domain.ContactSubmission
	seq   int
}

func newStubContactRepo() *stubContactRepo {
	return &stubContactRepo{items: make(map[string]*domain.ContactSubmission)}
}

func (r *stubContactRepo) Create(_ context.Context, s *domain.ContactSubmission) (*domain.ContactSubmission, error) {
	r.seq++
	clone := *s
	clone.ID = fmt.Sprintf("s%d", r.seq)
	r.items[clone.ID] = &clone
	return &clone, nil
}

func (r *stubContactRepo) List(_ context.Context) ([]*domain.ContactSubmission, error) {
	out := make([]*domain.ContactSubmission, 0, len(r.items))
	for _, s := range r.items {
		out = append(out, s)
	}
	return out, nil
}

func (r *stubContactRepo) FindByID(_ context.Context, id string) (*domain.ContactSubmission, error) {
	s, ok := r.items[id]
	if !ok {
		return nil, domain.ErrSubmissionNotFound
	}
	return s, nil
}

func (r *stubContactRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrSubmissionNotFound
	}
	delete(r.items, id)
	return nil
}

// stubNewsletterRepo mimics the unique email index: Create rejects a known
// email even when FindByEmail was bypassed.
type stubNewsletterRepo struct {
	byEmail map[string]*domain.Subscriber
	seq     int
	// hideOnFind simulates a concurrent subscriber that FindByEmail misses.
	hideOnFind bool
	findErr    error
}

func newStubNewsletterRepo() *stubNewsletterRepo {
	return &stubNewsletterRepo{byEmail: make(map[string]*domain.Subscriber)}
}

func (r *stubNewsletterRepo) Create(_ context.Context, s *domain.Subscriber) (*domain.Subscriber, error) {
	if _, ok := r.byEmail[s.Email]; ok {
		return nil, domain.ErrEmailSubscribed
	}
	r.seq++
	clone := *s
	clone.ID = fmt.Sprintf("n%d", r.seq)
	r.byEmail[clone.Email] = &clone
	return &clone, nil
}

func (r *stubNewsletterRepo) FindByEmail(_ context.Context, email string) (*domain.Subscriber, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	s, ok := r.byEmail[email]
	if !ok || r.hideOnFind {
		return nil, domain.ErrSubscriberNotFound
	}
	return s, nil
}

func (r *stubNewsletterRepo) List(_ context.Context) ([]*domain.Subscriber, error) {
	out := make([]*domain.Subscriber, 0, len(r.byEmail))
	for _, s := range r.byEmail {
		out = append(out, s)
	}
	return out, nil
}

func (r *stubNewsletterRepo) Delete(_ context.Context, id string) error {
	for email, s := range r.byEmail {
		if s.ID == id {
			delete(r.byEmail, email)
			return nil
		}
	}
	return domain.ErrSubscriberNotFound
}

// ---------------------------------------------------------------------------
// In-memory list cache
// ---------------------------------------------------------------------------

type memListCache struct {
	entries     map[string]any
	versions    map[string]int64
	gets        int
	invalidated []string
	getErr      error
}

func newMemListCache() *memListCache {
	return &memListCache{entries: make(map[string]any), versions: make(map[string]int64)}
}

func (m *memListCache) Get(_ context.Context, key string, dst any) (bool, error) {
	m.gets++
	if m.getErr != nil {
		return false, m.getErr
	}
	v, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *[]*domain.Project:
		*d = v.([]*domain.Project)
	case *[]*domain.Client:
		*d = v.([]*domain.Client)
	default:
		return false, errors.New("unsupported type")
	}
	return true, nil
}

func (m *memListCache) Version(_ context.Context, key string) (int64, error) {
	return m.versions[key], nil
}

func (m *memListCache) SetIfVersion(_ context.Context, key string, version int64, value any) (bool, error) {
	if m.versions[key] != version {
		return false, nil
	}
	m.entries[key] = value
	return true, nil
}

func (m *memListCache) Invalidate(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.versions[k]++
		delete(m.entries, k)
		m.invalidated = append(m.invalidated, k)
	}
	return nil
}

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake")

func strPtr(s string) *string { return &s }

