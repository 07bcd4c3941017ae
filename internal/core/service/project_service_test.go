package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/flipiri/flipiri-api/internal/core/domain"
	"github.com/flipiri/flipiri-api/internal/core/ports"
)

type projectFixture struct {
	svc   *ProjectService
	repo  *stubProjectRepo
	store *fakeMediaStore
	cache *memListCache
}

func newProjectFixture() projectFixture {
	repo := newStubProjectRepo()
	store := newFakeMediaStore()
	cache := newMemListCache()
	svc := NewProjectService(repo, NewMediaManager(store, zerolog.Nop()), cache, "flipiri", zerolog.Nop())
	return projectFixture{svc: svc, repo: repo, store: store, cache: cache}
}

func (f projectFixture) create(t *testing.T) *domain.Project {
	t.Helper()
	p, err := f.svc.Create(context.Background(), ports.CreateProjectInput{
		Name:        "Landing",
		Description: "Marketing site",
		Image:       ports.ImageInput{File: pngBytes},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return p
}

func TestProjectService_CreateAndGet(t *testing.T) {
	f := newProjectFixture()
	p := f.create(t)

	if p.ID == "" || p.CreatedAt.IsZero() || !p.CreatedAt.Equal(p.UpdatedAt) {
		t.Fatalf("unexpected project %+v", p)
	}
	id, ok := f.store.ExternalID(p.Image)
	if !ok || !f.store.objects[id] {
		t.Fatalf("image %q not backed by a stored object", p.Image)
	}
	if id != "flipiri/projects/img1" {
		t.Fatalf("image stored in wrong folder: %s", id)
	}

	got, err := f.svc.Get(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Landing" || got.Description != "Marketing site" || got.Image != p.Image {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestProjectService_CreateWithImageURL(t *testing.T) {
	f := newProjectFixture()
	p, err := f.svc.Create(context.Background(), ports.CreateProjectInput{
		Name: "A", Description: "B", Image: ports.ImageInput{URL: "https://example.com/a.png"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Image != "https://example.com/a.png" || f.store.seq != 0 {
		t.Fatalf("expected URL kept without upload, got %+v", p)
	}
}

func TestProjectService_CreateValidation(t *testing.T) {
	f := newProjectFixture()
	cases := []ports.CreateProjectInput{
		{Name: "", Description: "d", Image: ports.ImageInput{File: pngBytes}},
		{Name: "n", Description: "  ", Image: ports.ImageInput{File: pngBytes}},
		{Name: "n", Description: "d"},
	}
	for _, in := range cases {
		if _, err := f.svc.Create(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	}
	if len(f.repo.items) != 0 || len(f.store.objects) != 0 {
		t.Fatal("invalid input must not persist anything")
	}
}

func TestProjectService_CreateUploadFailure(t *testing.T) {
	f := newProjectFixture()
	f.store.uploadErr = errors.New("cloud down")

	_, err := f.svc.Create(context.Background(), ports.CreateProjectInput{
		Name: "n", Description: "d", Image: ports.ImageInput{File: pngBytes},
	})
	if !errors.Is(err, domain.ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}
	if len(f.repo.items) != 0 {
		t.Fatal("record created despite failed upload")
	}
}

func TestProjectService_CreateRepoFailureReleasesUpload(t *testing.T) {
	f := newProjectFixture()
	f.repo.createErr = errors.New("write concern")

	_, err := f.svc.Create(context.Background(), ports.CreateProjectInput{
		Name: "n", Description: "d", Image: ports.ImageInput{File: pngBytes},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(f.store.objects) != 0 {
		t.Fatal("uploaded image left behind")
	}
}

func TestProjectService_UpdateReplacesImage(t *testing.T) {
	f := newProjectFixture()
	p := f.create(t)
	oldID, _ := f.store.ExternalID(p.Image)

	updated, err := f.svc.Update(context.Background(), p.ID, ports.UpdateProjectInput{
		Name:  strPtr(" Renamed "),
		Image: ports.ImageInput{File: pngBytes},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Renamed" || updated.Description != "Marketing site" {
		t.Fatalf("partial update wrong: %+v", updated)
	}
	if updated.Image == p.Image {
		t.Fatal("image not replaced")
	}
	if f.store.objects[oldID] {
		t.Fatal("old image not released")
	}
	newID, _ := f.store.ExternalID(updated.Image)
	if !f.store.objects[newID] {
		t.Fatal("new image missing")
	}
	if !updated.UpdatedAt.After(p.UpdatedAt) && !updated.UpdatedAt.Equal(p.UpdatedAt) {
		t.Fatal("updatedAt went backwards")
	}
}

func TestProjectService_UpdateUploadFailureLeavesRecord(t *testing.T) {
	f := newProjectFixture()
	p := f.create(t)
	f.store.uploadErr = errors.New("cloud down")

	_, err := f.svc.Update(context.Background(), p.ID, ports.UpdateProjectInput{
		Name:  strPtr("Changed"),
		Image: ports.ImageInput{File: pngBytes},
	})
	if !errors.Is(err, domain.ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}

	got, _ := f.svc.Get(context.Background(), p.ID)
	if got.Name != "Landing" || got.Image != p.Image {
		t.Fatalf("record changed after failed upload: %+v", got)
	}
	oldID, _ := f.store.ExternalID(p.Image)
	if !f.store.objects[oldID] {
		t.Fatal("old image released after failed upload")
	}
}

func TestProjectService_UpdateRepoFailureReleasesNewUpload(t *testing.T) {
	f := newProjectFixture()
	p := f.create(t)
	f.repo.updateErr = errors.New("write conflict")

	if _, err := f.svc.Update(context.Background(), p.ID, ports.UpdateProjectInput{
		Image: ports.ImageInput{File: pngBytes},
	}); err == nil {
		t.Fatal("expected error")
	}

	oldID, _ := f.store.ExternalID(p.Image)
	if len(f.store.objects) != 1 || !f.store.objects[oldID] {
		t.Fatalf("expected only the original image, got %v", f.store.objects)
	}
}

func TestProjectService_UpdateBlankFieldsKeepValues(t *testing.T) {
	f := newProjectFixture()
	p := f.create(t)

	updated, err := f.svc.Update(context.Background(), p.ID, ports.UpdateProjectInput{
		Name:        strPtr("   "),
		Description: strPtr("Rebuilt site"),
	})
	if err != nil {
		t.Fatalf("blank field should be skipped, got %v", err)
	}
	if updated.Name != "Landing" || updated.Description != "Rebuilt site" {
		t.Fatalf("unexpected project %+v", updated)
	}
}

func TestProjectService_UpdateMissing(t *testing.T) {
	f := newProjectFixture()
	_, err := f.svc.Update(context.Background(), "nope", ports.UpdateProjectInput{
		Image: ports.ImageInput{File: pngBytes},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if f.store.seq != 0 {
		t.Fatal("image uploaded for a missing record")
	}
}

func TestProjectService_DeleteTwice(t *testing.T) {
	f := newProjectFixture()
	p := f.create(t)

	if err := f.svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.svc.Delete(context.Background(), p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
	if len(f.store.destroyed) != 1 {
		t.Fatalf("expected exactly one destroy, got %v", f.store.destroyed)
	}
	if _, err := f.svc.Get(context.Background(), p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestProjectService_DeleteSucceedsWhenCleanupFails(t *testing.T) {
	f := newProjectFixture()
	p := f.create(t)
	f.store.destroyErr = errors.New("cdn unavailable")

	if err := f.svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("cleanup failure must not fail delete: %v", err)
	}
	if _, ok := f.repo.items[p.ID]; ok {
		t.Fatal("record still present")
	}
}

func TestProjectService_ListCache(t *testing.T) {
	f := newProjectFixture()
	f.create(t)

	first, err := f.svc.List(context.Background())
	if err != nil || len(first) != 1 {
		t.Fatalf("list: %v %d", err, len(first))
	}
	if _, ok := f.cache.entries[projectsCacheKey]; !ok {
		t.Fatal("list not cached")
	}

	f.create(t)
	if _, ok := f.cache.entries[projectsCacheKey]; ok {
		t.Fatal("create did not invalidate the cache")
	}
	second, _ := f.svc.List(context.Background())
	if len(second) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(second))
	}
}

func TestProjectService_ListCacheErrorFallsBack(t *testing.T) {
	f := newProjectFixture()
	f.create(t)
	f.cache.getErr = errors.New("redis timeout")

	items, err := f.svc.List(context.Background())
	if err != nil || len(items) != 1 {
		t.Fatalf("expected store fallback, got %v %d", err, len(items))
	}
}

// interleavedProjectRepo runs afterList once, between the store read and the
// caller seeing the result.
type interleavedProjectRepo struct {
	*stubProjectRepo
	afterList func()
}

func (r *interleavedProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	items, err := r.stubProjectRepo.List(ctx)
	if hook := r.afterList; hook != nil {
		r.afterList = nil
		hook()
	}
	return items, err
}

func TestProjectService_ListDoesNotCacheAcrossConcurrentDelete(t *testing.T) {
	f := newProjectFixture()
	p := f.create(t)

	repo := &interleavedProjectRepo{stubProjectRepo: f.repo}
	svc := NewProjectService(repo, NewMediaManager(f.store, zerolog.Nop()), f.cache, "flipiri", zerolog.Nop())
	repo.afterList = func() {
		if err := svc.Delete(context.Background(), p.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
	}

	stale, err := svc.List(context.Background())
	if err != nil || len(stale) != 1 {
		t.Fatalf("first list: %v %d", err, len(stale))
	}
	if _, ok := f.cache.entries[projectsCacheKey]; ok {
		t.Fatal("list loaded before the delete was cached")
	}

	fresh, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if len(fresh) != 0 {
		t.Fatalf("deleted project still listed: %+v", fresh)
	}
	if len(f.store.destroyed) != 1 {
		t.Fatalf("expected the image destroyed once, got %v", f.store.destroyed)
	}
}
