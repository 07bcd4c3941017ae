package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/flipiri/flipiri-api/internal/core/domain"
)

func TestNewsletterService_SubscribeNormalizes(t *testing.T) {
	svc := NewNewsletterService(newStubNewsletterRepo(), zerolog.Nop())

	sub, err := svc.Subscribe(context.Background(), "  Reader@Example.COM ")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if sub.Email != "reader@example.com" || sub.SubscribedAt.IsZero() {
		t.Fatalf("unexpected subscriber %+v", sub)
	}
}

func TestNewsletterService_SubscribeTwice(t *testing.T) {
	repo := newStubNewsletterRepo()
	svc := NewNewsletterService(repo, zerolog.Nop())

	if _, err := svc.Subscribe(context.Background(), "a@example.com"); err != nil {
		t.Fatalf("first: %v", err)
	}
	_, err := svc.Subscribe(context.Background(), "A@example.com")
	if !errors.Is(err, domain.ErrEmailSubscribed) {
		t.Fatalf("expected ErrEmailSubscribed, got %v", err)
	}
	if len(repo.byEmail) != 1 {
		t.Fatalf("expected 1 subscriber, got %d", len(repo.byEmail))
	}
}

func TestNewsletterService_UniqueIndexCatchesRace(t *testing.T) {
	repo := newStubNewsletterRepo()
	svc := NewNewsletterService(repo, zerolog.Nop())
	if _, err := svc.Subscribe(context.Background(), "a@example.com"); err != nil {
		t.Fatalf("first: %v", err)
	}

	repo.hideOnFind = true
	_, err := svc.Subscribe(context.Background(), "a@example.com")
	if !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestNewsletterService_SubscribeValidation(t *testing.T) {
	svc := NewNewsletterService(newStubNewsletterRepo(), zerolog.Nop())
	if _, err := svc.Subscribe(context.Background(), "   "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestNewsletterService_LookupErrorPropagates(t *testing.T) {
	repo := newStubNewsletterRepo()
	repo.findErr = errors.New("socket closed")
	svc := NewNewsletterService(repo, zerolog.Nop())

	_, err := svc.Subscribe(context.Background(), "a@example.com")
	if err == nil || errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}

func TestNewsletterService_Delete(t *testing.T) {
	svc := NewNewsletterService(newStubNewsletterRepo(), zerolog.Nop())
	sub, _ := svc.Subscribe(context.Background(), "a@example.com")

	if err := svc.Delete(context.Background(), sub.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), sub.ID); !errors.Is(err, domain.ErrSubscriberNotFound) {
		t.Fatalf("expected ErrSubscriberNotFound, got %v", err)
	}
}
