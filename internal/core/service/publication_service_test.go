package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/marketplace-api/marketplace/internal/core/domain"
	"github.com/marketplace-api/marketplace/internal/core/ports"
)

func newPublicationService(t *testing.T) (*PublicationService, *stubCatalogRepo) {
	t.Helper()
	catalog := newStubCatalogRepo()
	for _, name := range []string{"Books", "Games"} {
		if err := catalog.Create(context.Background(), domain.CatalogCategories, &domain.CatalogEntry{Name: name}); err != nil {
			t.Fatalf("seed category: %v", err)
		}
	}
	return NewPublicationService(newMemStore[domain.Publication](), catalog, zerolog.Nop()), catalog
}

func TestPublicationService_ListByCategory(t *testing.T) {
	svc, catalog := newPublicationService(t)
	ctx := context.Background()
	books, _ := catalog.FindByName(ctx, domain.CatalogCategories, "Books")
	games, _ := catalog.FindByName(ctx, domain.CatalogCategories, "Games")

	_, _ = svc.Create(ctx, 1, ports.CreatePublicationInput{Title: "Dune", CategoryID: books.ID, Price: 10})
	_, _ = svc.Create(ctx, 1, ports.CreatePublicationInput{Title: "Chess", CategoryID: games.ID, Price: 20})

	all, err := svc.List(ctx, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("expected 2 publications, got %d (%v)", len(all), err)
	}

	got, err := svc.List(ctx, "Books")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Dune" {
		t.Fatalf("unexpected books: %+v", got)
	}

	// Equality match only.
	if got, _ := svc.List(ctx, "Book"); len(got) != 0 {
		t.Fatalf("partial name should not match, got %+v", got)
	}

	unknown, err := svc.List(ctx, "Cars")
	if err != nil {
		t.Fatalf("unknown category should not fail: %v", err)
	}
	if unknown == nil || len(unknown) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", unknown)
	}
}

func TestPublicationService_OwnerOnlyMutations(t *testing.T) {
	svc, _ := newPublicationService(t)
	ctx := context.Background()

	pub, err := svc.Create(ctx, 1, ports.CreatePublicationInput{Title: "Lamp", CategoryID: 1, Description: "Desk lamp", Price: 15, Stock: 3})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(ctx, pub.ID); err != nil {
		t.Fatalf("anyone can read a publication: %v", err)
	}
	if _, err := svc.Update(ctx, 2, pub.ID, domain.PublicationPatch{Title: strPtr("Stolen")}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-owner update, got %v", err)
	}
	if err := svc.Delete(ctx, 2, pub.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-owner delete, got %v", err)
	}

	price := 12.5
	updated, err := svc.Update(ctx, 1, pub.ID, domain.PublicationPatch{Price: &price})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Price != 12.5 || updated.Title != "Lamp" || updated.Description != "Desk lamp" || updated.Stock != 3 {
		t.Fatalf("patch changed omitted fields: %+v", updated)
	}

	mine, _ := svc.ListByOwner(ctx, 1)
	if len(mine) != 1 {
		t.Fatalf("expected one owned publication, got %d", len(mine))
	}
	if err := svc.Delete(ctx, 1, pub.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestPublicationService_Create_Validation(t *testing.T) {
	svc, _ := newPublicationService(t)

	cases := map[string]ports.CreatePublicationInput{
		"blank title":      {Title: " ", CategoryID: 1},
		"missing category": {Title: "x"},
		"negative price":   {Title: "x", CategoryID: 1, Price: -1},
		"negative stock":   {Title: "x", CategoryID: 1, Stock: -1},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), 1, in); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
