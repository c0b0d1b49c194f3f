package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/marketplace-api/marketplace/internal/core/domain"
	"github.com/marketplace-api/marketplace/internal/core/ports"
)

func intPtr(i int) *int { return &i }

func newTransactionService(t *testing.T) (*TransactionService, uint) {
	t.Helper()
	pubs := newMemStore[domain.Publication]()
	pub := &domain.Publication{UserID: 9, Title: "Bike", Price: 100}
	if err := pubs.Add(context.Background(), pub); err != nil {
		t.Fatalf("seed publication: %v", err)
	}
	return NewTransactionService(newMemStore[domain.Transaction](), pubs, zerolog.Nop()), pub.ID
}

func TestTransactionService_Create(t *testing.T) {
	svc, pubID := newTransactionService(t)
	ctx := context.Background()

	tx, err := svc.Create(ctx, 1, ports.CreateTransactionInput{PublicationID: pubID, Amount: 100, Calification: intPtr(5)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tx.BuyerID != 1 || tx.TransactionDate.IsZero() {
		t.Fatalf("unexpected transaction: %+v", tx)
	}

	if _, err := svc.Create(ctx, 1, ports.CreateTransactionInput{PublicationID: 404, Amount: 1}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing publication, got %v", err)
	}
}

func TestTransactionService_Create_ReviewCountsCharacters(t *testing.T) {
	svc, pubID := newTransactionService(t)

	review := strings.Repeat("é", domain.MaxReviewTextSize)
	tx, err := svc.Create(context.Background(), 1, ports.CreateTransactionInput{PublicationID: pubID, ReviewText: &review})
	if err != nil {
		t.Fatalf("a %d character review should be accepted: %v", domain.MaxReviewTextSize, err)
	}
	if tx.ReviewText == nil || *tx.ReviewText != review {
		t.Fatalf("unexpected review: %v", tx.ReviewText)
	}
}

func TestTransactionService_Create_Validation(t *testing.T) {
	svc, pubID := newTransactionService(t)

	cases := map[string]ports.CreateTransactionInput{
		"calification too low":  {PublicationID: pubID, Calification: intPtr(0)},
		"calification too high": {PublicationID: pubID, Calification: intPtr(6)},
		"review too long":       {PublicationID: pubID, ReviewText: strPtr(strings.Repeat("a", domain.MaxReviewTextSize+1))},
		"negative amount":       {PublicationID: pubID, Amount: -5},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), 1, in); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestTransactionService_BuyerScoping(t *testing.T) {
	svc, pubID := newTransactionService(t)
	ctx := context.Background()
	tx, _ := svc.Create(ctx, 1, ports.CreateTransactionInput{PublicationID: pubID, Amount: 50})

	if _, err := svc.Get(ctx, 2, tx.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if list, _ := svc.List(ctx, 2); len(list) != 0 {
		t.Fatalf("other buyer should see nothing, got %+v", list)
	}

	updated, err := svc.Update(ctx, 1, tx.ID, domain.TransactionPatch{Calification: intPtr(4), ReviewText: strPtr("fine")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Amount != 50 || *updated.Calification != 4 || *updated.ReviewText != "fine" {
		t.Fatalf("unexpected transaction after patch: %+v", updated)
	}

	if err := svc.Delete(ctx, 2, tx.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-owner delete, got %v", err)
	}
	if err := svc.Delete(ctx, 1, tx.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}
