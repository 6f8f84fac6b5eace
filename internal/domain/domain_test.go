package domain

import (
	"errors"
	"testing"
)

func TestNewCartSummary_LineTotals(t *testing.T) {
	a := &Product{ID: 1, Price: 1000}
	b := &Product{ID: 2, Price: 250}
	sum := NewCartSummary([]CartLine{
		{ProductID: 1, Quantity: 5, Product: a},
		{ProductID: 2, Quantity: 2, Product: b},
	})
	if sum.Lines[0].LineTotal != 5000 {
		t.Fatalf("expected line total 5000, got %d", sum.Lines[0].LineTotal)
	}
	if sum.Total != 5500 {
		t.Fatalf("expected cart total 5500, got %d", sum.Total)
	}
}

func TestNewCartSummary_Empty(t *testing.T) {
	sum := NewCartSummary(nil)
	if sum.Total != 0 || sum.Lines == nil || len(sum.Lines) != 0 {
		t.Fatalf("unexpected empty summary %+v", sum)
	}
}

func TestProductValidate(t *testing.T) {
	ok := Product{Name: "바게트", Price: 2500, Category: CategoryBread, Stock: 50, Description: "고소한 빵"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := Product{Price: 99, Category: "PIZZA", Stock: 5}
	err := bad.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"name", "price", "category", "stock", "description"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Fatalf("expected %s error in %+v", field, verr.Fields)
		}
	}
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory(" cake ")
	if !ok || c != CategoryCake {
		t.Fatalf("expected CAKE, got %q %v", c, ok)
	}
	if _, ok := ParseCategory("pizza"); ok {
		t.Fatalf("expected unknown category")
	}
	if CategoryBeverage.Label() != "음료수" {
		t.Fatalf("unexpected label %q", CategoryBeverage.Label())
	}
}

func TestValidationError(t *testing.T) {
	v := &ValidationError{}
	if v.OrNil() != nil {
		t.Fatalf("expected nil for empty validation error")
	}
	v.Add("email", "email required")
	v.Add("email", "second message ignored")
	v.Add("address", "address required")
	if v.Fields["email"] != "email required" {
		t.Fatalf("expected first message kept, got %q", v.Fields["email"])
	}
	if got := v.Error(); got != "validation failed: address: address required; email: email required" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestProductNotFoundWrapsNotFound(t *testing.T) {
	if !errors.Is(ErrProductNotFound, ErrNotFound) {
		t.Fatalf("expected ErrProductNotFound to match ErrNotFound")
	}
}
