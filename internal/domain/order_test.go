package domain_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// helper для создания базового заказа с одной позицией.
func makeOrder() domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:         "order-1",
		CustomerID: "customer-1",
		Customer: domain.Customer{
			Name:            "Иван Иванов",
			Email:           "ivan@example.com",
			Phone:           "+70000000000",
			ShippingAddress: "Москва, ул. Ленина, 1",
		},
		Lines: []domain.OrderLine{
			{
				ProductID:  "product-1",
				Qty:        5,
				PriceMinor: 100,
				TotalMinor: 500,
			},
		},
		TotalItems: 5,
		TotalMinor: 500,
		Version:    0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestLineTotal(t *testing.T) {
	cases := []struct {
		name  string
		qty   int32
		price int64
		want  int64
	}{
		{name: "single unit", qty: 1, price: 1000, want: 1000},
		{name: "several units", qty: 3, price: 250, want: 750},
		{name: "zero price", qty: 7, price: 0, want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := domain.LineTotal(tc.qty, tc.price); got != tc.want {
				t.Fatalf("LineTotal(%d, %d) = %d, want %d", tc.qty, tc.price, got, tc.want)
			}
		})
	}
}

func TestOrderValidateInvariants_Ok(t *testing.T) {
	order := makeOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
		want error
	}{
		{
			name: "no customer",
			mut: func(o *domain.Order) {
				o.CustomerID = ""
			},
			want: domain.ErrCustomerRequired,
		},
		{
			name: "no lines",
			mut: func(o *domain.Order) {
				o.Lines = nil
				o.TotalItems = 0
				o.TotalMinor = 0
			},
			want: domain.ErrNoItems,
		},
		{
			name: "line without product",
			mut: func(o *domain.Order) {
				o.Lines[0].ProductID = ""
			},
			want: domain.ErrLineProductRequired,
		},
		{
			name: "zero qty",
			mut: func(o *domain.Order) {
				o.Lines[0].Qty = 0
				o.TotalItems = 0
				o.TotalMinor = 0
			},
			want: domain.ErrLineQtyInvalid,
		},
		{
			name: "negative price",
			mut: func(o *domain.Order) {
				o.Lines[0].PriceMinor = -1
				o.TotalMinor = -5
			},
			want: domain.ErrLinePriceInvalid,
		},
		{
			name: "total items mismatch",
			mut: func(o *domain.Order) {
				o.TotalItems = 99
			},
			want: domain.ErrTotalItemsMismatch,
		},
		{
			name: "total mismatch",
			mut: func(o *domain.Order) {
				o.TotalMinor = 1
			},
			want: domain.ErrTotalMismatch,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			tc.mut(&order)

			errs := order.ValidateInvariants()
			if len(errs) == 0 {
				t.Fatal("expected validation errors, got none")
			}
			found := false
			for _, err := range errs {
				if err == tc.want {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("expected %v among %v", tc.want, errs)
			}
		})
	}
}
