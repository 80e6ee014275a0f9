package models

import "testing"

func TestClampQuantity(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, 1},
		{-3, 1},
		{1, 1},
		{5, 5},
		{10, 10},
		{11, 10},
		{999, 10},
	}
	for _, c := range cases {
		if got := ClampQuantity(c.in); got != c.want {
			t.Errorf("ClampQuantity(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestCartAddMergesExistingLine(t *testing.T) {
	cart := Cart{UserID: "u1"}
	cart.Add(CartLine{ProductID: "p1", Name: "Burger", UnitPrice: 18.50, Quantity: 2})
	cart.Add(CartLine{ProductID: "p1", Name: "Burger", UnitPrice: 18.50, Quantity: 3})

	if len(cart.Lines) != 1 {
		t.Fatalf("expected 1 line after merge, got %d", len(cart.Lines))
	}
	if cart.Lines[0].Quantity != 5 {
		t.Errorf("expected merged quantity 5, got %d", cart.Lines[0].Quantity)
	}
}

func TestCartAddClampsMergedQuantity(t *testing.T) {
	cart := Cart{UserID: "u1"}
	cart.Add(CartLine{ProductID: "p1", Quantity: 8})
	cart.Add(CartLine{ProductID: "p1", Quantity: 8})

	if cart.Lines[0].Quantity != MaxQuantity {
		t.Errorf("expected quantity clamped to %d, got %d", MaxQuantity, cart.Lines[0].Quantity)
	}
}

func TestCartAddClampsNewLine(t *testing.T) {
	cart := Cart{UserID: "u1"}
	cart.Add(CartLine{ProductID: "p1", Quantity: 0})

	if cart.Lines[0].Quantity != MinQuantity {
		t.Errorf("expected zero quantity raised to %d, got %d", MinQuantity, cart.Lines[0].Quantity)
	}
}

func TestCartSetQuantity(t *testing.T) {
	cart := Cart{UserID: "u1"}
	cart.Add(CartLine{ProductID: "p1", Quantity: 2})

	if !cart.SetQuantity("p1", 7) {
		t.Fatal("SetQuantity returned false for present product")
	}
	if cart.Lines[0].Quantity != 7 {
		t.Errorf("expected quantity 7, got %d", cart.Lines[0].Quantity)
	}

	if cart.SetQuantity("ghost", 3) {
		t.Error("SetQuantity returned true for absent product")
	}
}

func TestCartRemoveIsNoOpWhenAbsent(t *testing.T) {
	cart := Cart{UserID: "u1"}
	cart.Add(CartLine{ProductID: "p1", Quantity: 1})
	cart.Add(CartLine{ProductID: "p2", Quantity: 1})

	cart.Remove("ghost")
	if len(cart.Lines) != 2 {
		t.Fatalf("remove of absent product changed the cart: %d lines", len(cart.Lines))
	}

	cart.Remove("p1")
	if len(cart.Lines) != 1 || cart.Lines[0].ProductID != "p2" {
		t.Errorf("expected only p2 to remain, got %+v", cart.Lines)
	}
}

func TestCartTotal(t *testing.T) {
	cart := Cart{UserID: "u1"}
	cart.Add(CartLine{ProductID: "p1", UnitPrice: 10.00, Quantity: 2})
	cart.Add(CartLine{ProductID: "p2", UnitPrice: 4.50, Quantity: 3})

	want := 10.00*2 + 4.50*3
	if got := cart.Total(); got != want {
		t.Errorf("Total() = %v, want %v", got, want)
	}

	cart.Clear()
	if !cart.IsEmpty() {
		t.Error("cart not empty after Clear")
	}
	if got := cart.Total(); got != 0 {
		t.Errorf("Total() of empty cart = %v, want 0", got)
	}
}
