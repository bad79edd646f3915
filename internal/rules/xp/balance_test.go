package xp

import (
	"errors"
	"testing"
)

func TestApplyAward(t *testing.T) {
	balance := Balance{CharacterID: "char-1", Value: 10}
	updated, before, after, err := ApplyAward(balance, 5)
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if before != 10 || after != 15 || updated.Value != 15 {
		t.Fatalf("award = %d -> %d (%d), want 10 -> 15", before, after, updated.Value)
	}
}

func TestApplyAwardRejectsNonPositive(t *testing.T) {
	if _, _, _, err := ApplyAward(Balance{Value: 10}, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestApplySpend(t *testing.T) {
	updated, before, after, err := ApplySpend(Balance{CharacterID: "char-1", Value: 25}, 8)
	if err != nil {
		t.Fatalf("spend: %v", err)
	}
	if before != 25 || after != 17 || updated.Value != 17 {
		t.Fatalf("spend = %d -> %d (%d), want 25 -> 17", before, after, updated.Value)
	}
}

func TestApplySpendInsufficient(t *testing.T) {
	// 20 XP on hand cannot buy a 50 XP second archetype; balance unchanged.
	balance := Balance{CharacterID: "char-1", Value: 20}
	_, _, _, err := ApplySpend(balance, SecondArchetypeCost)
	if !errors.Is(err, ErrInsufficient) {
		t.Fatalf("err = %v, want ErrInsufficient", err)
	}
	if balance.Value != 20 {
		t.Fatalf("balance mutated to %d, want 20", balance.Value)
	}
}

func TestApplySpendNeverGoesNegative(t *testing.T) {
	for amount := 1; amount <= 30; amount++ {
		updated, _, _, err := ApplySpend(Balance{Value: 25}, amount)
		if err != nil {
			if amount <= 25 {
				t.Fatalf("spend %d: %v", amount, err)
			}
			continue
		}
		if updated.Value < 0 {
			t.Fatalf("spend %d produced negative balance %d", amount, updated.Value)
		}
	}
}
