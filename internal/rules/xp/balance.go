package xp

import apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"

var (
	// ErrInvalidAmount indicates a non-positive balance mutation amount.
	ErrInvalidAmount = apperrors.New(apperrors.CodeXPInvalidAmount, "experience amount must be greater than zero")
	// ErrInsufficient indicates the character has too little experience to spend.
	ErrInsufficient = apperrors.New(apperrors.CodeXPInsufficient, "experience is insufficient")
)

// Balance is a character's spendable experience.
type Balance struct {
	CharacterID string
	Value       int
}

// ApplyAward returns a Balance with increased value along with the before
// and after readings. Amount must be greater than zero.
func ApplyAward(balance Balance, amount int) (Balance, int, int, error) {
	if amount <= 0 {
		return Balance{}, 0, 0, ErrInvalidAmount
	}
	before := balance.Value
	updated := balance
	updated.Value = before + amount
	return updated, before, updated.Value, nil
}

// ApplySpend returns a Balance with reduced value along with the before and
// after readings. Amount must be greater than zero and cannot exceed the
// current balance; experience never goes negative.
func ApplySpend(balance Balance, amount int) (Balance, int, int, error) {
	if amount <= 0 {
		return Balance{}, 0, 0, ErrInvalidAmount
	}
	if balance.Value < amount {
		return Balance{}, 0, 0, ErrInsufficient
	}
	before := balance.Value
	updated := balance
	updated.Value = before - amount
	return updated, before, updated.Value, nil
}
