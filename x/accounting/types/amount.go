package types

import (
	"cosmossdk.io/math"
)

// Amount is a non-negative quantity of token base units. The concrete
// instance in production is a 6-decimal USDT-denominated token; nothing in
// this package depends on that, it is carried as u64 base units throughout.
type Amount uint64

// Principal identifies an account holder. Equality- and order-comparable
// by construction (a plain string), matching the ICRC/IC principal model
// this system was originally built against.
type Principal string

// BurnSinkPrincipal is the designated sink that permanently holds
// MINIMUM_LIQUIDITY shares minted at pool bootstrap. It is never a real
// depositor and is excluded from LP counts and pagination.
const BurnSinkPrincipal Principal = "2vxsx-fae"

// IntToAmount converts an arbitrary-precision math.Int down to the 64-bit
// representation used for storage, failing closed on overflow rather than
// truncating. Every share-math result that crosses back into a stored
// Amount goes through this.
func IntToAmount(n math.Int) (Amount, error) {
	if n.IsNegative() {
		return 0, ErrOverflow.Wrap("negative amount")
	}
	if !n.IsUint64() {
		return 0, ErrOverflow.Wrap("amount exceeds 64 bits")
	}
	return Amount(n.Uint64()), nil
}

// NewInt lifts an Amount into the arbitrary-precision domain for
// intermediate share-math products that may exceed 64 bits before the
// final division.
func NewInt(a Amount) math.Int {
	return math.NewIntFromUint64(uint64(a))
}

// AddChecked adds two Amounts, failing on 64-bit overflow.
func (a Amount) AddChecked(b Amount) (Amount, error) {
	sum := a + b
	if sum < a {
		return 0, ErrOverflow.Wrap("addition overflow")
	}
	return sum, nil
}

// SubChecked subtracts b from a, failing if the result would be negative.
func (a Amount) SubChecked(b Amount) (Amount, error) {
	if b > a {
		return 0, ErrInsufficientBalance.Wrapf("have %d, need %d", a, b)
	}
	return a - b, nil
}
