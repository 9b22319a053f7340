package proto

import (
	"fmt"

	"github.com/walletmigrate/zwif/pkg/parser"
)

const (
	// ZatoshisPerZEC is the number of base units in one coin.
	ZatoshisPerZEC = 100_000_000
	// MaxMoney is the total monetary supply in zatoshis.
	MaxMoney = 21_000_000 * ZatoshisPerZEC
)

// Amount is a quantity of zatoshis. Wire amounts on outputs are unsigned and
// bounded by the monetary supply; values outside that range decoded from a
// wallet indicate corruption.
type Amount int64

func (a *Amount) Decode(p *parser.Parser) error {
	v, err := parser.ReadUint64(p)
	if err != nil {
		return err
	}
	if v > MaxMoney {
		return parser.InvalidFixedValueError{Reason: fmt.Sprintf("amount %d exceeds maximum of %d zatoshis", v, int64(MaxMoney))}
	}
	*a = Amount(v)
	return nil
}

// Valid reports whether the amount is inside [0, MaxMoney].
func (a Amount) Valid() bool {
	return a >= 0 && a <= MaxMoney
}

func (a Amount) String() string {
	whole := a / ZatoshisPerZEC
	frac := a % ZatoshisPerZEC
	if frac < 0 {
		frac = -frac
	}
	return fmt.Sprintf("%d.%08d", whole, frac)
}

// ValueBalance is the signed net value flowing between the transparent and
// Sapling value pools of a transaction.
type ValueBalance int64

func (v *ValueBalance) Decode(p *parser.Parser) error {
	raw, err := parser.ReadInt64(p)
	if err != nil {
		return err
	}
	if raw < -MaxMoney || raw > MaxMoney {
		return parser.InvalidFixedValueError{Reason: fmt.Sprintf("value balance %d outside [-%d, %d]", raw, int64(MaxMoney), int64(MaxMoney))}
	}
	*v = ValueBalance(raw)
	return nil
}
