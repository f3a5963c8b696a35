package format

import (
	"math"
	"math/big"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	// DefaultManaPrefix is the currency marker of Manifold's play money.
	DefaultManaPrefix = "M$"

	maxDecimals = 20
)

// FormatNumber formats v with en-US digit grouping and exactly decimals
// fractional digits, rounding halves away from zero. decimals is clamped to
// [0, 20]. NaN formats as Placeholder.
//
// A negative v keeps its sign even when it rounds to zero, and so does
// negative zero: FormatNumber(-0.001, 2) is "-0.00".
func FormatNumber(v float64, decimals int) string {
	if math.IsNaN(v) {
		return Placeholder
	}
	decimals = min(max(decimals, 0), maxDecimals)

	p := message.NewPrinter(language.English)
	s := p.Sprintf("%v", number.Decimal(roundHalfAway(math.Abs(v), decimals), number.Scale(decimals)))
	if math.Signbit(v) {
		return "-" + s
	}
	return s
}

// FormatNumberPtr is FormatNumber for a nullable value; nil formats as
// Placeholder.
func FormatNumberPtr(v *float64, decimals int) string {
	if v == nil {
		return Placeholder
	}
	return FormatNumber(*v, decimals)
}

// roundHalfAway rounds the exact binary value of v to the given number of
// decimals. The result is the float64 nearest to that decimal, which the
// number formatter prints back without further rounding.
func roundHalfAway(v float64, decimals int) float64 {
	if math.IsInf(v, 0) || v == 0 {
		return v
	}
	const prec = 2048

	scale := new(big.Float).SetPrec(prec).SetInt(
		new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))

	x := new(big.Float).SetPrec(prec).SetFloat64(math.Abs(v))
	x.Mul(x, scale)
	x.Add(x, big.NewFloat(0.5))
	whole, _ := x.Int(nil)

	r := new(big.Float).SetPrec(prec).SetInt(whole)
	r.Quo(r, scale)
	f, _ := r.Float64()
	if v < 0 {
		return -f
	}
	return f
}

// ManaOption configures FormatMana.
type ManaOption func(*manaOptions)

type manaOptions struct {
	decimals    int
	hasDecimals bool
	prefix      string
}

// WithDecimals fixes the number of fractional digits instead of choosing
// them by magnitude.
func WithDecimals(d int) ManaOption {
	return func(o *manaOptions) {
		o.decimals = d
		o.hasDecimals = true
	}
}

// WithPrefix replaces the "M$" currency prefix.
func WithPrefix(prefix string) ManaOption {
	return func(o *manaOptions) {
		o.prefix = prefix
	}
}

// FormatMana formats a currency amount as "M$1,234". A negative amount gets
// the minus sign before the prefix: "-M$5.00".
//
// Without WithDecimals the precision follows the magnitude: 2 decimals below
// 10, 1 below 100, none otherwise. NaN formats as the prefix followed by
// Placeholder.
func FormatMana(v float64, opts ...ManaOption) string {
	o := manaOptions{prefix: DefaultManaPrefix}
	for _, opt := range opts {
		opt(&o)
	}
	if math.IsNaN(v) {
		return o.prefix + Placeholder
	}

	abs := math.Abs(v)
	d := o.decimals
	if !o.hasDecimals {
		d = manaDecimals(abs)
	}

	sign := ""
	if v < 0 {
		sign = "-"
	}
	return sign + o.prefix + FormatNumber(abs, d)
}

// FormatManaPtr is FormatMana for a nullable value.
func FormatManaPtr(v *float64, opts ...ManaOption) string {
	if v == nil {
		return FormatMana(math.NaN(), opts...)
	}
	return FormatMana(*v, opts...)
}

func manaDecimals(abs float64) int {
	switch {
	case abs < 10:
		return 2
	case abs < 100:
		return 1
	default:
		return 0
	}
}
