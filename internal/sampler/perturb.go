package sampler

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
)

// literalRe matches integer and decimal literals, with an optional percent
// sign. Percent literals are rates and are never scaled.
var literalRe = regexp.MustCompile(`\d+(?:\.\d+)?%?`)

// maxLiteralDigits bounds the digits of a scaled literal so that every
// intermediate product fits in an int64.
const maxLiteralDigits = 15

// Factor is the exact rational scale applied to every perturbed literal.
type Factor struct {
	Num int64
	Den int64
}

// Float returns the factor as a float64. The zero Factor reports 1.
func (f Factor) Float() float64 {
	if f.Den == 0 {
		return 1
	}
	return float64(f.Num) / float64(f.Den)
}

func (f Factor) String() string {
	if f.Den == 0 {
		return "1"
	}
	return strconv.FormatInt(f.Num, 10) + "/" + strconv.FormatInt(f.Den, 10)
}

// scaling maps literal texts to their scaled replacements.
type scaling struct {
	factor    Factor
	precision int
}

// apply rewrites every non-percent literal in s.
func (sc scaling) apply(s string) string {
	return literalRe.ReplaceAllStringFunc(s, func(lit string) string {
		if strings.HasSuffix(lit, "%") {
			return lit
		}
		units, ok := toUnits(lit, sc.precision)
		if !ok {
			return lit
		}
		return fromUnits(units/sc.factor.Den*sc.factor.Num, sc.precision)
	})
}

// planScaling picks one factor m/g in [0.9, 1.1], m != g, where g is the
// gcd of every scalable literal in texts measured in units of the finest
// decimal precision. Dividing each literal by g and multiplying by m keeps
// every result an exact positive value at that precision that differs from
// the original. It reports false when texts[0] has no scalable literal or
// no admissible factor exists.
func planScaling(rng *rand.Rand, texts []string) (scaling, bool) {
	var lits []string
	promptHasLiteral := false
	for i, t := range texts {
		for _, lit := range literalRe.FindAllString(t, -1) {
			if strings.HasSuffix(lit, "%") {
				continue
			}
			lits = append(lits, lit)
			if i == 0 {
				promptHasLiteral = true
			}
		}
	}
	if !promptHasLiteral {
		return scaling{}, false
	}

	precision := 0
	for _, lit := range lits {
		if _, frac, ok := strings.Cut(lit, "."); ok {
			precision = max(precision, len(frac))
		}
	}

	var g int64
	for _, lit := range lits {
		u, ok := toUnits(lit, precision)
		if !ok || u == 0 {
			return scaling{}, false
		}
		g = gcd(g, u)
	}

	lo := (9*g + 9) / 10
	hi := 11 * g / 10
	n := hi - lo // candidates in [lo, hi] minus g itself
	if n <= 0 {
		return scaling{}, false
	}
	m := lo + rng.Int64N(n)
	if m >= g {
		m++
	}
	return scaling{factor: Factor{Num: m, Den: g}, precision: precision}, true
}

// toUnits converts a decimal literal to an integer count of 10^-precision.
func toUnits(lit string, precision int) (int64, bool) {
	whole, frac, _ := strings.Cut(lit, ".")
	if len(frac) > precision {
		return 0, false
	}
	digits := strings.TrimLeft(whole+frac+strings.Repeat("0", precision-len(frac)), "0")
	if digits == "" {
		return 0, true
	}
	if len(digits) > maxLiteralDigits {
		return 0, false
	}
	u, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return u, true
}

// fromUnits formats units back as a decimal, trimming trailing zeros.
func fromUnits(units int64, precision int) string {
	s := strconv.FormatInt(units, 10)
	if precision == 0 {
		return s
	}
	if len(s) <= precision {
		s = strings.Repeat("0", precision-len(s)+1) + s
	}
	whole, frac := s[:len(s)-precision], strings.TrimRight(s[len(s)-precision:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
