// Package rules classifies integers against the category active for a level.
package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchelldurbincs/NumberMunchers/internal/game/core"
)

// Kind selects the classification rule of a Category
type Kind int

const (
	KindMultipleOf Kind = iota
	KindEven
	KindOdd
	KindPrime
	KindGreaterThan
	KindLessThan
)

func (k Kind) String() string {
	switch k {
	case KindMultipleOf:
		return "multiples_of"
	case KindEven:
		return "even"
	case KindOdd:
		return "odd"
	case KindPrime:
		return "prime"
	case KindGreaterThan:
		return "greater_than"
	case KindLessThan:
		return "less_than"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// HasParam reports whether the kind carries an integer parameter
func (k Kind) HasParam() bool {
	return k == KindMultipleOf || k == KindGreaterThan || k == KindLessThan
}

// Category is the rule a level asks the player to munch by.
// Param is the divisor for KindMultipleOf and the threshold for
// KindGreaterThan / KindLessThan; it is zero otherwise.
type Category struct {
	Kind  Kind
	Param int
}

func MultipleOf(n int) Category  { return Category{Kind: KindMultipleOf, Param: n} }
func Even() Category             { return Category{Kind: KindEven} }
func Odd() Category              { return Category{Kind: KindOdd} }
func Prime() Category            { return Category{Kind: KindPrime} }
func GreaterThan(t int) Category { return Category{Kind: KindGreaterThan, Param: t} }
func LessThan(t int) Category    { return Category{Kind: KindLessThan, Param: t} }

// MaxParam bounds divisors and thresholds so generated values stay in int range
const MaxParam = 1_000_000

// Validate rejects categories no value can satisfy and parameters
// outside [-MaxParam, MaxParam]
func (c Category) Validate() error {
	switch c.Kind {
	case KindMultipleOf:
		if c.Param < 1 || c.Param > MaxParam {
			return fmt.Errorf("%w: multiples of %d", core.ErrInvalidCategory, c.Param)
		}
	case KindGreaterThan, KindLessThan:
		if c.Param < -MaxParam || c.Param > MaxParam {
			return fmt.Errorf("%w: %s threshold %d out of range", core.ErrInvalidCategory, c.Kind, c.Param)
		}
	case KindEven, KindOdd, KindPrime:
	default:
		return fmt.Errorf("%w: unknown kind %d", core.ErrInvalidCategory, int(c.Kind))
	}
	return nil
}

// String returns the config spelling, e.g. "multiples_of:3" or "prime"
func (c Category) String() string {
	if c.Kind.HasParam() {
		return fmt.Sprintf("%s:%d", c.Kind, c.Param)
	}
	return c.Kind.String()
}

// Name returns the label shown to the player
func (c Category) Name() string {
	switch c.Kind {
	case KindMultipleOf:
		return fmt.Sprintf("Multiples of %d", c.Param)
	case KindEven:
		return "Even Numbers"
	case KindOdd:
		return "Odd Numbers"
	case KindPrime:
		return "Prime Numbers"
	case KindGreaterThan:
		return fmt.Sprintf("Numbers > %d", c.Param)
	case KindLessThan:
		return fmt.Sprintf("Numbers < %d", c.Param)
	default:
		return c.String()
	}
}

// ParseCategory parses the config spelling produced by String
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	name, arg, hasArg := strings.Cut(s, ":")

	var kind Kind
	switch name {
	case "multiples_of", "multiple_of":
		kind = KindMultipleOf
	case "even":
		kind = KindEven
	case "odd":
		kind = KindOdd
	case "prime", "primes":
		kind = KindPrime
	case "greater_than":
		kind = KindGreaterThan
	case "less_than":
		kind = KindLessThan
	default:
		return Category{}, fmt.Errorf("%w: %q", core.ErrInvalidCategory, s)
	}

	c := Category{Kind: kind}
	if kind.HasParam() {
		if !hasArg {
			return Category{}, fmt.Errorf("%w: %q needs a parameter", core.ErrInvalidCategory, s)
		}
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return Category{}, fmt.Errorf("%w: %q: %v", core.ErrInvalidCategory, s, err)
		}
		c.Param = n
	} else if hasArg {
		return Category{}, fmt.Errorf("%w: %q takes no parameter", core.ErrInvalidCategory, s)
	}

	if err := c.Validate(); err != nil {
		return Category{}, err
	}
	return c, nil
}

// ParsePool parses a list of config spellings
func ParsePool(specs []string) ([]Category, error) {
	pool := make([]Category, 0, len(specs))
	for _, s := range specs {
		c, err := ParseCategory(s)
		if err != nil {
			return nil, err
		}
		pool = append(pool, c)
	}
	return pool, nil
}

// DefaultPool is the classic set of eight challenges
func DefaultPool() []Category {
	return []Category{
		MultipleOf(3),
		MultipleOf(4),
		MultipleOf(5),
		Even(),
		Odd(),
		Prime(),
		GreaterThan(25),
		LessThan(15),
	}
}

// DefaultPoolSpecs returns DefaultPool in config spelling
func DefaultPoolSpecs() []string {
	pool := DefaultPool()
	specs := make([]string, len(pool))
	for i, c := range pool {
		specs[i] = c.String()
	}
	return specs
}
