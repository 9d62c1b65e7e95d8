package rules

// Matches reports whether value satisfies the category
func Matches(c Category, value int) bool {
	switch c.Kind {
	case KindMultipleOf:
		if c.Param < 1 {
			return false
		}
		return value%c.Param == 0
	case KindEven:
		return value%2 == 0
	case KindOdd:
		return value%2 != 0
	case KindPrime:
		return IsPrime(value)
	case KindGreaterThan:
		return value > c.Param
	case KindLessThan:
		return value < c.Param
	default:
		return false
	}
}

// Matches is a method form of the package-level Matches
func (c Category) Matches(value int) bool {
	return Matches(c, value)
}

// IsPrime uses trial division up to sqrt(n)
func IsPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n < 4 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	for i := 3; i*i <= n; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}
