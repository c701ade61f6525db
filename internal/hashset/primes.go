package hashset

import "math"

const (
	// MaxPrimeArrayLength is the largest prime below the maximum slice length
	// the set will grow to.
	MaxPrimeArrayLength = 0x7FEFFFFD

	// hashPrime is avoided as a factor of p-1 for bucket counts.
	hashPrime = 101
)

var primes = [...]int{
	3, 7, 11, 17, 23, 29, 37, 47, 59, 71, 89, 107, 131, 163, 197, 239, 293, 353, 431, 521, 631, 761, 919,
	1103, 1327, 1597, 1931, 2333, 2801, 3371, 4049, 4861, 5839, 7013, 8419, 10103, 12143, 14591,
	17519, 21023, 25229, 30293, 36353, 43627, 52361, 62851, 75431, 90523, 108631, 130363, 156437,
	187751, 225307, 270371, 324449, 389357, 467237, 560689, 672827, 807403, 968897, 1162687, 1395263,
	1674319, 2009191, 2411033, 2893249, 3471899, 4166287, 4999559, 5999471, 7199369,
}

// IsPrime reports whether candidate is prime.
func IsPrime(candidate int) bool {
	if candidate&1 == 0 {
		return candidate == 2
	}
	limit := int(math.Sqrt(float64(candidate)))
	for divisor := 3; divisor <= limit; divisor += 2 {
		if candidate%divisor == 0 {
			return false
		}
	}
	return candidate > 1
}

// GetPrime returns the smallest bucket-count prime >= minimum.
func GetPrime(minimum int) int {
	for _, p := range primes {
		if p >= minimum {
			return p
		}
	}

	// Outside the table: scan odd candidates.
	for i := minimum | 1; i < math.MaxInt32; i += 2 {
		if IsPrime(i) && (i-1)%hashPrime != 0 {
			return i
		}
	}
	return minimum
}

// ExpandPrime returns the bucket count to grow to from oldSize,
// roughly doubling and capped at MaxPrimeArrayLength.
func ExpandPrime(oldSize int) int {
	newSize := 2 * oldSize
	if newSize > MaxPrimeArrayLength && MaxPrimeArrayLength > oldSize {
		return MaxPrimeArrayLength
	}
	return GetPrime(newSize)
}
