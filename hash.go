package snapshotpool

// MaxSnapshotWords is the largest number of payload words a record may have.
// Each word position hashes with its own prime and the prime table is finite.
const MaxSnapshotWords = 84

// hashPrimes are the first 85 odd primes, one multiplier per word position.
var hashPrimes = [MaxSnapshotWords + 1]uint32{
	3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71, 73, 79, 83, 89, 97,
	101, 103, 107, 109, 113, 127, 131, 137, 139, 149, 151, 157, 163, 167, 173, 179, 181, 191, 193,
	197, 199, 211, 223, 227, 229, 233, 239, 241, 251, 257, 263, 269, 271, 277, 281, 283, 293, 307,
	311, 313, 317, 331, 337, 347, 349, 353, 359, 367, 373, 379, 383, 389, 397, 401, 409, 419, 421,
	431, 433, 439, 443,
}

// hashPart is the contribution of value at word index to a record hash.
// A record hash is the XOR of the parts of all its words, so replacing one
// word updates it with two XORs.
func hashPart(value, index uint32) uint32 {
	return value * hashPrimes[index]
}

// rehash returns hash with the word at index changed from old to updated.
func rehash(hash, index, old, updated uint32) uint32 {
	return hash ^ hashPart(old, index) ^ hashPart(updated, index)
}

// sizedHash mixes a variable-size record's length into its key hash, so
// records with equal words but different sizes spread over different buckets.
func sizedHash(hash, size uint32) uint32 {
	return hash ^ size*0x9E3779B1
}
