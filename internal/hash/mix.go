package hash

// Mix folds values into seed with the SplitMix64 finalizer.
func Mix(seed uint64, values ...uint64) uint64 {
	x := seed
	for _, v := range values {
		x += 0x9e3779b97f4a7c15 + v
		x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
		x = (x ^ (x >> 27)) * 0x94d049bb133111eb
		x ^= x >> 31
	}
	return x
}
