package telemetry

// Shot and qubit counts are continuous values. Attaching them to events
// verbatim would mint a new backend dimension value per distinct count,
// so they are rounded up into a small fixed set of buckets first.

// Bucket upper bounds.
const (
	maxShotsBucket  = 1_000_000
	maxQubitsBucket = 1024
)

// ShotsBucket maps a raw shot count to the smallest power of 10 that is
// greater than or equal to it, e.g. 75 -> 100, 450 -> 1000, 1000 -> 1000.
// Results are clamped to the range [1, 1000000].
func ShotsBucket(shots int) int {
	if shots <= 1 {
		return 1
	}
	if shots >= maxShotsBucket {
		return maxShotsBucket
	}
	// Integer walk instead of math.Log10: exact at the power-of-10
	// boundaries where the float round trip is not.
	bucket := 10
	for bucket < shots {
		bucket *= 10
	}
	return bucket
}

// QubitsBucket maps a qubit count to the smallest power of 2 that is
// greater than or equal to it, clamped to the range [1, 1024].
func QubitsBucket(qubits int) int {
	if qubits <= 1 {
		return 1
	}
	if qubits >= maxQubitsBucket {
		return maxQubitsBucket
	}
	bucket := 2
	for bucket < qubits {
		bucket *= 2
	}
	return bucket
}
