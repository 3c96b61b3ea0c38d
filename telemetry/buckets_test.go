package telemetry

import "testing"

func TestShotsBucket(t *testing.T) {
	tests := []struct {
		shots int
		want  int
	}{
		{-5, 1},
		{0, 1},
		{1, 1},
		{2, 10},
		{9, 10},
		{10, 10},
		{11, 100},
		{75, 100},
		{100, 100},
		{101, 1000},
		{450, 1000},
		{999, 1000},
		{1000, 1000},
		{1001, 10000},
		{999_999, 1_000_000},
		{1_000_000, 1_000_000},
		{1_000_001, 1_000_000},
		{50_000_000, 1_000_000},
	}

	for _, tt := range tests {
		if got := ShotsBucket(tt.shots); got != tt.want {
			t.Errorf("ShotsBucket(%d) = %d, want %d", tt.shots, got, tt.want)
		}
	}
}

func TestShotsBucketIsSmallestPowerOfTen(t *testing.T) {
	isPowerOfTen := func(n int) bool {
		for n > 1 {
			if n%10 != 0 {
				return false
			}
			n /= 10
		}
		return n == 1
	}

	for shots := 2; shots <= 999_999; shots += 97 {
		bucket := ShotsBucket(shots)
		if !isPowerOfTen(bucket) {
			t.Fatalf("ShotsBucket(%d) = %d is not a power of 10", shots, bucket)
		}
		if bucket < shots {
			t.Fatalf("ShotsBucket(%d) = %d is below the input", shots, bucket)
		}
		if bucket/10 >= shots {
			t.Fatalf("ShotsBucket(%d) = %d is not the smallest fitting power of 10", shots, bucket)
		}
	}
}

func TestQubitsBucket(t *testing.T) {
	tests := []struct {
		qubits int
		want   int
	}{
		{-1, 1},
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{5, 8},
		{16, 16},
		{17, 32},
		{100, 128},
		{1024, 1024},
		{4096, 1024},
	}

	for _, tt := range tests {
		if got := QubitsBucket(tt.qubits); got != tt.want {
			t.Errorf("QubitsBucket(%d) = %d, want %d", tt.qubits, got, tt.want)
		}
	}
}
