package quorum

import "fmt"

// Config holds the replica count and quorum thresholds.
type Config struct {
	N int // replica count
	W int // write quorum
	R int // read quorum
}

// NewConfig validates and returns a quorum configuration. W+R > N is
// recommended but deliberately not enforced; weaker combinations trade
// read-after-write visibility for availability.
func NewConfig(n, w, r int) (Config, error) {
	if n < 1 {
		return Config{}, fmt.Errorf("N must be >= 1, got %d", n)
	}
	if w < 1 || w > n {
		return Config{}, fmt.Errorf("W must be between 1 and N (%d), got %d", n, w)
	}
	if r < 1 || r > n {
		return Config{}, fmt.Errorf("R must be between 1 and N (%d), got %d", n, r)
	}
	return Config{N: n, W: w, R: r}, nil
}

// Strong reports whether W+R > N, the overlap guarantee that makes every
// read quorum intersect the last successful write quorum.
func (c Config) Strong() bool {
	return c.W+c.R > c.N
}

// String returns a human-readable description.
func (c Config) String() string {
	consistency := "eventual"
	if c.Strong() {
		consistency = "strong"
	}
	return fmt.Sprintf("N=%d W=%d R=%d (%s)", c.N, c.W, c.R, consistency)
}
