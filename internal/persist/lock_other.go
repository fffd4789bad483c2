//go:build !unix

package persist

import "os"

// Lock is a no-op on platforms without flock.
type Lock struct{}

// AcquireLock creates the state directory; locking is not enforced here.
func AcquireLock(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &Lock{}, nil
}

// Release is a no-op.
func (l *Lock) Release() error {
	return nil
}
