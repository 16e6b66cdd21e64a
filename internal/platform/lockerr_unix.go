//go:build !windows

package platform

import (
	"errors"
	"syscall"
)

// IsLockError reports whether err looks like the file is held open by
// another process. On Unix a rename of an open file normally succeeds, but
// EBUSY and ETXTBSY show up for executables and bind-mounted paths, and
// EACCES/EPERM for files an external process has protected.
func IsLockError(err error) bool {
	return errors.Is(err, syscall.EACCES) ||
		errors.Is(err, syscall.EPERM) ||
		errors.Is(err, syscall.EBUSY) ||
		errors.Is(err, syscall.ETXTBSY)
}
