//go:build windows

package platform

import (
	"errors"
	"syscall"
)

// Windows error codes reported when a file is mapped or opened by another
// process. These are what a loaded DLL produces on rename attempts.
const (
	errorSharingViolation syscall.Errno = 32
	errorLockViolation    syscall.Errno = 33
)

// IsLockError reports whether err looks like the file is held open by
// another process. Renaming a DLL the host still has loaded fails with a
// sharing violation until the host unloads it.
func IsLockError(err error) bool {
	return errors.Is(err, errorSharingViolation) ||
		errors.Is(err, errorLockViolation) ||
		errors.Is(err, syscall.EACCES) ||
		errors.Is(err, syscall.EPERM)
}
