// Package hotswap replaces a hot module's loaded artifact with a freshly
// compiled one while the host process may still hold the file open.
//
// The swap is two renames: loaded -> backup, then staging -> loaded. Lock
// errors from the first rename are retried with a linearly increasing
// backoff, because the host needs time to notice the change and unload the
// module. Permanent errors (missing staging artifact, disk full, read-only
// filesystem) abandon immediately. The backup is always staged before the
// loaded path is displaced, so a crash mid-swap leaves the previous
// artifact recoverable; atomicity across the two renames is not guaranteed.
package hotswap
