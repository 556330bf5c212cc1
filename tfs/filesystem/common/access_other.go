//go:build !unix

package common

import (
	"os"
)

// Without access(2) the owner permission bits are the best available signal.
func canReadWrite(_ string, info os.FileInfo) bool {
	if info == nil {
		return false
	}
	return info.Mode().Perm()&0o600 == 0o600
}
