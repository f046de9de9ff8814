// Package guard forces test mode for packages that import it, so test
// binaries never start runtime side effects.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("CARELINK_TEST_MODE") == "" {
			_ = os.Setenv("CARELINK_TEST_MODE", "1")
		}
	})
}
