package env

import (
	"os"
)

func init() {
	// The gorgonia tensor dependency pulls in go4.org/unsafe/assume-no-moving-gc,
	// which refuses to start on newer Go versions unless this is set.
	os.Setenv("ASSUME_NO_MOVING_GC_UNSAFE_RISK_IT_WITH", "go1.24")
}
