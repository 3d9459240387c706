package testutil

import (
	"fmt"
	"testing"

	"ccapi/lib/telemetry"

	"github.com/mazen160/go-random"
)

// Setup prepares telemetry for a test, the returned function should be
// deferred.
func Setup(t testing.TB, name string) func() {
	return telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", name))
}

// RandomSKU returns a SKU that is unlikely to collide with existing stock.
func RandomSKU(t testing.TB) string {
	suffix, err := random.String(8)
	if err != nil {
		t.Fatal(err)
	}
	return fmt.Sprintf("TEST-%s", suffix)
}

// RandomBarcode returns a 13 digit EAN-shaped barcode.
func RandomBarcode(t testing.TB) string {
	raw, err := random.String(13)
	if err != nil {
		t.Fatal(err)
	}
	digits := make([]byte, len(raw))
	for i := 0; i < len(raw); i++ {
		digits[i] = '0' + raw[i]%10
	}
	return string(digits)
}
