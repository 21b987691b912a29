// Package testutil holds helpers shared by the emulator-backed tests.
package testutil

import (
	"context"
	"net"
	"os"
	"testing"
	"time"
)

// EmulatorProjectID is the placeholder project used against emulators.
// The demo- prefix keeps the emulators from reaching production.
const EmulatorProjectID = "demo-fitness-test"

// RequireEmulator skips the test unless envVar names a reachable host:port.
func RequireEmulator(t *testing.T, envVar string) string {
	t.Helper()

	host := os.Getenv(envVar)
	if host == "" {
		t.Skipf("%s not set; skipping emulator test", envVar)
	}
	RequireReachable(t, host)
	return host
}

// RequireReachable skips the test if nothing listens on addr.
func RequireReachable(t *testing.T, addr string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		t.Skipf("emulator not reachable at %s: %v", addr, err)
	}
	_ = conn.Close()
}
