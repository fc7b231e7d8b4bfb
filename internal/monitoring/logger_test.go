package monitoring

import "testing"

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = format
	})
	Logf("hello %d", 1)
	if got != "hello %d" {
		t.Errorf("captured format = %q, want %q", got, "hello %d")
	}
}

func TestSetLoggerNilInstallsNoop(t *testing.T) {
	SetLogger(nil)
	if Logf == nil {
		t.Fatal("Logf must never be nil")
	}
	// Must not panic.
	Logf("ignored %v", 42)
}
