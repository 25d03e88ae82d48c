package main

import (
	"testing"
	"time"
)

func TestSignalContextReleasesOnCancel(t *testing.T) {
	ctx, cancel := signalContext()
	cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not released after cancel")
	}
}
