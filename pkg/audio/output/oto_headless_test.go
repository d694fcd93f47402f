//go:build headless

// ABOUTME: Tests for the headless Oto stub
// ABOUTME: Checks the stub satisfies Backend and always reports no device
package output

import (
	"errors"
	"testing"
)

var _ Backend = (*Oto)(nil)

func TestHeadlessNewOtoFails(t *testing.T) {
	o, err := NewOto(48000)
	if !errors.Is(err, ErrNoDevice) {
		t.Errorf("expected ErrNoDevice, got %v", err)
	}
	if o != nil {
		t.Error("expected no backend")
	}
}

func TestHeadlessOtoIsInert(t *testing.T) {
	o := &Oto{}

	if o.State() != StateClosed {
		t.Errorf("expected closed state, got %s", o.State())
	}
	if o.SampleRate() != 0 || o.CurrentTime() != 0 {
		t.Error("expected zero rate and clock")
	}
	if !errors.Is(o.Attach(nil), ErrNoDevice) {
		t.Error("expected Attach to fail with ErrNoDevice")
	}
	if !errors.Is(o.Resume(), ErrNoDevice) {
		t.Error("expected Resume to fail with ErrNoDevice")
	}
	if err := o.Close(); err != nil {
		t.Errorf("expected Close to succeed, got %v", err)
	}
}
