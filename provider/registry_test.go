package provider

import (
	"reflect"
	"testing"
)

func newNamedMock(name string) *MockProvider {
	return NewMockProvider(Config{Name: name, DisplayName: name})
}

func TestRegistryOrderIsStable(t *testing.T) {
	r := NewRegistry()
	r.Register(newNamedMock("mock-alpha"))
	r.Register(newNamedMock("mock-beta"))
	r.Register(newNamedMock("mock-gamma"))

	want := []string{"mock-alpha", "mock-beta", "mock-gamma"}
	for i := 0; i < 5; i++ {
		if got := r.Names(); !reflect.DeepEqual(got, want) {
			t.Fatalf("Names() = %v, want %v", got, want)
		}
	}

	list := r.List()
	if len(list) != len(want) {
		t.Fatalf("List() returned %d providers, want %d", len(list), len(want))
	}
	for i, p := range list {
		if p.Name() != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, p.Name(), want[i])
		}
	}

	avail := r.Available()
	if len(avail) != len(want) {
		t.Fatalf("Available() returned %d providers, want %d", len(avail), len(want))
	}
	for i, p := range avail {
		if p.Name() != want[i] {
			t.Errorf("Available()[%d] = %s, want %s", i, p.Name(), want[i])
		}
	}
}

func TestRegistryReregisterKeepsPosition(t *testing.T) {
	r := NewRegistry()
	r.Register(newNamedMock("mock-alpha"))
	r.Register(newNamedMock("mock-beta"))

	replacement := newNamedMock("mock-alpha")
	r.Register(replacement)

	want := []string{"mock-alpha", "mock-beta"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() after re-register = %v, want %v", got, want)
	}

	got, err := r.Get("mock-alpha")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != Provider(replacement) {
		t.Error("Get() should return the replacement provider")
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Get("nonexistent"); err == nil {
		t.Error("expected error for unknown provider")
	}
	if r.Has("nonexistent") {
		t.Error("Has() should be false for unknown provider")
	}
}
