package provider

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/kbukum/sttkit/errors"
)

type stubProvider struct {
	name      string
	available bool
}

func (s *stubProvider) Name() string                       { return s.name }
func (s *stubProvider) IsAvailable(_ context.Context) bool { return s.available }

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRegistry[*stubProvider]()
	p := &stubProvider{name: "google", available: true}
	if err := reg.Register(p); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, ok := reg.Lookup("google")
	if !ok || got != p {
		t.Fatalf("Lookup returned %v, %v", got, ok)
	}
	if _, ok := reg.Lookup("att"); ok {
		t.Error("unexpected provider for unknown name")
	}
}

func TestRegistry_Register_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		provider *stubProvider
		code     errors.ErrorCode
	}{
		{"empty name", &stubProvider{name: ""}, errors.ErrCodeInvalidInput},
		{"blank name", &stubProvider{name: "  "}, errors.ErrCodeInvalidInput},
		{"duplicate", &stubProvider{name: "google"}, errors.ErrCodeAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry[*stubProvider]()
			reg.MustRegister(&stubProvider{name: "google"})

			err := reg.Register(tt.provider)
			if !errors.HasCode(err, tt.code) {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
			if reg.Len() != 1 {
				t.Errorf("rejected provider must not be stored, Len() = %d", reg.Len())
			}
		})
	}
}

func TestRegistry_MustRegisterPanicsOnDuplicate(t *testing.T) {
	reg := NewRegistry[*stubProvider]()
	reg.MustRegister(&stubProvider{name: "witai"})

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	reg.MustRegister(&stubProvider{name: "witai"})
}

func TestRegistry_ListPreservesOrder(t *testing.T) {
	reg := NewRegistry[*stubProvider]()
	for _, name := range []string{"google", "att", "witai"} {
		reg.MustRegister(&stubProvider{name: name})
	}

	want := []string{"google", "att", "witai"}
	if got := reg.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	list := reg.List()
	for i, p := range list {
		if p.Name() != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, p.Name(), want[i])
		}
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := NewRegistry[*stubProvider]()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = reg.Register(&stubProvider{name: fmt.Sprintf("p%d", i)})
		}(i)
		go func() {
			defer wg.Done()
			_ = reg.List()
			_, _ = reg.Lookup("p0")
		}()
	}
	wg.Wait()
	if reg.Len() != 20 {
		t.Errorf("Len() = %d, want 20", reg.Len())
	}
}
