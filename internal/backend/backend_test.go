package backend

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"shelf-go/internal/shelf"
)

// runBackendContract exercises the behavior every shelf.Backend must share.
func runBackendContract(t *testing.T, newBackend func(t *testing.T) shelf.Backend) {
	t.Run("missing key", func(t *testing.T) {
		b := newBackend(t)

		data, ok, err := b.Get("sanskriti_books")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if ok || data != nil {
			t.Errorf("Get() = %q, %v; want nil, false", data, ok)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		b := newBackend(t)

		want := []byte(`[{"id":"a"}]`)
		if err := b.Set("sanskriti_books", want); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		got, ok, err := b.Get("sanskriti_books")
		if err != nil || !ok {
			t.Fatalf("Get() = %v, %v", ok, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("Get() = %q, want %q", got, want)
		}
	})

	t.Run("overwrite replaces", func(t *testing.T) {
		b := newBackend(t)

		if err := b.Set("k", []byte("first value, longer")); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if err := b.Set("k", []byte("second")); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		got, _, err := b.Get("k")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if string(got) != "second" {
			t.Errorf("Get() = %q, want %q", got, "second")
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		b := newBackend(t)

		for _, k := range []string{"sanskriti_books", "sanskriti_sessions", "sanskriti_streak"} {
			if err := b.Set(k, []byte(k)); err != nil {
				t.Fatalf("Set(%s) error = %v", k, err)
			}
		}
		for _, k := range []string{"sanskriti_books", "sanskriti_sessions", "sanskriti_streak"} {
			got, ok, err := b.Get(k)
			if err != nil || !ok || string(got) != k {
				t.Errorf("Get(%s) = %q, %v, %v", k, got, ok, err)
			}
		}
	})

	t.Run("empty value", func(t *testing.T) {
		b := newBackend(t)

		if err := b.Set("k", []byte{}); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, ok, err := b.Get("k")
		if err != nil || !ok {
			t.Fatalf("Get() = %v, %v", ok, err)
		}
		if len(got) != 0 {
			t.Errorf("Get() = %q, want empty", got)
		}
	})

	t.Run("concurrent writers", func(t *testing.T) {
		b := newBackend(t)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if err := b.Set(fmt.Sprintf("k%d", i), []byte(fmt.Sprint(i))); err != nil {
					t.Errorf("Set() error = %v", err)
				}
			}(i)
		}
		wg.Wait()

		for i := 0; i < 10; i++ {
			got, ok, err := b.Get(fmt.Sprintf("k%d", i))
			if err != nil || !ok || string(got) != fmt.Sprint(i) {
				t.Errorf("Get(k%d) = %q, %v, %v", i, got, ok, err)
			}
		}
	})
}
