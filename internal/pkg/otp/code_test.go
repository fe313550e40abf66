package otp

import (
	"strconv"
	"testing"
)

func TestRandomCode_Range(t *testing.T) {
	gen := NewRandomCode(1000, 9999)

	for range 500 {
		code, err := gen.Generate()
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if len(code) != 4 {
			t.Fatalf("Generate() = %q, want 4 digits", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil || n < 1000 || n > 9999 {
			t.Fatalf("Generate() = %q out of range", code)
		}
	}
}

func TestRandomCode_PadsAndSwapsBounds(t *testing.T) {
	gen := NewRandomCode(99, 0)

	for range 100 {
		code, err := gen.Generate()
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if len(code) != 2 {
			t.Fatalf("Generate() = %q, want 2 digits", code)
		}
	}
}

func TestStaticCode(t *testing.T) {
	code, err := StaticCode("1234").Generate()
	if err != nil || code != "1234" {
		t.Fatalf("Generate() = %q, %v", code, err)
	}
}
