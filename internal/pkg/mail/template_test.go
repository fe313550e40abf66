package mail

import (
	"errors"
	"strings"
	"testing"
)

func TestRenderer_Render(t *testing.T) {
	// Arrange
	r, err := NewRenderer(map[string]any{"company_name": "Tradeport", "support_email": "support@tradeport.io", "year": "2026"})
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	// Act
	body, err := r.Render("user-activation-mail", map[string]any{
		"name":            "<Ann>",
		"otp":             "1234",
		"expires_minutes": 5,
	})

	// Assert
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, want := range []string{"1234", "Verify your Email", "&lt;Ann&gt;", "5 minutes", "Tradeport", "2026"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body does not contain %q", want)
		}
	}
}

func TestRenderer_AllTemplatesPresent(t *testing.T) {
	r, err := NewRenderer(nil)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	for _, name := range []string{
		"user-activation-mail",
		"seller-activation-mail",
		"forgot-password-user-mail",
		"forgot-password-seller-mail",
		"forgot-password-admin-mail",
	} {
		if !r.Has(name) {
			t.Fatalf("missing template %q", name)
		}
		if _, err := r.Render(name, map[string]any{"otp": "0000"}); err != nil {
			t.Fatalf("Render(%q) error = %v", name, err)
		}
	}
}

func TestRenderer_Unknown(t *testing.T) {
	r, err := NewRenderer(nil)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	if _, err := r.Render("admin-activation-mail", nil); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}
