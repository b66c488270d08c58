package money

import (
	"strings"
	"testing"

	"github.com/dalemusser/nursinghub/internal/domain/models"
)

func TestNaira(t *testing.T) {
	got := Naira(models.Amount(12500))
	if !strings.Contains(got, "12,500.00") {
		t.Errorf("Naira(12500) = %q, want grouping and two decimals", got)
	}
	if !strings.Contains(got, "₦") && !strings.Contains(got, "NGN") {
		t.Errorf("Naira(12500) = %q, want a naira marker", got)
	}
}

func TestCode(t *testing.T) {
	got := Code(models.Amount(1234.5))
	if !strings.HasPrefix(got, "NGN") || !strings.Contains(got, "1,234.50") {
		t.Errorf("Code(1234.5) = %q", got)
	}
}

func TestRound2(t *testing.T) {
	if round2(12.344) != 12.34 {
		t.Errorf("round2(12.344) = %v", round2(12.344))
	}
	if round2(99.999) != 100 {
		t.Errorf("round2(99.999) = %v", round2(99.999))
	}
}
