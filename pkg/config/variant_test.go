package config

import (
	"testing"

	"github.com/matzehuels/noisering/pkg/distort"
	"github.com/matzehuels/noisering/pkg/errors"
)

func TestWithVariant(t *testing.T) {
	tests := []struct {
		variant Variant
		sides   int
		rings   int
		mode    distort.Mode
	}{
		{VariantBasic, 128, 9, distort.ModeNone},
		{VariantPolygon, 10, 7, distort.ModeNone},
		{VariantRings, 20, 8, distort.ModeNone},
		{VariantNudge, 20, 65, distort.ModeStatic},
		{VariantAnimated, 20, 65, distort.ModeAnimated},
	}

	for _, tt := range tests {
		t.Run(string(tt.variant), func(t *testing.T) {
			cfg, err := Default().WithVariant(tt.variant)
			if err != nil {
				t.Fatalf("WithVariant() error: %v", err)
			}
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate() = %v", err)
			}
			if cfg.Rings.Sides != tt.sides {
				t.Errorf("Sides = %d, want %d", cfg.Rings.Sides, tt.sides)
			}
			if got := cfg.Rings.Sweep.Count(); got != tt.rings {
				t.Errorf("rings = %d, want %d", got, tt.rings)
			}
			if cfg.Distortion.Mode != tt.mode {
				t.Errorf("Mode = %q, want %q", cfg.Distortion.Mode, tt.mode)
			}
		})
	}
}

func TestWithVariantKeepsStyle(t *testing.T) {
	base := Default()
	base.Canvas.Width = 1024
	base.Distortion.Amplitude = 0.02

	cfg, err := base.WithVariant(VariantNudge)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Canvas.Width != 1024 || cfg.Distortion.Amplitude != 0.02 {
		t.Errorf("WithVariant() dropped unrelated settings: %+v", cfg)
	}
}

func TestParseVariant(t *testing.T) {
	for _, v := range Variants() {
		got, err := ParseVariant(string(v))
		if err != nil || got != v {
			t.Errorf("ParseVariant(%q) = %q, %v", v, got, err)
		}
	}
	if _, err := ParseVariant("spiral"); !errors.Is(err, errors.ErrCodeInvalidVariant) {
		t.Errorf("ParseVariant(spiral) = %v, want %v", err, errors.ErrCodeInvalidVariant)
	}
}

func TestVariantsSorted(t *testing.T) {
	want := []Variant{VariantAnimated, VariantBasic, VariantNudge, VariantPolygon, VariantRings}
	got := Variants()
	if len(got) != len(want) {
		t.Fatalf("Variants() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Variants()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
