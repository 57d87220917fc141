package canvas

import (
	"errors"
	"testing"
)

func TestSizeOf(t *testing.T) {
	tests := []struct {
		kind   Kind
		width  float64
		height float64
	}{
		{KindTask, 352, 128},
		{KindPort, 240, 48},
		{KindFunnel, 48, 48},
		{KindContainer, 384, 176},
	}

	for _, tt := range tests {
		size, err := SizeOf(tt.kind)
		if err != nil {
			t.Fatalf("SizeOf(%v) error: %v", tt.kind, err)
		}
		if size.Width != tt.width || size.Height != tt.height {
			t.Errorf("SizeOf(%v) = %vx%v, want %vx%v", tt.kind, size.Width, size.Height, tt.width, tt.height)
		}
	}
}

func TestSizeOf_UnknownKind(t *testing.T) {
	_, err := SizeOf(Kind(99))
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("SizeOf(99) error = %v, want ErrUnknownKind", err)
	}
}

func TestCenterOffset(t *testing.T) {
	tests := []struct {
		kind Kind
		want float64
	}{
		{KindPort, 56},
		{KindFunnel, 152},
		{KindTask, 0},
		{KindContainer, 0},
	}

	for _, tt := range tests {
		got, err := CenterOffset(tt.kind)
		if err != nil {
			t.Fatalf("CenterOffset(%v) error: %v", tt.kind, err)
		}
		if got != tt.want {
			t.Errorf("CenterOffset(%v) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestSnap(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{3, 0},
		{4, 8},
		{8, 8},
		{11, 8},
		{12, 16},
		{-3, 0},
		{-5, -8},
		{527, 528},
	}

	for _, tt := range tests {
		if got := Snap(tt.in); got != tt.want {
			t.Errorf("Snap(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSnapOffset(t *testing.T) {
	if got := SnapOffset(Offset{DX: 10, DY: -5}); got != (Offset{DX: 8, DY: -8}) {
		t.Errorf("SnapOffset(10,-5) = %v, want (8,-8)", got)
	}
}

func TestOnGrid(t *testing.T) {
	if !OnGrid(Point{X: 16, Y: -24}) {
		t.Error("OnGrid(16,-24) = false, want true")
	}
	if OnGrid(Point{X: 3, Y: 8}) {
		t.Error("OnGrid(3,8) = true, want false")
	}
}

func TestParseKind_RoundTrip(t *testing.T) {
	for _, k := range []Kind{KindTask, KindPort, KindFunnel, KindContainer} {
		parsed, err := ParseKind(k.String())
		if err != nil {
			t.Fatalf("ParseKind(%q) error: %v", k.String(), err)
		}
		if parsed != k {
			t.Errorf("ParseKind(%q) = %v, want %v", k.String(), parsed, k)
		}
	}

	if _, err := ParseKind("widget"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind(widget) error = %v, want ErrUnknownKind", err)
	}
}
