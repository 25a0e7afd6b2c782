package math3d

import (
	"math"
	"testing"
)

func TestEmptyBoxExpand(t *testing.T) {
	b := EmptyBox()
	if !b.IsEmpty() {
		t.Fatal("EmptyBox should be empty")
	}
	if got := b.Size(); got != Zero3() {
		t.Errorf("empty box size = %v, want zero", got)
	}

	b = b.ExpandByPoint(V3(1, 2, 3))
	if b.IsEmpty() {
		t.Fatal("box with one point should not be empty")
	}
	if b.Min != V3(1, 2, 3) || b.Max != V3(1, 2, 3) {
		t.Errorf("single point box = %v", b)
	}

	b = b.ExpandByPoint(V3(-1, 0, 5))
	if b.Min != V3(-1, 0, 3) || b.Max != V3(1, 2, 5) {
		t.Errorf("expanded box = %v", b)
	}
}

func TestBoxUnion(t *testing.T) {
	a := Box3{Min: V3(-1, -1, -1), Max: V3(1, 1, 1)}
	b := Box3{Min: V3(0, 0, 0), Max: V3(3, 0.5, 2)}

	u := a.Union(b)
	if u.Min != V3(-1, -1, -1) || u.Max != V3(3, 1, 2) {
		t.Errorf("Union = %v", u)
	}
	if got := a.Union(EmptyBox()); got != a {
		t.Errorf("union with empty = %v, want %v", got, a)
	}
	if got := EmptyBox().Union(b); got != b {
		t.Errorf("empty union b = %v, want %v", got, b)
	}
}

func TestBoxMaxExtent(t *testing.T) {
	b := Box3{Min: V3(-1, -0.1, -2), Max: V3(1, 0.1, 2)}
	if got := b.MaxExtent(); math.Abs(got-4) > 1e-12 {
		t.Errorf("MaxExtent = %v, want 4", got)
	}
	if got := b.Center(); !got.ApproxEqual(Zero3(), 1e-12) {
		t.Errorf("Center = %v, want origin", got)
	}
}

func TestBoxTransformRotation(t *testing.T) {
	b := Box3{Min: V3(-2, -1, -0.5), Max: V3(2, 1, 0.5)}

	// Quarter turn about Z swaps the X and Y extents.
	got := b.Transform(RotateZ(math.Pi / 2))
	want := Box3{Min: V3(-1, -2, -0.5), Max: V3(1, 2, 0.5)}
	if !got.Min.ApproxEqual(want.Min, 1e-9) || !got.Max.ApproxEqual(want.Max, 1e-9) {
		t.Errorf("rotated box = %v, want %v", got, want)
	}

	moved := b.Transform(Translate(V3(1, 0, 0)))
	if !moved.Min.ApproxEqual(V3(-1, -1, -0.5), 1e-12) {
		t.Errorf("translated box min = %v", moved.Min)
	}
}

func TestCompose(t *testing.T) {
	m := Compose(V3(1, 2, 3), V3(0, math.Pi/2, 0), 2)
	got := m.MulVec3(V3(1, 0, 0))
	// Scale to (2,0,0), rotate about Y to (0,0,-2), translate.
	want := V3(1, 2, 1)
	if !got.ApproxEqual(want, 1e-9) {
		t.Errorf("Compose().MulVec3 = %v, want %v", got, want)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{0, -1, 1, 0},
		{-3, -1, 1, -1},
		{7, 4, 12, 7},
		{13, 4, 12, 12},
	}
	for _, tc := range tests {
		if got := Clamp(tc.v, tc.lo, tc.hi); got != tc.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tc.v, tc.lo, tc.hi, got, tc.want)
		}
	}
}

func BenchmarkBoxTransform(b *testing.B) {
	box := Box3{Min: V3(-1, -2, -3), Max: V3(1, 2, 3)}
	m := Compose(V3(1, 2, 3), V3(0.3, 0.5, 0), 1.5)

	for b.Loop() {
		_ = box.Transform(m)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}
