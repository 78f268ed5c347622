package geom

import "testing"

func TestRectDimensions(t *testing.T) {
	tests := []struct {
		name          string
		rect          Rect
		width, height float64
		cx, cy        float64
	}{
		{
			name:  "from origin",
			rect:  FromSize(0, 0, 100, 50),
			width: 100, height: 50,
			cx: 50, cy: 25,
		},
		{
			name:  "offset",
			rect:  Rect{Left: 20, Right: 80, Top: 30, Bottom: 70},
			width: 60, height: 40,
			cx: 50, cy: 50,
		},
		{
			name:  "zero size",
			rect:  Rect{Left: 50, Right: 50, Top: 10, Bottom: 10},
			width: 0, height: 0,
			cx: 50, cy: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rect.Width(); got != tt.width {
				t.Errorf("Width() = %v, want %v", got, tt.width)
			}
			if got := tt.rect.Height(); got != tt.height {
				t.Errorf("Height() = %v, want %v", got, tt.height)
			}
			if got := tt.rect.CenterX(); got != tt.cx {
				t.Errorf("CenterX() = %v, want %v", got, tt.cx)
			}
			if got := tt.rect.CenterY(); got != tt.cy {
				t.Errorf("CenterY() = %v, want %v", got, tt.cy)
			}
		})
	}
}

func TestExpandShrink(t *testing.T) {
	r := FromSize(10, 10, 100, 100)
	e := Edges{Top: 1, Right: 2, Bottom: 3, Left: 4}

	grown := r.Expand(e)
	want := Rect{Left: 6, Right: 112, Top: 9, Bottom: 113}
	if grown != want {
		t.Errorf("Expand() = %+v, want %+v", grown, want)
	}
	if back := grown.Shrink(e); back != r {
		t.Errorf("Shrink(Expand()) = %+v, want %+v", back, r)
	}
}

func TestShrinkNeverInverts(t *testing.T) {
	r := FromSize(0, 0, 10, 10)
	got := r.Shrink(Edges{Left: 8, Right: 8, Top: 8, Bottom: 8})
	if got.Width() != 0 || got.Height() != 0 {
		t.Errorf("Shrink() past size = %+v, want collapsed rect", got)
	}
	if got.Left != 5 || got.Top != 5 {
		t.Errorf("collapsed rect should sit on the center line, got %+v", got)
	}
}

func TestUnion(t *testing.T) {
	got := Union(FromSize(0, 10, 10, 10), FromSize(50, 0, 10, 5), FromSize(5, 40, 1, 1))
	want := Rect{Left: 0, Right: 60, Top: 0, Bottom: 41}
	if got != want {
		t.Errorf("Union() = %+v, want %+v", got, want)
	}
	if (Union() != Rect{}) {
		t.Error("Union() of nothing should be the zero rect")
	}
}

func TestIsZero(t *testing.T) {
	if !(Rect{}).IsZero() {
		t.Error("zero rect should report IsZero")
	}
	if FromSize(0, 0, 1, 1).IsZero() {
		t.Error("1x1 rect should not report IsZero")
	}
	if !FromSize(0, 0, 10, 0).IsZero() {
		t.Error("zero-height rect should report IsZero")
	}
}
