package volume_test

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/petasbytes/go-meshedit/internal/volume"
)

func randVec(r *rand.Rand, span float64) volume.Vec3 {
	return volume.Vec3{
		(r.Float64()*2 - 1) * span,
		(r.Float64()*2 - 1) * span,
		(r.Float64()*2 - 1) * span,
	}
}

func TestSelect_MatchesClosedFormInequalities(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 500; i++ {
		center := randVec(r, 10)
		p := randVec(r, 15)
		l := p.Sub(center)

		dims := volume.Vec3{r.Float64() * 8, r.Float64() * 8, r.Float64() * 8}
		radius := r.Float64() * 8
		height := r.Float64() * 8

		cases := []struct {
			name string
			d    volume.Descriptor
			want bool
		}{
			{"box", volume.Box(center, dims),
				math.Abs(l[0]) <= dims[0]/2 && math.Abs(l[1]) <= dims[1]/2 && math.Abs(l[2]) <= dims[2]/2},
			{"sphere", volume.Sphere(center, radius),
				math.Sqrt(l[0]*l[0]+l[1]*l[1]+l[2]*l[2]) <= radius},
			{"cylinder", volume.Cylinder(center, radius, height),
				math.Hypot(l[0], l[1]) <= radius && math.Abs(l[2]) <= height/2},
		}
		for _, tc := range cases {
			got, err := volume.Select([]volume.Point{{Index: 0, Pos: p}}, tc.d)
			if err != nil {
				t.Fatalf("%s: unexpected err: %v", tc.name, err)
			}
			if (len(got) == 1) != tc.want {
				t.Fatalf("%s sample %d: center=%v p=%v selected=%v want %v", tc.name, i, center, p, len(got) == 1, tc.want)
			}
		}
	}
}

func TestFrame_CenterMapsToOriginExactly(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 200; i++ {
		center := randVec(r, 1e6)
		d := volume.Sphere(center, 1)
		if i%2 == 1 {
			d = d.WithRotation(volume.Quat{r.Float64() - 0.5, r.Float64() - 0.5, r.Float64() - 0.5, r.Float64() + 0.1})
		}
		got := volume.NewFrame(d).ToLocal(center)
		if got != (volume.Vec3{}) {
			t.Fatalf("ToLocal(center) = %v, want origin (rotated=%v)", got, i%2 == 1)
		}
	}
}

func TestFrame_IsRigid(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 1))
	q := volume.Quat{0.966, 0.1, 0.259, -0.3}
	f := volume.NewFrame(volume.Box(volume.Vec3{1, 2, 3}, volume.Vec3{1, 1, 1}).WithRotation(q))
	for i := 0; i < 100; i++ {
		a, b := randVec(r, 20), randVec(r, 20)
		want := a.Sub(b).Len()
		got := f.ToLocal(a).Sub(f.ToLocal(b)).Len()
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("distance not preserved: got %v want %v", got, want)
		}
	}
}

func TestFrame_IdentityRotationIsExactNoOp(t *testing.T) {
	p := volume.Vec3{0.1, 0.2, 0.3}
	center := volume.Vec3{0.7, -0.4, 1e-9}
	plain := volume.NewFrame(volume.Box(center, volume.Vec3{1, 1, 1}))
	ident := volume.NewFrame(volume.Box(center, volume.Vec3{1, 1, 1}).WithRotation(volume.IdentityQuat))
	scaled := volume.NewFrame(volume.Box(center, volume.Vec3{1, 1, 1}).WithRotation(volume.Quat{2, 0, 0, 0}))
	want := p.Sub(center)
	if plain.ToLocal(p) != want || ident.ToLocal(p) != want || scaled.ToLocal(p) != want {
		t.Fatalf("identity rotation changed the point: %v %v %v want %v",
			plain.ToLocal(p), ident.ToLocal(p), scaled.ToLocal(p), want)
	}
}

func TestSelect_RotatedBoxUsesInverseRotation(t *testing.T) {
	rot := volume.QuatFromAxisAngle(volume.Vec3{0, 0, 1}, math.Pi/2)

	// hx=1, hy=1.5: world (1,0,0) maps to local (0,-1,0), inside since 1 <= hy.
	narrow := volume.Box(volume.Vec3{}, volume.Vec3{2, 3, 2}).WithRotation(rot)
	l := volume.NewFrame(narrow).ToLocal(volume.Vec3{1, 0, 0})
	if math.Abs(l[0]) > 1e-12 || math.Abs(l[1]+1) > 1e-12 || math.Abs(l[2]) > 1e-12 {
		t.Fatalf("local = %v, want (0,-1,0)", l)
	}
	got, err := volume.Select([]volume.Point{{Index: 4, Pos: volume.Vec3{1, 0, 0}}}, narrow)
	if err != nil || len(got) != 1 {
		t.Fatalf("expected selection, got %v err=%v", got, err)
	}

	// hx=1.5, hy=1: world (1.5,0,0) maps to local (0,-1.5,0), outside since 1.5 > hy.
	wide := volume.Box(volume.Vec3{}, volume.Vec3{3, 2, 2}).WithRotation(rot)
	got, err = volume.Select([]volume.Point{{Index: 4, Pos: volume.Vec3{1.5, 0, 0}}}, wide)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("rotation ignored: point on unrotated x extent was selected")
	}
}

func TestSelect_BoxEndToEnd(t *testing.T) {
	d := volume.Box(volume.Vec3{0, 0, 0}, volume.Vec3{2, 2, 2})
	pts := []volume.Point{
		{Index: 0, Pos: volume.Vec3{0.9, 0.9, 0.9}},
		{Index: 1, Pos: volume.Vec3{1.1, 0, 0}},
		{Index: 2, Pos: volume.Vec3{1, -1, 1}}, // boundary is inclusive
	}
	got, err := volume.Select(pts, d)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("got %v, want [0 2]", got)
	}
}

func TestSelect_SphereEndToEnd(t *testing.T) {
	d := volume.Sphere(volume.Vec3{}, 5.0)
	pts := []volume.Point{
		{Index: 0, Pos: volume.Vec3{4.999, 0, 0}},
		{Index: 1, Pos: volume.Vec3{0, 5.001, 0}},
		{Index: 2, Pos: volume.Vec3{0, 0, -5}},
	}
	got, err := volume.Select(pts, d)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("got %v, want [0 2]", got)
	}
}

func TestSelect_CylinderBoundsAlongLocalZ(t *testing.T) {
	d := volume.Cylinder(volume.Vec3{10, 5, 0}, 3, 8)
	pts := []volume.Point{
		{Index: 0, Pos: volume.Vec3{13, 5, 4}},  // rim, top cap
		{Index: 1, Pos: volume.Vec3{10, 5, 4.01}}, // above cap
		{Index: 2, Pos: volume.Vec3{10, 9, 0}},  // outside radius along Y
	}
	got, err := volume.Select(pts, d)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("got %v, want [0]", got)
	}
}

func TestSelect_PreservesOrderAndDeduplicates(t *testing.T) {
	d := volume.Sphere(volume.Vec3{}, 1)
	pts := []volume.Point{
		{Index: 9, Pos: volume.Vec3{}},
		{Index: 2, Pos: volume.Vec3{0.5, 0, 0}},
		{Index: 9, Pos: volume.Vec3{0, 0.1, 0}},
		{Index: 5, Pos: volume.Vec3{0, 0, 0.2}},
	}
	got, err := volume.Select(pts, d)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := []int{9, 2, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSelect_DegenerateVolumeSelectsOnlyCoincident(t *testing.T) {
	d := volume.Sphere(volume.Vec3{1, 1, 1}, 0)
	pts := []volume.Point{
		{Index: 0, Pos: volume.Vec3{1, 1, 1}},
		{Index: 1, Pos: volume.Vec3{1, 1, 1.0000001}},
	}
	got, err := volume.Select(pts, d)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("got %v, want [0]", got)
	}
}

func TestSelect_UnsupportedKind(t *testing.T) {
	d := volume.Descriptor{Kind: volume.Kind(42)}
	_, err := volume.Select([]volume.Point{{Index: 0}}, d)
	var uk *volume.UnsupportedKindError
	if !errors.As(err, &uk) {
		t.Fatalf("expected UnsupportedKindError, got %v", err)
	}
	if _, err := volume.ParseKind("cone"); !errors.As(err, &uk) || uk.Kind != "cone" {
		t.Fatalf("ParseKind(cone): %v", err)
	}
}

type fakeSource struct {
	mesh  bool
	verts []volume.Point
	faces []volume.Point
}

func (f fakeSource) IsMesh() bool                    { return f.mesh }
func (f fakeSource) VertexPositions() []volume.Point { return f.verts }
func (f fakeSource) FaceCenters() []volume.Point     { return f.faces }

func TestSelectIn_SpacesAndNotAMesh(t *testing.T) {
	src := fakeSource{
		mesh:  true,
		verts: []volume.Point{{Index: 0, Pos: volume.Vec3{}}, {Index: 1, Pos: volume.Vec3{5, 0, 0}}},
		faces: []volume.Point{{Index: 0, Pos: volume.Vec3{5, 0, 0}}, {Index: 1, Pos: volume.Vec3{0.1, 0, 0}}},
	}
	d := volume.Sphere(volume.Vec3{}, 1)
	v, err := volume.SelectVertices(src, d)
	if err != nil || len(v) != 1 || v[0] != 0 {
		t.Fatalf("vertices: got %v err=%v", v, err)
	}
	f, err := volume.SelectFaces(src, d)
	if err != nil || len(f) != 1 || f[0] != 1 {
		t.Fatalf("faces: got %v err=%v", f, err)
	}

	if _, err := volume.SelectVertices(fakeSource{}, d); !errors.Is(err, volume.ErrNotAMesh) {
		t.Fatalf("expected ErrNotAMesh, got %v", err)
	}
	if _, err := volume.SelectFaces(nil, d); !errors.Is(err, volume.ErrNotAMesh) {
		t.Fatalf("expected ErrNotAMesh for nil source, got %v", err)
	}
}

func TestDescriptor_Validate(t *testing.T) {
	tests := []struct {
		name    string
		d       volume.Descriptor
		wantErr bool
	}{
		{"box ok", volume.Box(volume.Vec3{}, volume.Vec3{1, 2, 3}), false},
		{"degenerate box ok", volume.Box(volume.Vec3{}, volume.Vec3{}), false},
		{"negative radius", volume.Sphere(volume.Vec3{}, -1), true},
		{"nan center", volume.Sphere(volume.Vec3{math.NaN(), 0, 0}, 1), true},
		{"inf height", volume.Cylinder(volume.Vec3{}, 1, math.Inf(1)), true},
		{"zero quaternion", volume.Sphere(volume.Vec3{}, 1).WithRotation(volume.Quat{}), true},
		{"unknown kind", volume.Descriptor{Kind: 9}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.d.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestWithinBounds(t *testing.T) {
	min, max := volume.Vec3{-1, -1, -1}, volume.Vec3{1, 1, 1}
	if !volume.WithinBounds(volume.Vec3{10.5, 0, 0}, min, max, 10) {
		t.Fatal("expected center within tolerance")
	}
	if volume.WithinBounds(volume.Vec3{0, -12, 0}, min, max, 10) {
		t.Fatal("expected center outside tolerance")
	}
}
