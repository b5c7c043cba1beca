package g3d

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

// cubeScene returns a unit box in front of a camera at z=5.
func cubeScene(mat Material) (*Scene, *PerspectiveCamera, *Object) {
	scene := NewScene()
	cube := NewMesh(NewBoxGeometry(1, 1, 1), mat)
	scene.Add(cube)
	cam := NewPerspectiveCamera(75, 1, 0.1, 100)
	cam.Position = V3(0, 0, 5)
	return scene, cam, cube
}

func TestRendererDrawsCube(t *testing.T) {
	scene, cam, _ := cubeScene(NewBasicMaterial(RGB(1, 0, 0)))
	r := NewRenderer(64, 64, WithWorkers(1))
	defer r.Close()

	r.Render(scene, cam)

	center := r.Pixmap().GetPixel(32, 32)
	if !center.Approx(RGB(1, 0, 0), 1.0/255) {
		t.Errorf("center = %+v, want red", center)
	}
	corner := r.Pixmap().GetPixel(0, 0)
	if !corner.Approx(Black, 1.0/255) {
		t.Errorf("corner = %+v, want background", corner)
	}

	stats := r.Stats()
	if stats.Objects != 1 {
		t.Errorf("Objects = %d, want 1", stats.Objects)
	}
	// Only the face toward the camera survives back-face culling.
	if stats.Triangles != 2 {
		t.Errorf("Triangles = %d, want 2", stats.Triangles)
	}
	if stats.Culled != 10 {
		t.Errorf("Culled = %d, want 10", stats.Culled)
	}
}

func TestRendererBackground(t *testing.T) {
	scene := NewScene()
	scene.Background = HexInt(0x336699)
	cam := NewPerspectiveCamera(75, 1, 0.1, 100)

	r := NewRenderer(8, 8)
	defer r.Close()
	r.Render(scene, cam)

	got := r.Pixmap().GetPixel(4, 4)
	if !got.Approx(HexInt(0x336699), 1.0/255) {
		t.Errorf("background = %+v, want %+v", got, HexInt(0x336699))
	}
}

func TestRendererDeterministicAcrossWorkers(t *testing.T) {
	render := func(workers int) []byte {
		mat := NewStandardMaterial(HexInt(0xffff00))
		scene, cam, cube := cubeScene(mat)
		cube.Rotation = Euler{X: 0.6, Y: 0.8}
		scene.Add(NewHemisphereLight(White, HexInt(0x444444), 1))

		r := NewRenderer(96, 80, WithWorkers(workers), WithBandHeight(7),
			WithToneMapping(ACESFilmicToneMapping))
		defer r.Close()
		cam.SetViewport(96, 80)
		r.Render(scene, cam)
		return append([]byte(nil), r.Pixmap().Data()...)
	}

	want := render(1)
	for _, workers := range []int{2, 4, 8} {
		if got := render(workers); !bytes.Equal(got, want) {
			t.Errorf("workers=%d output differs from single-threaded render", workers)
		}
	}
}

func TestRendererDepthOrder(t *testing.T) {
	scene := NewScene()
	near := NewMesh(NewBoxGeometry(1, 1, 1), NewBasicMaterial(RGB(0, 1, 0)))
	near.Position = V3(0, 0, 1)
	far := NewMesh(NewBoxGeometry(3, 3, 1), NewBasicMaterial(RGB(0, 0, 1)))
	far.Position = V3(0, 0, -1)
	// Added far-last so draw order alone would paint it on top.
	scene.Add(near, far)

	cam := NewPerspectiveCamera(75, 1, 0.1, 100)
	cam.Position = V3(0, 0, 5)

	r := NewRenderer(64, 64)
	defer r.Close()
	r.Render(scene, cam)

	if got := r.Pixmap().GetPixel(32, 32); !got.Approx(RGB(0, 1, 0), 1.0/255) {
		t.Errorf("center = %+v, want the nearer green box", got)
	}
}

func TestRendererAdditiveBlending(t *testing.T) {
	scene := NewScene()
	scene.Background = RGB(0.5, 0, 0)

	mat := NewBasicMaterial(RGB(0, 0, 1))
	mat.Blending = AdditiveBlending
	scene.Add(NewMesh(NewBoxGeometry(1, 1, 1), mat))

	cam := NewPerspectiveCamera(75, 1, 0.1, 100)
	cam.Position = V3(0, 0, 5)

	r := NewRenderer(32, 32)
	defer r.Close()
	r.Render(scene, cam)

	got := r.Pixmap().GetPixel(16, 16)
	if math.Abs(got.R-0.5) > 2.0/255 || math.Abs(got.B-1) > 1.0/255 {
		t.Errorf("additive center = %+v, want red kept and blue added", got)
	}
}

func TestRendererClipsNearPlane(t *testing.T) {
	// The camera sits inside a large double-sided box; every triangle
	// crosses the near plane or lies behind the camera.
	mat := NewBasicMaterial(White)
	mat.Side = DoubleSide
	scene := NewScene()
	scene.Add(NewMesh(NewBoxGeometry(4, 4, 4), mat))
	cam := NewPerspectiveCamera(90, 1, 0.1, 100)

	r := NewRenderer(32, 32)
	defer r.Close()
	r.Render(scene, cam)

	for _, p := range [][2]int{{0, 0}, {16, 16}, {31, 31}} {
		if got := r.Pixmap().GetPixel(p[0], p[1]); !got.Approx(White, 1.0/255) {
			t.Errorf("pixel %v = %+v, want white", p, got)
		}
	}
}

func TestRendererDrawsLine(t *testing.T) {
	scene := NewScene()
	line := NewLine(NewLineGeometry([]Vec3{V3(-1, 0, 0), V3(1, 0, 0)}), NewLineMaterial(RGB(0, 1, 0)))
	scene.Add(line)
	cam := NewPerspectiveCamera(75, 1, 0.1, 100)
	cam.Position = V3(0, 0, 3)

	r := NewRenderer(64, 64)
	defer r.Close()
	r.Render(scene, cam)

	if r.Stats().Lines != 1 {
		t.Fatalf("Lines = %d, want 1", r.Stats().Lines)
	}
	found := false
	for y := 30; y <= 33; y++ {
		if r.Pixmap().GetPixel(32, y).Approx(RGB(0, 1, 0), 1.0/255) {
			found = true
		}
	}
	if !found {
		t.Error("line not drawn across the center column")
	}
}

func TestRendererDrawsLongLine(t *testing.T) {
	scene := NewScene()
	line := NewLine(NewLineGeometry([]Vec3{V3(-1e4, 0, 0), V3(1e4, 0, 0)}), NewLineMaterial(RGB(0, 1, 0)))
	scene.Add(line)
	cam := NewPerspectiveCamera(75, 1, 0.1, 100)
	cam.Position = V3(0, 0, 3)

	r := NewRenderer(64, 64)
	defer r.Close()
	r.Render(scene, cam)

	if r.Stats().Lines != 1 {
		t.Fatalf("Lines = %d, want 1", r.Stats().Lines)
	}
	for _, x := range []int{0, 32, 63} {
		found := false
		for y := 30; y <= 33; y++ {
			if r.Pixmap().GetPixel(x, y).Approx(RGB(0, 1, 0), 1.0/255) {
				found = true
			}
		}
		if !found {
			t.Errorf("line not drawn across column %d", x)
		}
	}
}

func TestSegmentClipToViewport(t *testing.T) {
	tests := []struct {
		name   string
		seg    segment
		wantOK bool
		want   segment
	}{
		{
			name:   "inside",
			seg:    segment{x0: 1, y0: 2, z0: 0.1, iw0: 1, x1: 5, y1: 6, z1: 0.5, iw1: 0.5},
			wantOK: true,
			want:   segment{x0: 1, y0: 2, z0: 0.1, iw0: 1, x1: 5, y1: 6, z1: 0.5, iw1: 0.5},
		},
		{
			name:   "wide horizontal",
			seg:    segment{x0: -1e4, y0: 5, z0: 0, iw0: 1, x1: 1e4, y1: 5, z1: 1, iw1: 1},
			wantOK: true,
			want:   segment{x0: 0, y0: 5, z0: 0.5, iw0: 1, x1: 10, y1: 5, z1: 0.5005, iw1: 1},
		},
		{
			name:   "tall vertical",
			seg:    segment{x0: 4, y0: 20, z0: 0, iw0: 1, x1: 4, y1: -20, z1: 0, iw1: 1},
			wantOK: true,
			want:   segment{x0: 4, y0: 10, z0: 0, iw0: 1, x1: 4, y1: 0, z1: 0, iw1: 1},
		},
		{
			name:   "left of viewport",
			seg:    segment{x0: -5, y0: 0, x1: -1, y1: 10},
			wantOK: false,
		},
		{
			name:   "misses corner",
			seg:    segment{x0: -5, y0: 4, x1: 4, y1: -5},
			wantOK: false,
		},
	}
	const eps = 1e-9
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.seg
			ok := s.clipToViewport(10, 10)
			if ok != tt.wantOK {
				t.Fatalf("clipToViewport = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			got := [8]float64{s.x0, s.y0, s.z0, s.iw0, s.x1, s.y1, s.z1, s.iw1}
			want := [8]float64{tt.want.x0, tt.want.y0, tt.want.z0, tt.want.iw0, tt.want.x1, tt.want.y1, tt.want.z1, tt.want.iw1}
			for i := range got {
				if math.Abs(got[i]-want[i]) > eps {
					t.Errorf("clipped = %v, want %v", got, want)
					break
				}
			}
		})
	}
}

func TestRendererFog(t *testing.T) {
	scene, cam, _ := cubeScene(NewBasicMaterial(RGB(1, 0, 0)))
	scene.Fog = &Fog{Color: RGB(0, 0, 1), Near: 0, Far: 1}

	r := NewRenderer(32, 32)
	defer r.Close()
	r.Render(scene, cam)

	// The cube is 4.5 units away, past Far, so it is fully fogged.
	if got := r.Pixmap().GetPixel(16, 16); !got.Approx(RGB(0, 0, 1), 1.0/255) {
		t.Errorf("fogged center = %+v, want fog color", got)
	}
}

func TestRendererSetSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantErr       bool
	}{
		{"grow", 200, 100, false},
		{"shrink", 10, 20, false},
		{"same size", 64, 64, false},
		{"zero width", 0, 10, true},
		{"negative height", 10, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(64, 64)
			defer r.Close()

			err := r.SetSize(tt.width, tt.height)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetSize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSize) {
					t.Errorf("error = %v, want ErrInvalidSize", err)
				}
				if w, h := r.Size(); w != 64 || h != 64 {
					t.Errorf("Size() = %d, %d after failed SetSize, want 64, 64", w, h)
				}
				return
			}
			if r.Pixmap().Width() != tt.width || r.Pixmap().Height() != tt.height {
				t.Errorf("pixmap = %dx%d, want %dx%d",
					r.Pixmap().Width(), r.Pixmap().Height(), tt.width, tt.height)
			}
		})
	}
}

func TestRendererResizeKeepsScene(t *testing.T) {
	scene, cam, cube := cubeScene(NewBasicMaterial(White))
	cube.Position = V3(0.2, 0.1, 0)
	r := NewRenderer(100, 100)
	defer r.Close()
	r.Render(scene, cam)
	before := cube.WorldPosition()

	if err := r.SetSize(200, 100); err != nil {
		t.Fatal(err)
	}
	cam.SetViewport(200, 100)
	r.Render(scene, cam)

	if got := cube.WorldPosition(); !got.Approx(before, 1e-12) {
		t.Errorf("world position changed on resize: %v -> %v", before, got)
	}
	if cam.Aspect != 2 {
		t.Errorf("Aspect = %v, want 2", cam.Aspect)
	}
	if got := r.Pixmap().GetPixel(100, 50); got.Approx(Black, 1.0/255) {
		t.Error("cube missing after resize")
	}
}

func TestNewRendererClampsSize(t *testing.T) {
	r := NewRenderer(0, -3)
	defer r.Close()
	if w, h := r.Size(); w != 1 || h != 1 {
		t.Errorf("Size() = %d, %d, want 1, 1", w, h)
	}
}

func TestClipPolygon(t *testing.T) {
	v := func(z, w float64) vertex { return vertex{clip: Vec4{Z: z, W: w}} }

	tests := []struct {
		name string
		poly []vertex
		want int
	}{
		{"inside", []vertex{v(0, 1), v(0, 1), v(0, 1)}, 3},
		{"behind near", []vertex{v(-2, 1), v(-2, 1), v(-2, 1)}, 0},
		{"past far", []vertex{v(2, 1), v(2, 1), v(2, 1)}, 0},
		{"one vertex out", []vertex{v(-2, 1), v(0, 1), v(0, 1)}, 4},
		{"two vertices out", []vertex{v(-2, 1), v(-2, 1), v(0, 1)}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clipPolygon(tt.poly)
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
			for _, p := range got {
				if p.clip.Z+p.clip.W < -1e-9 || p.clip.W-p.clip.Z < -1e-9 {
					t.Errorf("vertex %+v outside near/far", p.clip)
				}
			}
		})
	}
}
