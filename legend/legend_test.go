package legend

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	codenames "github.com/bcspragu/codenames-table"
)

func testLegend() *codenames.Legend {
	return &codenames.Legend{
		Size:       3,
		FirstMover: codenames.BlueTeam,
		Agents: []codenames.Agent{
			codenames.BlueAgent, codenames.RedAgent, codenames.Bystander,
			codenames.BlueAgent, codenames.RedAgent, codenames.Bystander,
			codenames.BlueAgent, codenames.Bystander, codenames.Assassin,
		},
	}
}

func TestImage(t *testing.T) {
	l := testLegend()
	img := Image(l)

	// Corner pixel is part of the border.
	if got := img.At(0, 0); !sameColor(got, blue) {
		t.Errorf("border color = %v, want first mover's %v", got, blue)
	}

	for i := 0; i < l.Size; i++ {
		for j := 0; j < l.Size; j++ {
			r := cellRect(i, j)
			mid := image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
			want := agentColor(l.At(i, j))
			if got := img.At(mid.X, mid.Y); !sameColor(got, want) {
				t.Errorf("cell (%d, %d) = %v, want %v", i, j, got, want)
			}
		}
	}

	// Grid line between the first two cells.
	gx := cellRect(0, 0).Max.X
	if got := img.At(gx, cellRect(0, 0).Min.Y); !sameColor(got, grid) {
		t.Errorf("grid line = %v, want %v", got, grid)
	}
}

func TestExportFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), DefaultFile)
	if err := ExportFile(fn, testLegend()); err != nil {
		t.Fatalf("ExportFile: %v", err)
	}

	f, err := os.Open(fn)
	if err != nil {
		t.Fatalf("failed to open exported legend: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("exported legend isn't a PNG: %v", err)
	}
	if got, want := img.Bounds(), Image(testLegend()).Bounds(); got != want {
		t.Errorf("image bounds = %v, want %v", got, want)
	}
}

func sameColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}
