// Package legend draws a game's secret legend as an image, so it can be handed
// to the spymasters.
package legend

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"

	codenames "github.com/bcspragu/codenames-table"
)

// DefaultFile is where ExportFile writes by default.
const DefaultFile = "legend.png"

const (
	cellPx   = 80
	gridPx   = 4
	borderPx = 10
)

var (
	red    = color.RGBA{R: 0xcd, A: 0xff}
	blue   = color.RGBA{B: 0xcd, A: 0xff}
	yellow = color.RGBA{R: 0xf0, G: 0xe0, B: 0x40, A: 0xff}
	black  = color.RGBA{A: 0xff}
	grid   = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
)

func agentColor(a codenames.Agent) color.Color {
	switch a {
	case codenames.RedAgent:
		return red
	case codenames.BlueAgent:
		return blue
	case codenames.Bystander:
		return yellow
	}
	return black
}

func teamColor(t codenames.Team) color.Color {
	if t == codenames.BlueTeam {
		return blue
	}
	return red
}

// Image renders the legend as a grid of colored cells. The frame around the
// grid is the color of the team that goes first.
func Image(l *codenames.Legend) *image.RGBA {
	side := 2*borderPx + l.Size*cellPx + (l.Size+1)*gridPx
	img := image.NewRGBA(image.Rect(0, 0, side, side))

	draw.Draw(img, img.Bounds(), &image.Uniform{teamColor(l.FirstMover)}, image.Point{}, draw.Src)
	inner := image.Rect(borderPx, borderPx, side-borderPx, side-borderPx)
	draw.Draw(img, inner, &image.Uniform{grid}, image.Point{}, draw.Src)

	for i := 0; i < l.Size; i++ {
		for j := 0; j < l.Size; j++ {
			draw.Draw(img, cellRect(i, j), &image.Uniform{agentColor(l.At(i, j))}, image.Point{}, draw.Src)
		}
	}
	return img
}

// cellRect returns the pixel bounds of the cell at the given row and column.
func cellRect(row, col int) image.Rectangle {
	x := borderPx + gridPx + col*(cellPx+gridPx)
	y := borderPx + gridPx + row*(cellPx+gridPx)
	return image.Rect(x, y, x+cellPx, y+cellPx)
}

// WritePNG encodes the legend image as a PNG.
func WritePNG(w io.Writer, l *codenames.Legend) error {
	if err := png.Encode(w, Image(l)); err != nil {
		return fmt.Errorf("failed to encode legend: %w", err)
	}
	return nil
}

// ExportFile writes the legend PNG to the given path.
func ExportFile(path string, l *codenames.Legend) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", path, err)
	}
	if err := WritePNG(f, l); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
