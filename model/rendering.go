package model

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "

	macosClearCmd = "clear"

	// MaxZoom bounds how many terminal rows and block columns a cell may span.
	MaxZoom = 8
)

// Viewport selects the part of the grid drawn on screen. Width and Height
// count grid cells; zero means up to the grid edge.
type Viewport struct {
	X, Y          int
	Width, Height int
	Zoom          int
}

// visible clips the viewport against a grid of the given size.
func (v Viewport) visible(gridWidth, gridHeight int) (x0, y0, x1, y1 int) {
	x0, y0 = max(v.X, 0), max(v.Y, 0)
	x1, y1 = gridWidth, gridHeight
	if v.Width > 0 {
		x1 = min(x1, x0+v.Width)
	}
	if v.Height > 0 {
		y1 = min(y1, y0+v.Height)
	}
	return x0, y0, max(x1, x0), max(y1, y0)
}

// ZoomIn grows cells by n steps, up to MaxZoom. It reports whether the zoom changed.
func (v *Viewport) ZoomIn(n int) bool {
	if v.Zoom >= MaxZoom {
		return false
	}
	v.Zoom = min(max(v.Zoom, 1)+n, MaxZoom)
	return true
}

// ZoomOut shrinks cells by n steps, down to 1. It reports whether the zoom changed.
func (v *Viewport) ZoomOut(n int) bool {
	if v.Zoom <= 1 {
		return false
	}
	v.Zoom = max(v.Zoom-n, 1)
	return true
}

// TerminalRenderer draws a viewport of the grid as block characters.
type TerminalRenderer struct {
	View Viewport
}

// Display renders the visible part of the grid to w
func (r *TerminalRenderer) Display(w io.Writer, g *Grid) error {
	zoom := max(r.View.Zoom, 1)
	full := strings.Repeat(gridPosBlock, zoom)
	empty := strings.Repeat(gridPosEmpty, zoom)

	x0, y0, x1, y1 := r.View.visible(g.GetWidth(), g.GetHeight())
	bw := bufio.NewWriter(w)
	var line strings.Builder
	for y := y0; y < y1; y++ {
		line.Reset()
		for x := x0; x < x1; x++ {
			if g.Get(x, y) {
				line.WriteString(full)
			} else {
				line.WriteString(empty)
			}
		}
		line.WriteByte('\n')
		for range zoom {
			bw.WriteString(line.String())
		}
	}
	return bw.Flush()
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() {
	cmd := exec.Command(macosClearCmd)
	cmd.Stdout = os.Stdout
	if err := cmd.Run(); err != nil {
		fmt.Println("Error clearing terminal:", err)
	}
}
