package main

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Kite-Fly/internal/hatstudio"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTestPhoto(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{B: 200, A: 255})
		}
	}
	path := filepath.Join(dir, "photo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, hatstudio.EncodePNG(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestPlaceCommand(t *testing.T) {
	out, err := execute(t, "place", "840", "1120")
	require.NoError(t, err)
	assert.Contains(t, out, "preview=420x560")
	assert.Contains(t, out, "x=126 y=101 scale=0.80")
}

func TestPlaceCommandRejectsBadSize(t *testing.T) {
	_, err := execute(t, "place", "0", "10")
	assert.Error(t, err)
	_, err = execute(t, "place", "abc", "10")
	assert.Error(t, err)
}

func TestComposeWritesFullResolutionPNG(t *testing.T) {
	dir := t.TempDir()
	photo := writeTestPhoto(t, dir, 840, 600)
	outPath := filepath.Join(dir, "out.png")

	out, err := execute(t, "compose", "--photo", photo, "--out", outPath, "--color", "black")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+outPath)

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	img, format, err := hatstudio.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 840, 600), img.Bounds())
}

func TestComposeRequiresPhoto(t *testing.T) {
	_, err := execute(t, "compose")
	assert.Error(t, err)
}

func TestComposeUnknownColour(t *testing.T) {
	dir := t.TempDir()
	photo := writeTestPhoto(t, dir, 42, 42)
	_, err := execute(t, "compose", "--photo", photo, "--out", filepath.Join(dir, "o.png"), "--color", "plaid")
	assert.Error(t, err)
}

func TestPlacementFlagsOverrideDefaults(t *testing.T) {
	cmd := newComposeCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--x", "10", "--scale", "9"}))
	o := composeOptions{x: 10, scale: 9}
	p := placement(cmd, o, 840, 1120)
	assert.Equal(t, 10.0, p.X)
	assert.Equal(t, 101.0, p.Y)
	assert.Equal(t, hatstudio.MaxScale, p.Scale)
}
