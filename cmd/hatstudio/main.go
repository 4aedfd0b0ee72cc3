package main

import (
	"fmt"
	"image"
	"os"

	"github.com/spf13/cobra"

	"github.com/Garsondee/Kite-Fly/internal/hatstudio"
)

type composeOptions struct {
	photo string
	hat   string
	color string
	out   string
	x     float64
	y     float64
	scale float64
	wheel float64
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "hatstudio",
		Short:        "Put a kite hat on a photo",
		SilenceUsage: true,
	}
	root.AddCommand(newComposeCmd(), newPlaceCmd())
	return root
}

func newComposeCmd() *cobra.Command {
	o := composeOptions{}
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Composite a hat over a photo at full resolution",
		Long: `Positions are in preview space: the photo is shown 420 units wide.
Without --x/--y/--scale the hat starts centred near the top at scale 0.8.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompose(cmd, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.photo, "photo", "", "photo to decorate (png, jpeg, webp)")
	f.StringVar(&o.hat, "hat", "", "hat image with transparency; empty draws the built-in hat")
	f.StringVar(&o.color, "color", "brown", "built-in hat colour: brown or black")
	f.StringVarP(&o.out, "out", "o", "kite-hat-result.png", "output PNG")
	f.Float64Var(&o.x, "x", 0, "hat left edge in preview units")
	f.Float64Var(&o.y, "y", 0, "hat top edge in preview units")
	f.Float64Var(&o.scale, "scale", hatstudio.DefaultScale, "hat scale (0.3..3)")
	f.Float64Var(&o.wheel, "wheel", 0, "apply a wheel delta to the scale (positive shrinks)")
	_ = cmd.MarkFlagRequired("photo")
	return cmd
}

func newPlaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "place WIDTH HEIGHT",
		Short: "Print the default hat placement for a photo size",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var w, h int
			if _, err := fmt.Sscan(args[0], &w); err != nil {
				return fmt.Errorf("width: %w", err)
			}
			if _, err := fmt.Sscan(args[1], &h); err != nil {
				return fmt.Errorf("height: %w", err)
			}
			if w <= 0 || h <= 0 {
				return fmt.Errorf("photo size must be positive, got %dx%d", w, h)
			}
			ph := hatstudio.PreviewHeight(w, h)
			p := hatstudio.DefaultPlacement(ph)
			r := hatstudio.ExportRect(p, hatstudio.DefaultAspect, w)
			fmt.Fprintf(cmd.OutOrStdout(), "preview=%dx%d x=%.0f y=%.0f scale=%.2f export=%v\n",
				int(hatstudio.PreviewWidth), ph, p.X, p.Y, p.Scale, r)
			return nil
		},
	}
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := hatstudio.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

func builtinHat(name string) (image.Image, error) {
	switch name {
	case "brown":
		return hatstudio.DrawHat(400, hatstudio.HatBrown), nil
	case "black":
		return hatstudio.DrawHat(400, hatstudio.HatBlack), nil
	}
	return nil, fmt.Errorf("unknown hat colour %q (supported: brown, black)", name)
}

// placement resolves flags against the default placement for the photo.
func placement(cmd *cobra.Command, o composeOptions, photoW, photoH int) hatstudio.Placement {
	p := hatstudio.DefaultPlacement(hatstudio.PreviewHeight(photoW, photoH))
	if cmd.Flags().Changed("x") {
		p.X = o.x
	}
	if cmd.Flags().Changed("y") {
		p.Y = o.y
	}
	if cmd.Flags().Changed("scale") {
		p.Scale = hatstudio.ClampScale(o.scale)
	}
	if o.wheel != 0 {
		p = p.Wheel(o.wheel)
	}
	return p
}

func runCompose(cmd *cobra.Command, o composeOptions) error {
	photo, err := decodeFile(o.photo)
	if err != nil {
		return err
	}
	var hat image.Image
	if o.hat != "" {
		hat, err = decodeFile(o.hat)
	} else {
		hat, err = builtinHat(o.color)
	}
	if err != nil {
		return err
	}

	b := photo.Bounds()
	p := placement(cmd, o, b.Dx(), b.Dy())
	out, err := hatstudio.Compose(photo, hat, p)
	if err != nil {
		return err
	}
	if err := writePNG(o.out, out); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d, hat at %v)\n",
		o.out, b.Dx(), b.Dy(), hatstudio.ExportRect(p, hatstudio.Aspect(hat), b.Dx()))
	return nil
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return hatstudio.EncodePNG(f, img)
}
