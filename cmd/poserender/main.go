// Command poserender draws a pose skeleton over an image and writes a PNG.
package main

import (
	"flag"
	"fmt"
	goimage "image"
	"os"

	"pose-editor/internal/image"
	"pose-editor/internal/pose"
	"pose-editor/internal/render"
	"pose-editor/internal/render/cvsurface"
)

type options struct {
	imagePath  string
	outPath    string
	pointsPath string
	dumpPath   string
	selected   string
	zoom       float64
	labels     bool
	backend    string
	width      int
	height     int
}

func main() {
	var opts options
	flag.StringVar(&opts.imagePath, "image", "", "Background image (PNG, JPEG or TIFF)")
	flag.StringVar(&opts.outPath, "out", "", "Output image path")
	flag.StringVar(&opts.pointsPath, "points", "", "Keypoints JSON; simulated detection when empty")
	flag.StringVar(&opts.dumpPath, "dump", "", "Also write the rendered keypoints as JSON")
	flag.StringVar(&opts.selected, "selected", "", "Keypoint id drawn as selected")
	flag.Float64Var(&opts.zoom, "zoom", 1, "Zoom factor (0.5 - 2.0)")
	flag.BoolVar(&opts.labels, "labels", false, "Draw keypoint labels")
	flag.StringVar(&opts.backend, "backend", "gg", "Drawing backend: gg or opencv")
	flag.IntVar(&opts.width, "width", 0, "Output width (default: image width, or 600)")
	flag.IntVar(&opts.height, "height", 0, "Output height (default: image height, or 600)")
	flag.Parse()

	if opts.outPath == "" {
		fmt.Println("Usage: poserender -out <path> [-image in.png] [-points points.json] [-zoom 1] [-labels] [-backend gg|opencv]")
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "poserender: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	var img goimage.Image
	if opts.imagePath != "" {
		src, err := image.Load(opts.imagePath)
		if err != nil {
			return err
		}
		img = src.Image
		fmt.Printf("Loaded %s image: %dx%d pixels\n", src.Format, src.Width(), src.Height())
	}

	w, h := outputSize(img, opts.width, opts.height)

	var points pose.PointSet
	if opts.pointsPath != "" {
		var err error
		points, err = pose.ReadFile(opts.pointsPath)
		if err != nil {
			return err
		}
	} else {
		iw, ih := w, h
		if img != nil {
			iw, ih = img.Bounds().Dx(), img.Bounds().Dy()
		}
		points = pose.SimulatedDetection(iw, ih)
	}
	fmt.Printf("Keypoints: %d\n", len(points))

	ro := render.Options{
		SelectedID: opts.selected,
		Zoom:       clampZoom(opts.zoom),
		ShowLabels: opts.labels,
	}

	switch opts.backend {
	case "gg", "":
		s := render.NewRasterSurface(w, h)
		render.Render(s, img, points, ro)
		if err := s.SavePNG(opts.outPath); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.outPath, err)
		}
	case "opencv":
		s := cvsurface.New(w, h)
		defer s.Close()
		render.Render(s, img, points, ro)
		if err := s.Write(opts.outPath); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown backend %q", opts.backend)
	}
	fmt.Printf("Wrote %dx%d %s\n", w, h, opts.outPath)

	if opts.dumpPath != "" {
		if err := pose.WriteFile(opts.dumpPath, points); err != nil {
			return err
		}
	}
	return nil
}

// outputSize picks the surface size from flags, then the image, then 600x600.
func outputSize(img goimage.Image, w, h int) (int, int) {
	if img != nil {
		if w <= 0 {
			w = img.Bounds().Dx()
		}
		if h <= 0 {
			h = img.Bounds().Dy()
		}
	}
	if w <= 0 {
		w = 600
	}
	if h <= 0 {
		h = 600
	}
	return w, h
}

func clampZoom(z float64) float64 {
	switch {
	case z < 0.5:
		return 0.5
	case z > 2:
		return 2
	default:
		return z
	}
}
