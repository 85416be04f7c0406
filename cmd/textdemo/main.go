// Command textdemo renders a text scene to a PNG image.
//
// Usage:
//
//	textdemo [-scene file.scene] [-output demo.png] [-scale 2]
//
// Without -scene the built-in demo scene is rendered. Scene files are
// UTF-8, or UTF-16 with a byte order mark.
package main

import (
	_ "embed"
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/textengine"
	"github.com/gogpu/textengine/internal/scene"
	"github.com/gogpu/textengine/surface"
)

//go:embed demo.scene
var demoScene string

func main() {
	var (
		sceneFile = flag.String("scene", "", "scene file (default: built-in demo)")
		output    = flag.String("output", "demo.png", "output file")
		scale     = flag.Float64("scale", 1, "device pixels per scene unit")
		backend   = flag.String("backend", "", "surface backend (default: best available)")
		debug     = flag.Bool("debug", false, "log debug diagnostics to stderr")
		list      = flag.Bool("list-backends", false, "list surface backends and exit")
	)
	flag.Parse()

	if *list {
		fmt.Println(strings.Join(surface.Backends(), "\n"))
		return
	}

	if err := run(*sceneFile, *output, *scale, *backend, *debug); err != nil {
		log.Fatalf("textdemo: %v", err)
	}
}

func run(sceneFile, output string, scale float64, backend string, debug bool) error {
	if debug {
		textengine.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	src, name, baseDir := demoScene, "demo.scene", ""
	if sceneFile != "" {
		f, err := os.Open(sceneFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if src, err = textengine.ReadText(f); err != nil {
			return fmt.Errorf("read %s: %w", sceneFile, err)
		}
		name, baseDir = sceneFile, filepath.Dir(sceneFile)
	}
	s, err := scene.ParseString(name, src)
	if err != nil {
		return err
	}

	e, err := textengine.CreateEngine(
		textengine.WithBackend(backend),
		textengine.WithFontFile("Go-Regular.ttf", goregular.TTF),
		textengine.WithFontFile("Go-Bold.ttf", gobold.TTF),
		textengine.WithFontFile("Go-Italic.ttf", goitalic.TTF),
		textengine.WithFontFile("Go-BoldItalic.ttf", gobolditalic.TTF),
		textengine.WithFontFile("Go-Mono.ttf", gomono.TTF),
	)
	if err != nil {
		return err
	}
	defer e.Free()

	r := scene.NewRenderer(e)
	r.BaseDir = baseDir
	r.Scale = scale
	img, err := r.Render(s)
	if err != nil {
		return err
	}

	out, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	log.Printf("Scene saved to %s (%dx%d)", output, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}
