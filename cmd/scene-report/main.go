// scene-report prints the tactical-view scene report for a scenario file
// without opening a window: background dimensions, the fit-to-canvas viewport
// for a given surface size, and the token table.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/atotto/clipboard"

	"github.com/skirmisher/battlemap/internal/scenario"
	"github.com/skirmisher/battlemap/internal/tactical"
)

func main() {
	var (
		path   string
		width  int
		height int
		toClip bool
	)
	flag.StringVar(&path, "scenario", "scenario.yaml", "scenario file to load")
	flag.IntVar(&width, "width", 1600, "surface width in pixels")
	flag.IntVar(&height, "height", 900, "surface height in pixels")
	flag.BoolVar(&toClip, "clipboard", false, "also copy the report to the system clipboard")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	sc, err := scenario.Load(path)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	view := tactical.New()
	if err := view.SetTokens(ctx, sc.TacticalTokens()); err != nil {
		log.Fatal(err)
	}
	if err := view.SetBackgroundImage(ctx, sc.Background); err != nil {
		log.Fatal(err)
	}
	view.Resize(float64(width), float64(height))

	report := view.Report()
	fmt.Print(report)
	if toClip {
		if err := clipboard.WriteAll(report); err != nil {
			log.Fatalf("clipboard copy failed: %v", err)
		}
	}
}
