package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/skirmisher/battlemap/internal/scenario"
	"github.com/skirmisher/battlemap/internal/tactical"
)

type app struct {
	view *tactical.View
}

func (a *app) Update() error {
	a.view.HandleInput()
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		a.view.ToggleHUD()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := clipboard.WriteAll(a.view.Report()); err != nil {
			slog.Warn("clipboard copy failed", "err", err)
		} else {
			slog.Info("scene report copied to clipboard")
		}
	}
	return nil
}

func (a *app) Draw(screen *ebiten.Image) {
	a.view.Draw(screen)
}

func (a *app) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func main() {
	var path string
	flag.StringVar(&path, "scenario", "scenario.yaml", "scenario file to load")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
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

	view.On(tactical.EventTokenDragEnded, func(t *tactical.Token) {
		slog.Info("token moved", "id", t.ID, "x", t.Pos.X, "y", t.Pos.Y)
	})
	view.On(tactical.EventTokenClicked, func(t *tactical.Token) {
		slog.Info("token selected", "id", t.ID)
	})
	view.On(tactical.EventTokenRightClicked, func(t *tactical.Token) {
		slog.Info("token targeted", "id", t.ID)
	})

	title := "Battlemap"
	if sc.Name != "" {
		title += " - " + sc.Name
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(1600, 900)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(&app{view: view}); err != nil {
		log.Fatal(err)
	}
}
