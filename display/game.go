package display

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/phanxgames/offcanvas"
	"golang.org/x/image/colornames"
)

// RunConfig configures Run.
type RunConfig struct {
	Title      string
	Width      int
	Height     int
	Background color.Color // defaults to black
	ShowFPS    bool
	Config     *offcanvas.Config // renderer settings, DefaultConfig when nil
	// Update, when set, runs once per tick before the renderer. dt is the
	// tick length.
	Update func(dt time.Duration) error
	// Script, when set, is stepped once per tick. The game ends when it is
	// done and ExitAfterScript is set.
	Script          *offcanvas.ScriptRunner
	ExitAfterScript bool
}

// Game is an ebiten.Game that renders an offcanvas scene.
type Game struct {
	cfg      RunConfig
	window   *Window
	surface  *Surface
	renderer *offcanvas.Renderer
	upload   upload

	fpsAcc  time.Duration
	fpsText string
}

// NewGame creates the surface, host and renderer for src.
func NewGame(src offcanvas.SceneSource, surface offcanvas.Entity, cfg RunConfig) (*Game, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("display: invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Background == nil {
		cfg.Background = colornames.Black
	}
	s, err := NewSurface(offcanvas.Dims{W: cfg.Width, H: cfg.Height}, nil)
	if err != nil {
		return nil, err
	}
	win := NewWindow(float64(cfg.Width), float64(cfg.Height), s)
	r, err := offcanvas.NewRenderer(context.Background(), cfg.Config, src, surface, win)
	if err != nil {
		return nil, err
	}
	return &Game{cfg: cfg, window: win, surface: s, renderer: r}, nil
}

// Renderer returns the game's renderer.
func (g *Game) Renderer() *offcanvas.Renderer { return g.renderer }

func (g *Game) Update() error {
	dt := time.Second / time.Duration(ebiten.TPS())
	if g.cfg.Update != nil {
		if err := g.cfg.Update(dt); err != nil {
			return err
		}
	}
	if sc := g.cfg.Script; sc != nil {
		if err := sc.Step(g.renderer); err != nil {
			offcanvas.Logger().Warn("render script", "err", err)
		}
		if sc.Done() && g.cfg.ExitAfterScript {
			return ebiten.Termination
		}
	}
	g.renderer.Update(dt)
	if err := g.renderer.Err(); err != nil {
		offcanvas.Logger().Warn("render error", "err", err)
	}
	if g.cfg.ShowFPS {
		g.updateFPS(dt)
	}
	return nil
}

// updateFPS refreshes the overlay text about twice a second.
func (g *Game) updateFPS(dt time.Duration) {
	g.fpsAcc += dt
	if g.fpsAcc < 500*time.Millisecond && g.fpsText != "" {
		return
	}
	g.fpsAcc = 0
	st := g.renderer.Stats()
	g.fpsText = fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nRender: %.1f/s\nWorker: %v",
		ebiten.ActualFPS(), ebiten.ActualTPS(), st.FPS(), g.renderer.LastOpTime().Round(10*time.Microsecond))
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.cfg.Background)
	if img := g.upload.sync(g.surface); img != nil {
		sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
		iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
		scale := min(float64(sw)/float64(iw), float64(sh)/float64(ih))
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate((float64(sw)-float64(iw)*scale)/2, (float64(sh)-float64(ih)*scale)/2)
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(img, op)
	}
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, g.fpsText)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	dpr := ebiten.Monitor().DeviceScaleFactor()
	g.window.SetBox(float64(outsideWidth), float64(outsideHeight), dpr)
	return int(float64(outsideWidth) * dpr), int(float64(outsideHeight) * dpr)
}

// Close stops the renderer.
func (g *Game) Close() error { return g.renderer.Close() }

// Run opens the window and blocks until it is closed. The renderer is
// closed on return.
func (g *Game) Run() error {
	defer func() { _ = g.Close() }()

	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if fps := g.renderer.Config().TargetFPS; fps > 0 {
		ebiten.SetTPS(fps)
	}
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// Run opens a window and renders src until the window is closed.
func Run(src offcanvas.SceneSource, surface offcanvas.Entity, cfg RunConfig) error {
	g, err := NewGame(src, surface, cfg)
	if err != nil {
		return err
	}
	return g.Run()
}
