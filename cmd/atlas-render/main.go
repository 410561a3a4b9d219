// atlas-render prints location tile maps to the terminal.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/udisondev/atlas/internal/compositor"
	"github.com/udisondev/atlas/internal/config"
	"github.com/udisondev/atlas/internal/data"
	"github.com/udisondev/atlas/internal/logging"
	"github.com/udisondev/atlas/internal/navigation"
	"github.com/udisondev/atlas/internal/tile"
	"github.com/udisondev/atlas/internal/world"
)

type options struct {
	dataset string
	width   int
	height  int
	quality string
	origin  string
	color   string
	workers int
}

func main() {
	var opts options
	flag.StringVar(&opts.dataset, "dataset", "", "dataset file or directory (default: dataset_path from config)")
	flag.IntVar(&opts.width, "w", 80, "frame width in cells")
	flag.IntVar(&opts.height, "h", 30, "frame height in cells")
	flag.StringVar(&opts.quality, "quality", "sextant", "sextant, quadrant, shade or ascii")
	flag.StringVar(&opts.origin, "origin", "AA00", "top-left cell")
	flag.StringVar(&opts.color, "color", "truecolor", "truecolor, 256 or none")
	flag.IntVar(&opts.workers, "workers", 0, "parallel renders (0 = GOMAXPROCS)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: atlas-render [flags] location-id...\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts, flag.Args()); err != nil {
		slog.Error("render failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, ids []string) error {
	mode, err := parseColorMode(opts.color)
	if err != nil {
		return err
	}
	opts.color = mode

	cfg, err := config.LoadAtlas(config.PathFromEnv())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	// Frames go to stdout, so logs go to stderr.
	slog.SetDefault(logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat))

	q, err := compositor.ParseQuality(opts.quality)
	if err != nil {
		return err
	}
	origin, err := tile.ParseCellID(opts.origin)
	if err != nil {
		return err
	}
	if opts.dataset == "" {
		opts.dataset = cfg.DatasetPath
	}
	src, err := data.PathSource(opts.dataset)
	if err != nil {
		return err
	}
	graph, err := world.Load(ctx, src)
	if err != nil {
		return err
	}
	svc := navigation.NewService(graph)

	jobs := make([]compositor.Job, len(ids))
	for i, id := range ids {
		loc, err := svc.GetLocation(id)
		if err != nil {
			return err
		}
		jobs[i] = compositor.Job{
			Tiles:   loc.Tiles,
			Origin:  origin,
			Width:   opts.width,
			Height:  opts.height,
			Quality: q,
		}
	}

	frames, err := compositor.RenderBatch(ctx, jobs, opts.workers)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for i, f := range frames {
		loc, _ := svc.GetLocation(ids[i])
		fmt.Fprintf(w, "%s (%s, %s)\n", loc.Name, loc.ID, q)
		if err := writeFrame(w, f, opts.color); err != nil {
			return err
		}
	}
	return nil
}

// parseColorMode accepts truecolor, 256 or none, case-insensitively.
func parseColorMode(s string) (string, error) {
	switch m := strings.ToLower(strings.TrimSpace(s)); m {
	case "truecolor", "256", "none":
		return m, nil
	default:
		return "", fmt.Errorf("unknown color mode %q (want truecolor, 256 or none)", s)
	}
}

// writeFrame prints f with SGR colour escapes in the given mode.
func writeFrame(w io.Writer, f compositor.Frame, mode string) error {
	for _, row := range f {
		var last compositor.Cell
		styled := false
		for x, c := range row {
			if mode != "none" && (x == 0 || c.Fg != last.Fg || c.Bg != last.Bg) {
				if _, err := io.WriteString(w, "\x1b[0m"+sgr(c.Fg, 38, mode)+sgr(c.Bg, 48, mode)); err != nil {
					return err
				}
				styled = true
			}
			if _, err := fmt.Fprintf(w, "%c", c.Glyph); err != nil {
				return err
			}
			last = c
		}
		if styled {
			if _, err := io.WriteString(w, "\x1b[0m"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// sgr returns the escape selecting c as foreground (base 38) or background (48).
func sgr(c tcell.Color, base int, mode string) string {
	if c == tcell.ColorDefault || !c.Valid() {
		return ""
	}
	if c.IsRGB() && mode == "truecolor" {
		r, g, b := c.RGB()
		return fmt.Sprintf("\x1b[%d;2;%d;%d;%dm", base, r, g, b)
	}
	return fmt.Sprintf("\x1b[%d;5;%dm", base, int(compositor.To256(c)-tcell.ColorValid))
}
