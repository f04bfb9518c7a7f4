package main

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/tanema/gween/ease"
	"github.com/urfave/cli"

	"github.com/gogpu/textcomp"
	"github.com/gogpu/textcomp/postprocess"
	"github.com/gogpu/textcomp/surface"
)

// effects maps the -effect flag to a builder factory. The fade duration
// and clock are only used by fade.
var effects = map[string]func(fade time.Duration, clock func() time.Time) postprocess.Builder{
	"blit": func(time.Duration, func() time.Time) postprocess.Builder {
		return postprocess.NewBlit(postprocess.Options{})
	},
	"grayscale": func(time.Duration, func() time.Time) postprocess.Builder {
		return postprocess.NewTint(postprocess.GrayscaleMatrix(), postprocess.Options{Label: "grayscale"})
	},
	"invert": func(time.Duration, func() time.Time) postprocess.Builder {
		return postprocess.NewTint(postprocess.InvertMatrix(), postprocess.Options{Label: "invert"})
	},
	"amber": func(time.Duration, func() time.Time) postprocess.Builder {
		return postprocess.NewTint(postprocess.ScaleMatrix(1, 0.75, 0, 1), postprocess.Options{Label: "amber"})
	},
	"fade": func(d time.Duration, clock func() time.Time) postprocess.Builder {
		return postprocess.NewFade(postprocess.FadeConfig{
			From:     0,
			To:       1,
			Duration: d,
			Easing:   ease.InOutSine,
			Clock:    clock,
		}, postprocess.Options{})
	},
}

func effectNames() string {
	names := make([]string, 0, len(effects))
	for name := range effects {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// stepClock advances by a fixed interval every time Step is called.
type stepClock struct {
	now      time.Time
	interval time.Duration
}

func (c *stepClock) Now() time.Time { return c.now }

func (c *stepClock) Step() { c.now = c.now.Add(c.interval) }

type frameStat struct {
	status  textcomp.FrameStatus
	elapsed time.Duration
}

// RenderFrames flushes a number of frames through an offscreen backend and
// writes the last presented frame to a PNG.
func RenderFrames(ctx *cli.Context) error {
	setupLogging(ctx)

	newEffect, ok := effects[ctx.String("effect")]
	if !ok {
		return fmt.Errorf("unknown effect %q (want one of %s)", ctx.String("effect"), effectNames())
	}
	if ctx.Int("width") <= 0 || ctx.Int("height") <= 0 || ctx.Int("shrink-width") < 0 || ctx.Int("shrink-height") < 0 {
		return fmt.Errorf("width and height must be positive and shrink values non-negative")
	}
	dims, err := surface.NewDimensions(uint32(ctx.Int("width")), uint32(ctx.Int("height")))
	if err != nil {
		return err
	}

	lines := ctx.Args()
	if len(lines) == 0 {
		lines = []string{"textcomp"}
	}
	face, err := loadFace(ctx.Float64("size"))
	if err != nil {
		return err
	}
	defer face.Close()

	g, err := openGPU(ctx.String("backend"))
	if err != nil {
		return err
	}
	defer g.Close()
	logger.Info("device opened", "backend", ctx.String("backend"), "adapter", g.name)

	clock := &stepClock{now: time.Now(), interval: ctx.Duration("interval")}
	text := textcomp.NewImageText(nil)
	synthetic := surface.NewSynthetic()
	b, err := textcomp.New(g.device, g.queue, synthetic,
		newEffect(ctx.Duration("fade"), clock.Now), dims,
		textcomp.WithViewport(surface.Shrink(uint32(ctx.Int("shrink-width")), uint32(ctx.Int("shrink-height")))),
		textcomp.WithTextRenderer(text),
		textcomp.WithMaxFramesInFlight(ctx.Int("frames-in-flight")))
	if err != nil {
		return err
	}
	defer b.Destroy()

	size := b.TextSize()
	text.SetImage(drawLines(face, lines, int(size.Width), int(size.Height)))
	b.Invalidate()

	stats := make([]frameStat, 0, ctx.Int("frames"))
	for i := 0; i < ctx.Int("frames"); i++ {
		start := time.Now()
		status, err := b.Flush()
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		stats = append(stats, frameStat{status: status, elapsed: time.Since(start)})
		clock.Step()
	}

	img, err := synthetic.ReadPixels(g.queue)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	if err := os.WriteFile(ctx.String("out"), buf.Bytes(), 0o644); err != nil {
		return err
	}
	logger.Info("frame written", "path", ctx.String("out"), "size", dims, "area", b.Area())

	if ctx.Bool("stats") {
		printStats(stats, b.FramesPresented())
	}
	return nil
}

func printStats(stats []frameStat, presented uint64) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Frame", "Status", "Time"})
	var total time.Duration
	for i, s := range stats {
		total += s.elapsed
		table.Append([]string{
			fmt.Sprintf("%d", i),
			s.status.String(),
			s.elapsed.String(),
		})
	}
	table.SetFooter([]string{"", fmt.Sprintf("%d presented", presented), total.String()})
	table.Render()
}
