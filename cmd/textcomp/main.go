// Command textcomp renders composited text frames offscreen and writes the
// result to PNG.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/gogpu/textcomp"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "textcomp"
	app.Usage = "composite text layers through post-processing effects"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render text frames into a PNG",
			Description: `
Draw the given lines of text into the intermediate text texture, composite
them onto an offscreen surface through the selected effect and write the
last frame to a PNG file.

The fade effect is driven by a fixed frame interval so the output does not
depend on wall-clock time.`,
			ArgsUsage: "line1 line2 ...",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "backend",
					Value: "noop",
					Usage: "hal backend to open a device on (noop, vulkan)",
				},
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "surface width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 128,
					Usage: "surface height",
				},
				cli.IntFlag{
					Name:  "shrink-width",
					Usage: "margin kept free on the left of the viewport",
				},
				cli.IntFlag{
					Name:  "shrink-height",
					Usage: "margin kept free at the bottom of the viewport",
				},
				cli.StringFlag{
					Name:  "effect, e",
					Value: "blit",
					Usage: "post-processing effect (" + effectNames() + ")",
				},
				cli.Float64Flag{
					Name:  "size",
					Value: 24,
					Usage: "font size in pixels; 0 selects the built-in bitmap face",
				},
				cli.IntFlag{
					Name:  "frames, n",
					Value: 1,
					Usage: "number of frames to flush",
				},
				cli.IntFlag{
					Name:  "frames-in-flight",
					Value: textcomp.DefaultMaxFramesInFlight,
					Usage: "frames the GPU may still be working on before flushes skip",
				},
				cli.DurationFlag{
					Name:  "interval",
					Value: time.Second / 60,
					Usage: "simulated time between frames",
				},
				cli.DurationFlag{
					Name:  "fade",
					Value: 500 * time.Millisecond,
					Usage: "fade duration",
				},
				cli.BoolFlag{
					Name:  "stats",
					Usage: "print per-frame statistics",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the last frame",
				},
			},
			Action: RenderFrames,
		},
		{
			Name:  "adapters",
			Usage: "list adapters exposed by a hal backend",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "backend",
					Value: "vulkan",
					Usage: "hal backend to query (noop, vulkan)",
				},
			},
			Action: ListAdapters,
		},
	}
	return app
}
