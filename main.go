package main

import (
	"context"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/ytget/media-downloader/internal/config"
	"github.com/ytget/media-downloader/internal/download"
	"github.com/ytget/media-downloader/internal/platform"
	"github.com/ytget/media-downloader/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.media-downloader"
	AppName = "Media Downloader"
)

// Command line flag names
const (
	FlagDir       = "dir"
	FlagFormat    = "format"
	FlagEngine    = "engine"
	FlagLang      = "lang"
	FlagRateLimit = "rate-limit"
	FlagDebug     = "debug"
)

func main() {
	if err := newCLI(run).Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("media downloader failed")
	}
}

// newCLI builds the command line app; action receives the merged overrides
func newCLI(action func(config.Overrides) error) *cli.App {
	return &cli.App{
		Name:    "media-downloader",
		Usage:   "download video or audio from a media link",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: FlagDir, Aliases: []string{"d"}, Usage: "download directory"},
			&cli.StringFlag{Name: FlagFormat, Aliases: []string{"f"}, Usage: "preselected format: mp4 or mp3"},
			&cli.StringFlag{Name: FlagEngine, Usage: "download engine: ytdlp or native"},
			&cli.StringFlag{Name: FlagLang, Usage: "interface language: system, en, zh-TW, ru, pt"},
			&cli.Int64Flag{Name: FlagRateLimit, Usage: "rate limit in bytes per second, 0 for unlimited"},
			&cli.BoolFlag{Name: FlagDebug, Usage: "enable debug logging"},
		},
		Action: func(c *cli.Context) error {
			overrides, err := config.LoadOverrides()
			if err != nil {
				return err
			}
			overrides = applyFlags(c, overrides)
			if err := overrides.Validate(); err != nil {
				return err
			}
			return action(overrides)
		},
	}
}

// applyFlags lets explicitly set flags win over the environment
func applyFlags(c *cli.Context, o config.Overrides) config.Overrides {
	if c.IsSet(FlagDir) {
		o.DownloadDir = c.String(FlagDir)
	}
	if c.IsSet(FlagFormat) {
		o.Format = c.String(FlagFormat)
	}
	if c.IsSet(FlagEngine) {
		o.Engine = c.String(FlagEngine)
	}
	if c.IsSet(FlagLang) {
		o.Language = c.String(FlagLang)
	}
	if c.IsSet(FlagRateLimit) {
		o.RateLimit = c.Int64(FlagRateLimit)
	}
	if c.IsSet(FlagDebug) {
		o.Debug = c.Bool(FlagDebug)
	}
	return o
}

func setupLogging(debug bool) {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetLevel(logrus.InfoLevel)
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

func run(overrides config.Overrides) error {
	setupLogging(overrides.Debug)
	logrus.WithField("version", version).Info("media downloader starting")

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	settings := config.NewSettings(myApp)
	if err := overrides.Apply(settings); err != nil {
		return err
	}

	engine, err := download.NewEngine(settings.GetEngine(), settings.EngineOptions())
	if err != nil {
		return fmt.Errorf("creating download engine: %w", err)
	}
	downloadSvc := download.NewService(engine)

	myWindow := myApp.NewWindow(AppName)
	root := ui.NewRootUI(myWindow, myApp, settings, downloadSvc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go installTools(ctx, root)

	// closing the window cancels a running download
	myWindow.SetOnClosed(downloadSvc.Shutdown)
	myWindow.ShowAndRun()

	downloadSvc.Shutdown()
	return nil
}

// installTools resolves yt-dlp, ffmpeg and ffprobe in the background
func installTools(ctx context.Context, root *ui.RootUI) {
	tools, err := platform.EnsureTools(ctx)
	if err != nil {
		logrus.WithError(err).Warn("yt-dlp is not available; downloads will fail until it is installed")
		return
	}
	if tools.FFmpegPath == "" && tools.FFprobePath == "" {
		return
	}
	fyne.Do(func() {
		root.SetTools(*tools)
	})
}
