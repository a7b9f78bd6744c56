package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/urfave/cli/v3"

	"github.com/liuran001/MusicHost-Go/host/app"
	_ "github.com/liuran001/MusicHost-Go/plugins/ytmusic"
)

var (
	versionName = ""
	commitSHA   = ""
	buildTime   = ""
)

func buildInfo() app.BuildInfo {
	return app.BuildInfo{
		RuntimeVer: runtime.Version(),
		BinVersion: versionName,
		CommitSHA:  commitSHA,
		BuildTime:  buildTime,
		BuildArch:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

func main() {
	r := newRunner(os.Stdout)
	cmd := &cli.Command{
		Name:    "musichost",
		Usage:   "YouTube Music media host",
		Version: versionName,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.ini",
			},
			&cli.StringFlag{
				Name:    "platform",
				Aliases: []string{"p"},
				Usage:   "Platform name or alias, DefaultPlatform when empty",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
		},
		Commands: r.commands(),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "musichost:", err)
		os.Exit(1)
	}
}
