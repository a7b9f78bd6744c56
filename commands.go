package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/liuran001/MusicHost-Go/host/app"
	"github.com/liuran001/MusicHost-Go/host/platform"
	"github.com/liuran001/MusicHost-Go/plugins/ytmusic"
)

var errMissingArgument = errors.New("missing argument")

type runner struct {
	output io.Writer
}

func newRunner(output io.Writer) *runner {
	return &runner{output: output}
}

func (r *runner) commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:   "serve",
			Usage:  "Run the HTTP API until interrupted",
			Action: r.serve,
		},
		{
			Name:   "profiles",
			Usage:  "List the profiles reachable with the configured cookie",
			Action: r.profiles,
		},
		{
			Name:   "whoami",
			Usage:  "Show the current account",
			Action: r.whoami,
		},
		{
			Name:  "switch",
			Usage: "Switch to a profile for this invocation and show it",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Usage: "Exact profile display name"},
				&cli.StringFlag{Name: "gaia-id", Usage: "Obfuscated account id, wins over --name"},
				&cli.BoolFlag{Name: "reset", Usage: "Return to the primary account"},
			},
			Action: r.switchProfile,
		},
		{
			Name:  "search",
			Usage: "Search the catalogue",
			Arguments: []cli.Argument{
				&cli.StringArg{Name: "query"},
			},
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "song, album, artist, playlist or video", Value: "song"},
				&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum number of results", Value: 10},
			},
			Action: r.search,
		},
		{
			Name:  "playlist",
			Usage: "Show one page of a playlist",
			Arguments: []cli.Argument{
				&cli.StringArg{Name: "id"},
			},
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ytmusic.GlobalLimit},
				&cli.IntFlag{Name: "offset"},
			},
			Action: r.playlist,
		},
		{
			Name:  "recommend",
			Usage: "Show daily recommendations from the home feed",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "playlists", Usage: "List recommended playlists instead of songs"},
			},
			Action: r.recommend,
		},
		{
			Name:   "cookie",
			Usage:  "Check the configured cookie",
			Action: r.cookie,
		},
		{
			Name:  "header",
			Usage: "Credential file operations",
			Commands: []*cli.Command{
				{
					Name:  "write",
					Usage: "Write a header file from a browser cookie",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "cookie", Usage: "Cookie header copied from music.youtube.com", Required: true},
						&cli.StringFlag{Name: "auth", Usage: "Authorization header, recomputed from SAPISID when empty"},
						&cli.StringFlag{Name: "path", Usage: "Header file path", Value: ytmusic.DefaultHeaderFile()},
					},
					Action: r.writeHeader,
				},
			},
		},
	}
}

// withPlatform loads the application, hands the selected platform to fn and
// shuts everything down afterwards.
func (r *runner) withPlatform(ctx context.Context, cmd *cli.Command, fn func(context.Context, platform.Platform) error) error {
	a, err := app.New(cmd.String("config"), buildInfo())
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.ShutdownTimeout())
		defer cancel()
		_ = a.Shutdown(shutdownCtx)
	}()

	p, err := a.Platform(cmd.String("platform"))
	if err != nil {
		return err
	}
	return fn(ctx, p)
}

func (r *runner) withSwitcher(ctx context.Context, cmd *cli.Command, fn func(context.Context, platform.ProfileSwitcher) error) error {
	return r.withPlatform(ctx, cmd, func(ctx context.Context, p platform.Platform) error {
		ps, ok := p.(platform.ProfileSwitcher)
		if !ok {
			return platform.NewUnsupportedError(p.Name(), "profiles")
		}
		return fn(ctx, ps)
	})
}

func (r *runner) serve(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cmd.String("config"), buildInfo())
	if err != nil {
		return err
	}
	if err := a.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.ShutdownTimeout())
	defer cancel()
	return a.Shutdown(shutdownCtx)
}

func (r *runner) profiles(ctx context.Context, cmd *cli.Command) error {
	return r.withSwitcher(ctx, cmd, func(ctx context.Context, ps platform.ProfileSwitcher) error {
		profiles, err := ps.ListProfiles(ctx)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(profiles)
		}
		if len(profiles) == 0 {
			return r.writePlain("no profiles found\n")
		}
		for _, p := range profiles {
			r.writeProfile(p)
		}
		return nil
	})
}

func (r *runner) whoami(ctx context.Context, cmd *cli.Command) error {
	return r.withSwitcher(ctx, cmd, func(ctx context.Context, ps platform.ProfileSwitcher) error {
		profile, err := ps.CurrentProfile(ctx)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(profile)
		}
		r.writeProfile(*profile)
		return nil
	})
}

func (r *runner) switchProfile(ctx context.Context, cmd *cli.Command) error {
	name, gaiaID := strings.TrimSpace(cmd.String("name")), strings.TrimSpace(cmd.String("gaia-id"))
	if cmd.Bool("reset") {
		name, gaiaID = "", ""
	} else if name == "" && gaiaID == "" {
		return fmt.Errorf("%w: --name, --gaia-id or --reset", errMissingArgument)
	}
	return r.withSwitcher(ctx, cmd, func(ctx context.Context, ps platform.ProfileSwitcher) error {
		profile, err := ps.SwitchProfile(ctx, name, gaiaID)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(profile)
		}
		r.writeProfile(*profile)
		return nil
	})
}

func (r *runner) search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: query", errMissingArgument)
	}
	searchType, ok := platform.ParseSearchType(cmd.String("type"))
	if !ok {
		return fmt.Errorf("unknown search type %q", cmd.String("type"))
	}
	return r.withPlatform(ctx, cmd, func(ctx context.Context, p platform.Platform) error {
		res, err := p.Search(ctx, query, searchType, int(cmd.Int("limit")))
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(res)
		}
		for _, s := range res.Songs {
			r.writePlain("%s  %s - %s\n", s.ID, s.Title, platform.JoinArtistNames(s.Artists))
		}
		for _, v := range res.Videos {
			r.writePlain("%s  %s\n", v.ID, v.Title)
		}
		for _, a := range res.Albums {
			r.writePlain("%s  %s (%s)\n", a.ID, a.Name, a.Year)
		}
		for _, a := range res.Artists {
			r.writePlain("%s  %s\n", a.ID, a.Name)
		}
		for _, pl := range res.Playlists {
			r.writePlain("%s  %s [%d]\n", pl.ID, pl.Name, pl.TrackCount)
		}
		return nil
	})
}

func (r *runner) playlist(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: playlist id", errMissingArgument)
	}
	return r.withPlatform(ctx, cmd, func(ctx context.Context, p platform.Platform) error {
		ctx = platform.WithTrackLimit(ctx, int(cmd.Int("limit")))
		ctx = platform.WithTrackOffset(ctx, int(cmd.Int("offset")))
		pl, err := p.GetPlaylist(ctx, id)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(pl)
		}
		r.writePlain("%s (%d tracks)\n", pl.Name, pl.TrackCount)
		for i, s := range pl.Songs {
			r.writePlain("%3d. %s  %s - %s\n", int(cmd.Int("offset"))+i+1, s.ID, s.Title, platform.JoinArtistNames(s.Artists))
		}
		return nil
	})
}

func (r *runner) recommend(ctx context.Context, cmd *cli.Command) error {
	return r.withPlatform(ctx, cmd, func(ctx context.Context, p platform.Platform) error {
		rec, ok := p.(platform.Recommender)
		if !ok {
			return platform.NewUnsupportedError(p.Name(), "recommendations")
		}
		if cmd.Bool("playlists") {
			playlists, err := rec.DailyPlaylists(ctx)
			if err != nil {
				return err
			}
			if cmd.Bool("json") {
				return r.writeJSON(playlists)
			}
			for _, pl := range playlists {
				r.writePlain("%s  %s\n", pl.ID, pl.Name)
			}
			return nil
		}
		songs, err := rec.DailySongs(ctx)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(songs)
		}
		for _, s := range songs {
			r.writePlain("%s  %s - %s\n", s.ID, s.Title, platform.JoinArtistNames(s.Artists))
		}
		return nil
	})
}

func (r *runner) cookie(ctx context.Context, cmd *cli.Command) error {
	return r.withPlatform(ctx, cmd, func(ctx context.Context, p platform.Platform) error {
		checker, ok := p.(platform.CookieChecker)
		if !ok {
			return platform.NewUnsupportedError(p.Name(), "cookie check")
		}
		res, err := checker.CheckCookie(ctx)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(res)
		}
		status := "ok"
		if !res.OK {
			status = "invalid"
		}
		return r.writePlain("%s: %s\n", status, res.Message)
	})
}

func (r *runner) writeHeader(_ context.Context, cmd *cli.Command) error {
	cookie := strings.TrimSpace(cmd.String("cookie"))
	path := cmd.String("path")
	if err := ytmusic.WriteHeaderFile(path, strings.TrimSpace(cmd.String("auth")), cookie); err != nil {
		return err
	}
	return r.writePlain("header file written to %s\n", path)
}

func (r *runner) writeProfile(p platform.Profile) {
	marker := " "
	if p.IsSelected {
		marker = "*"
	}
	r.writePlain("%s %s %s %s\n", marker, p.AccountName, p.ChannelHandle, p.GaiaID)
}

func (r *runner) writeJSON(data any) error {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *runner) writePlain(format string, args ...any) error {
	if _, err := fmt.Fprintf(r.output, format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
