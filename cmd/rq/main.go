// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command rq records, submits, stores and replays rendering requests.
//
//	rq board -o triangle.png          draw a demo board and export it
//	rq replay -j requests.db          replay a journal and export its boards
//	rq inspect -j requests.db         print journaled requests as YAML
//	rq backends                       list registered backends
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/request"
	_ "github.com/gogpu/request/backends/null"
	_ "github.com/gogpu/request/backends/raster"
	"github.com/gogpu/request/config"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "rq:", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "rq"
	app.Version = fmt.Sprintf("format v%d", request.Version)
	app.Usage = "record and replay rendering requests"
	app.UsageText = "rq [options] command [command options] [arguments...]"
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load configuration from `FILE`",
		},
		cli.BoolFlag{
			Name:  "debug, d",
			Usage: "log at debug level",
		},
	}
	app.Commands = []cli.Command{
		boardCmd(),
		replayCmd(),
		inspectCmd(),
		backendsCmd(),
	}
	return app
}

// env is the state shared by commands: configuration, logger and output.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	out     io.Writer
	printer *message.Printer
}

func setup(c *cli.Context) (*env, error) {
	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		return nil, err
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	if c.GlobalBool("debug") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level}))

	return &env{
		cfg:     cfg,
		logger:  logger,
		out:     c.App.Writer,
		printer: message.NewPrinter(language.English),
	}, nil
}

// journalPath returns the --journal flag, falling back to the configured
// journal.
func (e *env) journalPath(c *cli.Context) string {
	if p := c.String("journal"); p != "" {
		return p
	}
	return e.cfg.Journal
}

func backendsCmd() cli.Command {
	return cli.Command{
		Name:      "backends",
		Usage:     "List registered backends",
		UsageText: "rq backends",
		Action: func(c *cli.Context) error {
			for _, name := range request.Backends() {
				fmt.Fprintln(c.App.Writer, name)
			}
			return nil
		},
	}
}
