// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/gogpu/request"
	"github.com/gogpu/request/backends/raster"
	"github.com/gogpu/request/journal"
)

var errNoJournal = errors.New("no journal: pass --journal or set journal in the config")

func journalFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{Name: "journal, j", Usage: "read journal `FILE`"},
		cli.Int64Flag{Name: "batch, b", Usage: "use only batch `N` (default: all)"},
	}
}

// load reads one batch, or every batch when batch is 0.
func (e *env) load(ctx context.Context, path string, batch int64) (request.RequestLog, error) {
	if path == "" {
		return nil, errNoJournal
	}
	// Opening would create a missing database.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	j, err := journal.Open(path)
	if err != nil {
		return nil, err
	}
	defer j.Close()
	j.SetLogger(e.logger)

	if batch != 0 {
		return j.Load(ctx, batch)
	}
	return j.LoadAll(ctx)
}

func replayCmd() cli.Command {
	return cli.Command{
		Name:      "replay",
		Usage:     "Replay journaled requests and export the resulting boards",
		UsageText: "rq replay [-j FILE] [-b N] [-o FILE]",
		Flags: append(journalFlags(),
			cli.StringFlag{Name: "output, o", Usage: "write boards to `FILE`"},
		),
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			output := c.String("output")
			if output == "" {
				output = e.cfg.Output
			}
			return e.replay(context.Background(), e.journalPath(c), c.Int64("batch"), output)
		},
	}
}

func (e *env) replay(ctx context.Context, path string, batch int64, output string) error {
	log, err := e.load(ctx, path, batch)
	if err != nil {
		return err
	}

	r, err := request.Open(e.cfg.Backend, request.WithLogger(e.logger))
	if err != nil {
		return err
	}
	defer r.Close()

	if err := r.Replay(log); err != nil {
		return err
	}
	res, err := r.Submit(ctx)
	if err != nil {
		return err
	}
	e.printer.Fprintf(e.out, "replayed %d requests on %s\n", len(res.Outcomes), e.cfg.Backend)

	var boards []request.ID
	if rb, ok := r.Backend().(*raster.Backend); ok {
		boards = rb.Boards()
	}
	return e.export(r.Backend(), boards, output)
}
