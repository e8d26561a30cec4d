// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"

	"github.com/urfave/cli"

	"github.com/gogpu/request/journal"
)

func inspectCmd() cli.Command {
	return cli.Command{
		Name:      "inspect",
		Usage:     "Print journaled requests as YAML",
		UsageText: "rq inspect [-j FILE] [-b N]",
		Flags:     journalFlags(),
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			ctx := context.Background()
			log, err := e.load(ctx, e.journalPath(c), c.Int64("batch"))
			if err != nil {
				return err
			}
			e.printer.Fprintf(e.out, "# %d requests\n", len(log))
			return journal.Dump(e.out, log)
		},
	}
}
