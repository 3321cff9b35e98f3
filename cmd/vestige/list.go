//nolint:wrapcheck
package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/vestige/internal/output"
	"github.com/farcloser/vestige/internal/store"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the names stored in a collection",
		Flags: []cli.Flag{
			databaseFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dbPath, err := databasePath(cmd)
			if err != nil {
				return err
			}

			collection, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer collection.Close()

			names, err := collection.Names(ctx)
			if err != nil {
				return err
			}

			return outputResult(dbPath, output.CollectionToMap(names), cmd.String("format"))
		},
	}
}
