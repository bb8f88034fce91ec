package main

import (
	"context"
	"io"
	"topfived/internal/di"
	"topfived/internal/services"
	"topfived/internal/structures"

	json "github.com/goccy/go-json"
)

func runServe(flags *structures.CliFlags) error {
	app, cleanup, err := di.InitApp(flags)
	if err != nil {
		return err
	}
	defer cleanup()
	return app.Run()
}

func runScore(ctx context.Context, out io.Writer, flags *structures.CliFlags, sort, tag string) error {
	mode, err := services.ParseSortMode(sort)
	if err != nil {
		return err
	}

	ranking, cleanup, err := di.InitRanking(flags)
	if err != nil {
		return err
	}
	defer cleanup()

	views, err := ranking.Lists(ctx, mode, tag)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(views)
}
