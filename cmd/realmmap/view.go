//go:build !headless

package main

import (
	"context"

	"github.com/ChicagoDave/realmmap/internal/viewer"
	"github.com/ChicagoDave/realmmap/pkg/generate"
	"github.com/ChicagoDave/realmmap/pkg/realm"
)

func runView(ctx context.Context, projectPath string, width, height int) error {
	e, err := openEnv(ctx, projectPath)
	if err != nil {
		return err
	}
	defer e.Close()

	m, _, err := e.loadMap(ctx)
	if err != nil {
		return err
	}
	if m, err = e.assignOwners(m); err != nil {
		return err
	}

	var save func(context.Context, *realm.Map) error
	if e.token.CanWrite() {
		save = e.save
	}
	return viewer.Run(viewer.Options{
		Width:     width,
		Height:    height,
		Params:    e.project.Map,
		Publisher: generate.NewPublisher(m),
		Finish:    e.assignOwners,
		Save:      save,
		Logger:    e.log,
	})
}
