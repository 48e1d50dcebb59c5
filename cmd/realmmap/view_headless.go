//go:build headless

package main

import (
	"context"
	"errors"
)

func runView(context.Context, string, int, int) error {
	return errors.New("realmmap was built without the viewer (headless tag)")
}
