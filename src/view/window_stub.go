//go:build !ebiten

package view

import (
	"errors"

	"bitlife/src/host"
)

// ErrNoWindow is returned when the binary was built without the ebiten tag.
var ErrNoWindow = errors.New("the window view requires building with the 'ebiten' tag")

// Window is a placeholder for builds without GUI support.
type Window struct{}

// NewWindow reports that the ebiten build tag is required.
func NewWindow(int, int) (*Window, error) {
	return nil, ErrNoWindow
}

func (w *Window) Register(*host.Session) {}

func (w *Window) Refresh() {}

func (w *Window) Start() error { return ErrNoWindow }
