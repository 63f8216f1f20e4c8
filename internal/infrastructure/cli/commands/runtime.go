package commands

import (
	"context"
	"sync"

	"github.com/doeshing/firewatch/internal/app"
)

// Runtime builds the container on first use so that flags parsed by cobra
// (config path, verbosity) are honoured and commands like version never
// touch the config file.
type Runtime struct {
	Options app.Options

	once      sync.Once
	container *app.Container
	err       error
}

// Container returns the shared container, building it once.
func (r *Runtime) Container(ctx context.Context) (*app.Container, error) {
	r.once.Do(func() {
		r.container, r.err = app.BuildContainer(ctx, r.Options)
	})
	return r.container, r.err
}

// Close releases the container if one was built.
func (r *Runtime) Close() error {
	if r.container == nil {
		return nil
	}
	return r.container.Close()
}
