// Package daemon reserves the network surface of rcopy. Resolving the
// listen address works; serving does not exist yet.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/shaladdle/rcopy/internal/copyerr"
)

// DefaultListen is the address used when none is given.
const DefaultListen = "localhost:9000"

// Daemon is a copy server bound to a resolved TCP address.
type Daemon struct {
	addr   *net.TCPAddr
	logger *slog.Logger
}

// New resolves hostport as a TCP address. Nothing is bound.
func New(hostport string, logger *slog.Logger) (*Daemon, error) {
	if logger == nil {
		logger = slog.Default()
	}
	addr, err := net.ResolveTCPAddr("tcp", hostport)
	if err != nil {
		return nil, fmt.Errorf("resolve listen address %q: %w", hostport, err)
	}
	return &Daemon{addr: addr, logger: logger.With("listen", addr.String())}, nil
}

// Addr returns the resolved listen address.
func (d *Daemon) Addr() *net.TCPAddr { return d.addr }

// Serve always fails with a NotImplemented error.
func (d *Daemon) Serve(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.logger.Debug("daemon requested")
	return copyerr.Unimplemented("daemon serve")
}
