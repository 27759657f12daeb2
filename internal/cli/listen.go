// ABOUTME: listen subcommand: prints audio events from a running demo's event tap
// ABOUTME: Finds the tap over mDNS unless an address is given
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Resonate-Protocol/voicepool-go/internal/discovery"
	"github.com/Resonate-Protocol/voicepool-go/internal/eventtap"
	"github.com/Resonate-Protocol/voicepool-go/internal/version"
)

func newListenCommand() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
		count   int
	)

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Print audio events streamed by a running demo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if addr == "" {
				found, err := findTap(ctx, timeout, logger)
				if err != nil {
					return err
				}
				addr = found
			}
			return listen(ctx, addr, count, cmd.OutOrStdout(), logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Event tap address (default: discover via mDNS)")
	cmd.Flags().DurationVar(&timeout, "timeout", discovery.DefaultBrowseTimeout, "How long to browse for taps")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Exit after this many events (0: run until interrupted)")
	return cmd
}

func findTap(ctx context.Context, timeout time.Duration, logger *slog.Logger) (string, error) {
	mgr := discovery.NewManager(discovery.Config{Logger: logger})
	taps, err := mgr.Browse(ctx, timeout)
	if err != nil {
		return "", err
	}
	if len(taps) == 0 {
		return "", errors.New("no event taps found; pass --addr")
	}
	return taps[0].Addr(), nil
}

func listen(ctx context.Context, addr string, count int, out io.Writer, logger *slog.Logger) error {
	c, err := eventtap.Dial(ctx, addr, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	fmt.Fprintf(out, "listening on %s\n", addr)
	seen := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-c.Events():
			if !ok {
				return errors.New("event tap closed the connection")
			}
			p := msg.Payload
			fmt.Fprintf(out, "%s  %-24s (%.2f, %.2f, %.2f)\n",
				time.UnixMicro(p.Timestamp).Format("15:04:05.000"), p.Name, p.X, p.Y, p.Z)

			seen++
			if count > 0 && seen >= count {
				return nil
			}
		}
	}
}

// advertiseTap publishes a listening tap over mDNS and returns its stop func
func advertiseTap(addr string, logger *slog.Logger) (func(), error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	name := version.Product
	if host, err := os.Hostname(); err == nil {
		name = fmt.Sprintf("%s-%s", version.Product, host)
	}

	mgr := discovery.NewManager(discovery.Config{ServiceName: name, Port: port, Logger: logger})
	if err := mgr.Advertise(); err != nil {
		return nil, err
	}
	return mgr.Stop, nil
}
