package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mkunit/mkunit/internal/unit"
)

// SocketOptions holds socket command options.
type SocketOptions struct {
	CreateOptions
	Unit           string
	Description    string
	ListenStream   string
	ListenDatagram string
	ListenFIFO     string
	Accept         bool
	MaxConnections uint32
	WantedBy       string
}

// SocketCommand represents the socket unit creation command.
type SocketCommand struct{}

// NewSocketCommand creates a new SocketCommand.
func NewSocketCommand() *SocketCommand {
	return &SocketCommand{}
}

// GetCobraCommand returns the cobra command for creating socket units.
func (c *SocketCommand) GetCobraCommand() *cobra.Command {
	var opts SocketOptions

	socketCmd := &cobra.Command{
		Use:   "socket NAME",
		Short: "Create a socket unit",
		Long: `Create a socket unit for socket activation.

One listener is required. Without one, a stream address is prompted for.`,
		Example: `  mkunit socket web --listen-stream 8080
  mkunit socket app --listen-stream /run/app.sock --accept --max-connections 64`,
		Args: exactArgs(1),
		PreRunE: func(_ *cobra.Command, args []string) error {
			return checkName(args[0])
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			return c.Run(cmd.Context(), app, opts, NewRootDeps(app), args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := socketCmd.Flags()
	f.StringVarP(&opts.Unit, "unit", "u", "", "Service to activate (Service=)")
	f.StringVarP(&opts.Description, "description", "d", "", "Unit description")
	f.StringVar(&opts.ListenStream, "listen-stream", "", "TCP port or stream socket path")
	f.StringVar(&opts.ListenDatagram, "listen-datagram", "", "UDP port or datagram socket path")
	f.StringVar(&opts.ListenFIFO, "listen-fifo", "", "FIFO path")
	f.BoolVar(&opts.Accept, "accept", false, "Spawn one service instance per connection")
	f.Uint32Var(&opts.MaxConnections, "max-connections", 0, "Maximum concurrent connections")
	f.StringVar(&opts.WantedBy, "wanted-by", "sockets.target", "Install target")
	addCreateFlags(socketCmd, &opts.CreateOptions, false)

	return socketCmd
}

// Run executes the socket command with injected dependencies.
func (c *SocketCommand) Run(ctx context.Context, app *App, opts SocketOptions, deps CommonDeps, name string) error {
	if opts.ListenStream == "" && opts.ListenDatagram == "" && opts.ListenFIFO == "" {
		listen, err := app.Prompter.Required("Listen address (e.g., '8080', '/run/myapp.sock')")
		if err != nil {
			return err
		}
		opts.ListenStream = listen
	}

	if err := checkSingleLine(
		"unit", opts.Unit,
		"description", opts.Description,
		"listen-stream", opts.ListenStream,
		"listen-datagram", opts.ListenDatagram,
		"listen-fifo", opts.ListenFIFO,
		"wanted-by", opts.WantedBy,
	); err != nil {
		return err
	}

	rec := unit.NewSocketRecord(name)
	if opts.Description != "" {
		rec.Description = opts.Description
	}
	if opts.Unit != "" {
		rec.Unit = serviceName(opts.Unit)
	}
	rec.ListenStream = opts.ListenStream
	rec.ListenDatagram = opts.ListenDatagram
	rec.ListenFIFO = opts.ListenFIFO
	rec.Accept = opts.Accept
	rec.MaxConnections = opts.MaxConnections
	rec.WantedBy = opts.WantedBy

	deps.Logger.Debug("Creating socket unit", "name", name)
	return createUnit(ctx, app, unitRequest{Name: name, Kind: unit.Socket, Record: rec}, opts.CreateOptions)
}
