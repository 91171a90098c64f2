package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BuzzLyutic/task-tracker/pkg/taskclient"
)

const defaultServer = "http://localhost:5000/api"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Server  string
	Format  string // "text" | "json"
	Verbose bool
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the taskctl root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	server := os.Getenv("TASKCTL_SERVER")
	if server == "" {
		server = defaultServer
	}

	cmd := &cobra.Command{
		Use:           "taskctl",
		Short:         "Manage tasks grouped by status",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range ValidFormats {
				if f == opts.Format {
					return nil
				}
			}
			return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Server, "server", server, "API base URL (env TASKCTL_SERVER)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "print error details to stderr")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))

	return cmd
}

func (o *RootOptions) client() *taskclient.Client {
	return taskclient.New(o.Server)
}
