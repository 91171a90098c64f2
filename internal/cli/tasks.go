package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/BuzzLyutic/task-tracker/pkg/taskclient"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all tasks grouped by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return refresh(cmd, rootOpts)
		},
	}
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	var description, status string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return NewExitError(ExitCommandError, "Title is required")
			}

			_, err := rootOpts.client().Create(cmd.Context(), taskclient.CreateInput{
				Title:       title,
				Description: description,
				Status:      status,
			})
			if err != nil {
				return apiFailure(rootOpts, cmd.ErrOrStderr(), "create task", err)
			}
			return refresh(cmd, rootOpts)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	cmd.Flags().StringVarP(&status, "status", "s", "", "initial status (Pending|In Progress|Completed)")
	return cmd
}

// NewEditCommand creates the edit command. Only flags that were set are sent.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	var title, description, status string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change title, description or status of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in taskclient.UpdateInput
			flags := cmd.Flags()
			if flags.Changed("title") {
				in.Title = &title
			}
			if flags.Changed("description") {
				in.Description = &description
			}
			if flags.Changed("status") {
				in.Status = &status
			}
			if in.Title == nil && in.Description == nil && in.Status == nil {
				return NewExitError(ExitCommandError, "nothing to update: pass --title, --description or --status")
			}

			if _, err := rootOpts.client().Update(cmd.Context(), args[0], in); err != nil {
				return apiFailure(rootOpts, cmd.ErrOrStderr(), "update task", err)
			}
			return refresh(cmd, rootOpts)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVarP(&status, "status", "s", "", "new status (Pending|In Progress|Completed)")
	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task permanently",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rootOpts.client().Delete(cmd.Context(), args[0]); err != nil {
				return apiFailure(rootOpts, cmd.ErrOrStderr(), "delete task", err)
			}
			return refresh(cmd, rootOpts)
		},
	}
}

// refresh always prints the server's full snapshot.
func refresh(cmd *cobra.Command, rootOpts *RootOptions) error {
	tasks, err := rootOpts.client().List(cmd.Context())
	if err != nil {
		return apiFailure(rootOpts, cmd.ErrOrStderr(), "load tasks", err)
	}
	return printTasks(cmd.OutOrStdout(), rootOpts.Format, tasks)
}
