package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/BuzzLyutic/task-tracker/pkg/taskclient"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // API call failed
	ExitCommandError = 2 // bad flags or arguments
)

// ExitError carries the exit code and the user-facing message.
// Err is the underlying cause, shown only with --verbose.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// GetExitCode returns ExitFailure for errors that are not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// apiFailure hides the kind of failure behind one retry message.
func apiFailure(opts *RootOptions, errW io.Writer, action string, err error) error {
	if opts.Verbose {
		fmt.Fprintf(errW, "error: %v\n", err)
	}
	return &ExitError{
		Code:    ExitFailure,
		Message: fmt.Sprintf("Failed to %s. Please try again.", action),
		Err:     err,
	}
}

type listOutput struct {
	Groups []groupOutput `json:"groups"`
}

type groupOutput struct {
	Status string            `json:"status"`
	Tasks  []taskclient.Task `json:"tasks"`
}

// printTasks renders the full snapshot grouped by status.
func printTasks(w io.Writer, format string, tasks []taskclient.Task) error {
	groups := taskclient.GroupByStatus(tasks)

	if format == "json" {
		out := listOutput{Groups: make([]groupOutput, 0, len(groups))}
		for _, g := range groups {
			items := g.Tasks
			if items == nil {
				items = []taskclient.Task{}
			}
			out.Groups = append(out.Groups, groupOutput{Status: g.Status, Tasks: items})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks found. Add your first task!")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	first := true
	for _, g := range groups {
		if len(g.Tasks) == 0 {
			continue
		}
		if !first {
			fmt.Fprintln(tw)
		}
		first = false
		fmt.Fprintf(tw, "%s (%d)\n", g.Status, len(g.Tasks))
		for _, t := range g.Tasks {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", t.ID, t.Title, t.Description)
		}
	}
	return tw.Flush()
}
