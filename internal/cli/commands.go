package cli

import (
	"bufio"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <url>",
		Short: "Add a single seed URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := runnerFor(cmd)
			if err != nil {
				return err
			}
			return r.addSeed(cmd.Context(), args[0])
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <url>",
		Short: "Remove a specific seed URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := runnerFor(cmd)
			if err != nil {
				return err
			}
			return r.removeSeed(cmd.Context(), args[0])
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [url]",
		Short: "Check status of all seed URLs or a specific one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := runnerFor(cmd)
			if err != nil {
				return err
			}
			url := ""
			if len(args) == 1 {
				url = args[0]
			}
			return r.status(cmd.Context(), url)
		},
	}
}

func newBulkAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bulk-add <file>",
		Short: "Add seed URLs from a file with one URL per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := runnerFor(cmd)
			if err != nil {
				return err
			}
			return r.bulkAdd(cmd.Context(), args[0])
		},
	}
}

func newDiscoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discover [url]",
		Short: "Find similar companies for pending seeds, or for one seed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := runnerFor(cmd)
			if err != nil {
				return err
			}
			url := ""
			if len(args) == 1 {
				url = args[0]
			}
			return r.discover(cmd.Context(), url)
		},
	}
}

func newLeadsCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List leads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := runnerFor(cmd)
			if err != nil {
				return err
			}
			return r.leads(cmd.Context(), status)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only list leads in this status (new, researched, error)")
	return cmd
}

func newDeleteLeadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-lead <id>",
		Short: "Delete a lead by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := runnerFor(cmd)
			if err != nil {
				return err
			}
			return r.deleteLead(cmd.Context(), args[0])
		},
	}
}

func newErrorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "errors",
		Short: "Show recorded pipeline errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := runnerFor(cmd)
			if err != nil {
				return err
			}
			return r.errors(cmd.Context())
		},
	}
}

func newResearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "research",
		Short: "Research every lead with status new",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := runnerFor(cmd)
			if err != nil {
				return err
			}
			return r.research(cmd.Context())
		},
	}
}

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Store the similarity, completion and contact search API keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := runnerFor(cmd)
			if err != nil {
				return err
			}
			return r.setup(newLineReader(cmd.InOrStdin()))
		},
	}
}

// lineReader reads trimmed-newline lines from an interactive input.
type lineReader struct {
	r *bufio.Reader
}

func newLineReader(in io.Reader) lineReader {
	return lineReader{r: bufio.NewReader(in)}
}

// readLine returns the next line without its terminator. At end of input
// it returns any partial line together with io.EOF.
func (l lineReader) readLine() (string, error) {
	line, err := l.r.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), err
}
