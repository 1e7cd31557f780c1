// Package cli holds the cobra commands behind cmd/loancli.
//
// validate and submit take the five loan inputs as flags, in the same text form
// the browser sends (“R$ 10.000,00”, “1,5 %”, “2024-01-31”), and run them
// through the same Fields → Controller path as the web form.  User
// notifications go to stderr; the schedule goes to stdout as JSON.  recent
// lists the latest rows of the submission audit log.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yanizio/loanform/internal/audit"
	"github.com/yanizio/loanform/internal/form"
	"github.com/yanizio/loanform/internal/loan"
	"github.com/yanizio/loanform/internal/notify"
	"github.com/yanizio/loanform/internal/summary"
)

// ErrRejected is returned when the request fails validation or the service
// is unavailable.  The user-facing reason has already been printed.
var ErrRejected = errors.New("request rejected")

// ClientFactory builds the summary client for submit.  The returned func
// releases it.
type ClientFactory func(ctx context.Context) (summary.Client, func(), error)

// History reads the submission audit log.
type History interface {
	Recent(ctx context.Context, limit int) ([]audit.Submission, error)
}

// HistoryFactory opens the audit log for recent.
type HistoryFactory func(ctx context.Context) (History, func(), error)

// Options wires the root command.
type Options struct {
	Out     io.Writer
	Err     io.Writer
	Clients ClientFactory
	History HistoryFactory
	Timeout time.Duration // per command; zero means 60s
}

// NewRoot returns `loancli` with its subcommands.
func NewRoot(opts Options) *cobra.Command {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	root := &cobra.Command{
		Use:           "loancli",
		Short:         "Validate loan parameters and fetch amortization schedules",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)
	root.AddCommand(newValidateCmd(opts), newSubmitCmd(opts), newRecentCmd(opts))
	return root
}

// inputs are the five flags shared by both commands.
type inputs struct {
	values map[string]*string
}

func bindInputs(cmd *cobra.Command) *inputs {
	in := &inputs{values: make(map[string]*string, len(form.FieldNames))}
	help := map[string]string{
		form.FieldInitialDate:      "loan start date (YYYY-MM-DD)",
		form.FieldFinalDate:        "loan end date (YYYY-MM-DD)",
		form.FieldFirstPaymentDate: "first installment date (YYYY-MM-DD)",
		form.FieldLoanAmount:       `principal, e.g. "R$ 10.000,00" or 10000`,
		form.FieldInterestRate:     `rate, e.g. "1,5 %" or 1.5`,
	}
	for _, name := range form.FieldNames {
		in.values[name] = cmd.Flags().String(name, "", help[name])
	}
	return in
}

// fields applies only the flags the user set, so an omitted flag is missing
// while an explicit empty numeric flag reads as 0.
func (in *inputs) fields(cmd *cobra.Command) (*form.Fields, error) {
	f := &form.Fields{}
	for _, name := range form.FieldNames {
		if !cmd.Flags().Changed(name) {
			continue
		}
		if err := f.Set(name, *in.values[name]); err != nil {
			return nil, err
		}
	}
	return f, nil
}

/*──────────────────────────────── validate ─────────────────────────────────*/

func newValidateCmd(opts Options) *cobra.Command {
	var in *inputs
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check loan parameters without calling the summary service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := in.fields(cmd)
			if err != nil {
				return err
			}
			out := loan.Validate(f.Candidate())
			if !out.Valid {
				w := notify.NewWriter(cmd.ErrOrStderr())
				for _, m := range out.Messages {
					w.Notify(m)
				}
				return ErrRejected
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	in = bindInputs(cmd)
	return cmd
}

/*──────────────────────────────── submit ──────────────────────────────────*/

func newSubmitCmd(opts Options) *cobra.Command {
	var in *inputs
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Validate loan parameters and print the schedule as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := in.fields(cmd)
			if err != nil {
				return err
			}
			if opts.Clients == nil {
				return errors.New("no summary client configured")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			client, release, err := opts.Clients(ctx)
			if err != nil {
				return err
			}
			defer release()

			state := &summary.State{}
			ctl := form.NewController(client, state.Setter(), notify.NewWriter(cmd.ErrOrStderr()), nil)
			res := ctl.Submit(ctx, f.Candidate())
			if !res.Committed || res.Err != nil || !res.Outcome.Valid {
				return ErrRejected
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(state.Get())
		},
	}
	in = bindInputs(cmd)
	return cmd
}

/*──────────────────────────────── recent ──────────────────────────────────*/

func newRecentCmd(opts Options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the latest submissions from the audit log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.History == nil {
				return errors.New("no audit log configured")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			hist, release, err := opts.History(ctx)
			if err != nil {
				return err
			}
			defer release()

			rows, err := hist.Recent(ctx, limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SUBMITTED\tOUTCOME\tENTRIES\tCLIENT\tCOUNTRY\tMESSAGES")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
					r.SubmittedAt.UTC().Format(time.RFC3339), r.Outcome, r.Entries,
					dash(r.Client), dash(r.Country), dash(strings.Join(r.Messages, "; ")))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "rows to show")
	return cmd
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
