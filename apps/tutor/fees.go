package main

import (
	"context"
	"fmt"
	"text/tabwriter"
)

func (cli *commandLine) feeStatus(args []string) error {
	cmd := cli.newFlagSet("fees status")
	month := cmd.Int("month", 0, "Month (1-12). Defaults to the current month.")
	year := cmd.Int("year", 0, "Year. Defaults to the current year.")
	search := cmd.String("search", "", "Only students whose name contains this term.")
	if err := parse(cmd, args); err != nil {
		return err
	}
	p := cli.periodOr(*month, *year)

	totals, err := cli.sess.FeeTotals(p)
	if err != nil {
		return err
	}
	statuses, err := cli.sess.FeeStatuses(p, *search)
	if err != nil {
		return err
	}

	cli.printf("Fees for %s\n", p)
	cli.printf("Expected: %s  Received: %s  Pending: %s\n\n",
		cli.money(totals.Expected), cli.money(totals.Received), cli.money(totals.Pending))
	if len(statuses) == 0 {
		cli.println("No students found.")
		return nil
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tFEE\tSTATUS")
	for _, st := range statuses {
		status := "pending"
		if st.Paid {
			status = "paid"
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", st.Student.ID, st.Student.Name, cli.money(st.Student.MonthlyFee), status)
	}
	return w.Flush()
}

func (cli *commandLine) payFee(ctx context.Context, args []string) error {
	cmd := cli.newFlagSet("fees pay")
	ref := cmd.String("student", "", "The student's id or name.")
	month := cmd.Int("month", 0, "Month (1-12). Defaults to the current month.")
	year := cmd.Int("year", 0, "Year. Defaults to the current year.")
	if err := parse(cmd, args); err != nil {
		return err
	}
	if *ref == "" {
		cmd.Usage()
		return errHelp
	}
	p := cli.periodOr(*month, *year)

	std, err := cli.findStudent(*ref)
	if err != nil {
		return err
	}
	if cli.sess.IsPaid(std, p) && cli.interactive {
		ok, err := cli.confirm(fmt.Sprintf("%s already paid for %s. Record another payment?", std.Name, p))
		if err != nil {
			return err
		}
		if !ok {
			cli.println("Cancelled.")
			return nil
		}
	}

	std, err = cli.sess.MarkPaid(ctx, std.ID, p)
	if err := cli.warn(err); err != nil {
		return err
	}
	cli.printf("Recorded %s from %s for %s.\n", cli.money(std.MonthlyFee), std.Name, p)
	return nil
}

func (cli *commandLine) feeReport(args []string) error {
	cmd := cli.newFlagSet("fees report")
	if err := parse(cmd, args); err != nil {
		return err
	}

	rep, err := cli.sess.FeeReport()
	if err != nil {
		return err
	}
	if len(rep.Rows) == 0 {
		cli.println("No payments recorded yet.")
		return nil
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STUDENT\tMONTH\tYEAR\tAMOUNT\tPAID ON")
	for _, r := range rep.Rows {
		paidOn := ""
		if !r.Date.IsZero() {
			paidOn = r.Date.Format("2006-01-02")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", r.StudentName, r.Month, r.Year, cli.money(r.Amount), paidOn)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	cli.printf("\nTotal collected: %s\n", cli.money(rep.Total))
	return nil
}
