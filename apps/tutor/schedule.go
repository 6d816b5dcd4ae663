package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/trezcool/tuition/core"
	"github.com/trezcool/tuition/core/reschedule"
	"github.com/trezcool/tuition/core/schedule"
)

func (cli *commandLine) dashboard(args []string) error {
	cmd := cli.newFlagSet("dashboard")
	date := cmd.String("date", "", "Day to show. Defaults to today.")
	if err := parse(cmd, args); err != nil {
		return err
	}
	today, err := cli.dateOr(*date)
	if err != nil {
		return err
	}

	dash, err := cli.sess.Dashboard(today)
	if err != nil {
		return err
	}
	cli.printf("%s - %s, %s\n\n", cli.conf.AppName, today.Weekday(), today.Long())
	cli.printf("Total students:   %d\n", dash.TotalStudents)
	cli.printf("Fees received:    %s (%s)\n", cli.money(dash.Received), core.PeriodOf(today))
	cli.printf("Fees pending:     %s\n\n", cli.money(dash.Pending))
	cli.println("Today's classes:")
	return cli.printEntries(dash.Today, today)
}

func (cli *commandLine) schedule(args []string) error {
	cmd := cli.newFlagSet("schedule")
	date := cmd.String("date", "", "Date to resolve, including reschedules. Defaults to today.")
	day := cmd.String("day", "", "Weekday to list regular classes of, eg. Tue.")
	if err := parse(cmd, args); err != nil {
		return err
	}

	if *day != "" {
		wd, err := core.ParseWeekday(*day)
		if err != nil {
			return err
		}
		entries, err := cli.sess.ScheduleForWeekday(wd)
		if err != nil {
			return err
		}
		cli.printf("Every %s:\n", wd)
		return cli.printEntries(entries, core.Date{})
	}

	d, err := cli.dateOr(*date)
	if err != nil {
		return err
	}
	entries, err := cli.sess.ScheduleForDate(d)
	if err != nil {
		return err
	}
	cli.printf("%s, %s:\n", d.Weekday(), d.Long())
	return cli.printEntries(entries, d)
}

// printEntries lists entries with their attendance on date, unless date is zero.
func (cli *commandLine) printEntries(entries []schedule.Entry, date core.Date) error {
	if len(entries) == 0 {
		cli.println("  No classes scheduled.")
		return nil
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		note := ""
		if e.Reschedule != nil {
			note = fmt.Sprintf("rescheduled from %s", e.Reschedule.OriginalDate)
		}
		status := ""
		if !date.IsZero() {
			status = string(cli.sess.AttendanceStatus(e.Student.ID, date))
		}
		_, _ = fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%s\t%s\n", e.Student.ID, e.Student.Name, e.Student.Subject, e.Time, status, note)
	}
	return w.Flush()
}

func (cli *commandLine) addReschedule(ctx context.Context, args []string) error {
	cmd := cli.newFlagSet("reschedule add")
	ref := cmd.String("student", "", "The student's id or name.")
	from := cmd.String("from", "", "Date of the class being moved.")
	to := cmd.String("to", "", "Date the class is moved to.")
	slot := cmd.String("time", "", "New time-slot. Defaults to the regular slot of the original day.")
	reason := cmd.String("reason", "", "Optional reason.")
	if err := parse(cmd, args); err != nil {
		return err
	}
	if *ref == "" || *from == "" || *to == "" {
		cmd.Usage()
		return errHelp
	}

	std, err := cli.findStudent(*ref)
	if err != nil {
		return err
	}
	nr := reschedule.NewReschedule{StudentID: std.ID, NewTime: *slot, Reason: *reason}
	if nr.OriginalDate, err = core.ParseDate(*from); err != nil {
		return err
	}
	if nr.NewDate, err = core.ParseDate(*to); err != nil {
		return err
	}

	res, err := cli.sess.CreateReschedule(ctx, nr)
	if err := cli.warn(err); err != nil {
		return err
	}
	slotText := res.NewTime
	if slotText == "" {
		slotText = "no time set"
	}
	cli.printf("Moved %s's class of %s to %s (%s).\n", res.StudentName, res.OriginalDate.Long(), res.NewDate.Long(), slotText)
	return nil
}

func (cli *commandLine) listReschedules(args []string) error {
	cmd := cli.newFlagSet("reschedule list")
	date := cmd.String("date", "", "Only reschedules onto this date.")
	ref := cmd.String("student", "", "Only reschedules of this student.")
	if err := parse(cmd, args); err != nil {
		return err
	}

	filter := reschedule.QueryFilter{}
	if *date != "" {
		d, err := core.ParseDate(*date)
		if err != nil {
			return err
		}
		filter.NewDate = d
	}
	if *ref != "" {
		std, err := cli.findStudent(*ref)
		if err != nil {
			return err
		}
		filter.StudentID = std.ID
	}

	list, err := cli.sess.Reschedules(filter)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		cli.println("No reschedules.")
		return nil
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSTUDENT\tFROM\tTO\tTIME\tREASON\tSTATUS")
	for _, r := range list {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.StudentName, r.OriginalDate, r.NewDate, r.NewTime, r.Reason, r.Status)
	}
	return w.Flush()
}
