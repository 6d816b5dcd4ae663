package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/trezcool/tuition/core"
	"github.com/trezcool/tuition/core/attendance"
)

func (cli *commandLine) markAttendance(ctx context.Context, args []string) error {
	cmd := cli.newFlagSet("attendance mark")
	ref := cmd.String("student", "", "The student's id or name.")
	date := cmd.String("date", "", "Date of the class. Defaults to today.")
	status := cmd.String("status", "", "present or absent.")
	if err := parse(cmd, args); err != nil {
		return err
	}
	if *ref == "" || *status == "" {
		cmd.Usage()
		return errHelp
	}

	st, err := attendance.ParseStatus(*status)
	if err != nil {
		return err
	}
	d, err := cli.dateOr(*date)
	if err != nil {
		return err
	}
	std, err := cli.findStudent(*ref)
	if err != nil {
		return err
	}

	rec, err := cli.sess.SetAttendance(ctx, std.ID, d, st)
	if err := cli.warn(err); err != nil {
		return err
	}
	cli.printf("Marked %s %s on %s.\n", rec.StudentName, rec.Status, rec.Date.Long())
	return nil
}

func (cli *commandLine) showAttendance(args []string) error {
	cmd := cli.newFlagSet("attendance show")
	date := cmd.String("date", "", "Date to show. Defaults to today.")
	if err := parse(cmd, args); err != nil {
		return err
	}
	d, err := cli.dateOr(*date)
	if err != nil {
		return err
	}

	entries, err := cli.sess.ScheduleForDate(d)
	if err != nil {
		return err
	}
	cli.printf("Attendance for %s, %s:\n", d.Weekday(), d.Long())
	return cli.printEntries(entries, d)
}

func (cli *commandLine) attendanceReport(args []string) error {
	cmd := cli.newFlagSet("attendance report")
	from := cmd.String("from", "", "First date of the range.")
	to := cmd.String("to", "", "Last date of the range. Defaults to today.")
	if err := parse(cmd, args); err != nil {
		return err
	}
	if *from == "" {
		cmd.Usage()
		return errHelp
	}

	fromDate, err := core.ParseDate(*from)
	if err != nil {
		return err
	}
	toDate, err := cli.dateOr(*to)
	if err != nil {
		return err
	}

	recs, sum, err := cli.sess.AttendanceReport(fromDate, toDate)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		cli.println("No attendance records in this range.")
		return nil
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DATE\tSTUDENT\tSTATUS")
	for _, r := range recs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", r.Date, r.StudentName, r.Status)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	cli.printf("\nPresent: %d  Absent: %d  Total: %d\n", sum.Present, sum.Absent, sum.Total())
	return nil
}
