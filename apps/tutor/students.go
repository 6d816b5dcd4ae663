package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/trezcool/tuition/core"
	"github.com/trezcool/tuition/core/student"
)

func (cli *commandLine) listStudents(args []string) error {
	cmd := cli.newFlagSet("students list")
	search := cmd.String("search", "", "Only list students whose name contains this term.")
	if err := parse(cmd, args); err != nil {
		return err
	}

	students, err := cli.sess.SearchStudents(*search)
	if err != nil {
		return err
	}
	if len(students) == 0 {
		cli.println("No students yet.")
		return nil
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tGRADE\tSUBJECT\tSCHEDULE\tFEE\tCONTACT")
	for _, std := range students {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			std.ID, std.Name, std.Grade, std.Subject, formatSchedule(std.Schedule), cli.money(std.MonthlyFee), std.Contact)
	}
	return w.Flush()
}

func (cli *commandLine) addStudent(ctx context.Context, args []string) error {
	cmd := cli.newFlagSet("students add")
	name := cmd.String("name", "", "Student name.")
	grade := cmd.String("grade", "", "Grade or class.")
	subject := cmd.String("subject", "", "Subject taught.")
	sched := cmd.String("schedule", "", "Weekly schedule, eg. 'Mon=4-5pm,Wed=5-6pm'.")
	days := cmd.String("days", "", "Comma separated weekdays sharing -time, eg. 'Mon,Wed'.")
	slot := cmd.String("time", "", "Time-slot of every day listed in -days.")
	fee := cmd.String("fee", "", "Monthly fee.")
	contact := cmd.String("contact", "", "Optional contact.")
	if err := parse(cmd, args); err != nil {
		return err
	}
	if *name == "" && *sched == "" && *days == "" {
		cmd.Usage()
		return errHelp
	}

	ns := student.NewStudent{
		Name:    *name,
		Grade:   *grade,
		Subject: *subject,
		Contact: *contact,
	}
	var err error
	if ns.Schedule, err = parseSchedule(*sched, *days, *slot); err != nil {
		return err
	}
	if ns.MonthlyFee, err = parseFee(*fee); err != nil {
		return err
	}

	std, err := cli.sess.AddStudent(ctx, ns)
	if err := cli.warn(err); err != nil {
		return err
	}
	cli.printf("Added %s (id %d).\n", std.Name, std.ID)
	return nil
}

func (cli *commandLine) deleteStudent(ctx context.Context, args []string) error {
	cmd := cli.newFlagSet("students delete")
	ref := cmd.String("student", "", "The student's id or name.")
	yes := cmd.Bool("yes", false, "Do not ask for confirmation.")
	if err := parse(cmd, args); err != nil {
		return err
	}
	if *ref == "" {
		cmd.Usage()
		return errHelp
	}

	std, err := cli.findStudent(*ref)
	if err != nil {
		return err
	}
	if cli.interactive && !*yes {
		ok, err := cli.confirm(fmt.Sprintf("Delete %s (id %d)?", std.Name, std.ID))
		if err != nil {
			return err
		}
		if !ok {
			cli.println("Cancelled.")
			return nil
		}
	}
	if err := cli.warn(cli.sess.DeleteStudent(ctx, std.ID)); err != nil {
		return err
	}
	cli.printf("Deleted %s.\n", std.Name)
	return nil
}

// parseSchedule reads either the per-day form "Mon=4-5pm,Wed=5-6pm" or a list of days sharing one slot.
func parseSchedule(perDay, days, slot string) (student.Schedule, error) {
	sched := make(student.Schedule)
	if perDay = strings.TrimSpace(perDay); perDay != "" {
		for _, part := range strings.Split(perDay, ",") {
			kv := strings.SplitN(part, "=", 2)
			if len(kv) != 2 {
				return nil, core.NewValidationError(nil, core.FieldError{
					Field: "schedule",
					Error: fmt.Sprintf("%q must be of form DAY=TIME", strings.TrimSpace(part)),
				})
			}
			sched[core.Weekday(strings.TrimSpace(kv[0]))] = kv[1]
		}
		return sched, nil
	}
	for _, day := range strings.Split(days, ",") {
		if day = strings.TrimSpace(day); day != "" {
			sched[core.Weekday(day)] = slot
		}
	}
	return sched, nil
}

func formatSchedule(sched student.Schedule) string {
	parts := make([]string, 0, len(sched))
	for _, day := range sched.Days() {
		parts = append(parts, fmt.Sprintf("%s %s", string(day)[:3], sched[day]))
	}
	return strings.Join(parts, ", ")
}
