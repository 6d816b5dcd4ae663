package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/term"

	"github.com/trezcool/tuition/core"
	"github.com/trezcool/tuition/core/session"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	sess *session.Session
	conf *core.Config
	in   *bufio.Reader
	out  io.Writer

	interactive bool // confirm destructive commands
}

func newCommandLine(sess *session.Session, conf *core.Config, in io.Reader, out io.Writer) *commandLine {
	return &commandLine{sess: sess, conf: conf, in: bufio.NewReader(in), out: out}
}

func (cli *commandLine) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cli.out, format, args...)
}

func (cli *commandLine) println(args ...interface{}) {
	_, _ = fmt.Fprintln(cli.out, args...)
}

func (cli *commandLine) printUsage() {
	cli.println("Usage:")
	cli.println("  dashboard [-date DATE]                                  - today's overview")
	cli.println("  students list [-search TERM]                            - list students")
	cli.println("  students add -name NAME -grade GRADE -subject SUBJECT -fee FEE")
	cli.println("               (-schedule 'Mon=4-5pm,Wed=5-6pm' | -days Mon,Wed -time 4-5pm) [-contact CONTACT]")
	cli.println("  students delete -student ID|NAME [-yes]                 - delete a student")
	cli.println("  schedule [-date DATE | -day WEEKDAY]                    - classes of a date or weekday")
	cli.println("  attendance mark -student ID|NAME -status present|absent [-date DATE]")
	cli.println("  attendance show [-date DATE]                            - attendance of a date's classes")
	cli.println("  attendance report -from DATE -to DATE                   - records and summary over a range")
	cli.println("  reschedule add -student ID|NAME -from DATE -to DATE [-time SLOT] [-reason REASON]")
	cli.println("  reschedule list [-date DATE] [-student ID|NAME]         - active reschedules")
	cli.println("  fees status [-month M] [-year Y] [-search TERM]         - payment status of a month")
	cli.println("  fees pay -student ID|NAME [-month M] [-year Y]          - record a payment")
	cli.println("  fees report                                             - every payment received")
	cli.println("  shell                                                   - interactive prompt")
	cli.println("DATE is YYYY-MM-DD and defaults to today.")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

// parse turns flag.ErrHelp and parsing failures into errHelp; the flag package already printed why.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errHelp
	}
	return nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	return cli.dispatch(context.Background(), args[1], args[2:])
}

func (cli *commandLine) dispatch(ctx context.Context, cmd string, args []string) error {
	sub := func() (string, []string) {
		if len(args) == 0 {
			return "", nil
		}
		return args[0], args[1:]
	}

	switch cmd {
	case "dashboard":
		return cli.dashboard(args)
	case "students":
		switch name, rest := sub(); name {
		case "list":
			return cli.listStudents(rest)
		case "add":
			return cli.addStudent(ctx, rest)
		case "delete":
			return cli.deleteStudent(ctx, rest)
		}
	case "schedule":
		return cli.schedule(args)
	case "attendance":
		switch name, rest := sub(); name {
		case "mark":
			return cli.markAttendance(ctx, rest)
		case "show":
			return cli.showAttendance(rest)
		case "report":
			return cli.attendanceReport(rest)
		}
	case "reschedule":
		switch name, rest := sub(); name {
		case "add":
			return cli.addReschedule(ctx, rest)
		case "list":
			return cli.listReschedules(rest)
		}
	case "fees":
		switch name, rest := sub(); name {
		case "status":
			return cli.feeStatus(rest)
		case "pay":
			return cli.payFee(ctx, rest)
		case "report":
			return cli.feeReport(rest)
		}
	case "shell":
		return cli.shell(ctx)
	}
	cli.printUsage()
	return errHelp
}

// warn prints persistence warnings and swallows them; other errors are returned.
func (cli *commandLine) warn(err error) error {
	if err != nil && core.IsSaveWarning(err) {
		cli.printf("warning: %v\n", err)
		return nil
	}
	return err
}

// confirm asks a yes/no question, defaulting to no.
func (cli *commandLine) confirm(question string) (bool, error) {
	cli.printf("%s [y/N]: ", question)
	line, err := cli.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch core.CleanString(line, true /* lower */) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (cli *commandLine) today() core.Date {
	return core.Today(cli.conf.Location)
}

// dateOr parses s, defaulting to today when blank.
func (cli *commandLine) dateOr(s string) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		return cli.today(), nil
	}
	return core.ParseDate(s)
}

// periodOr fills unset month/year from today.
func (cli *commandLine) periodOr(month, year int) core.Period {
	p := core.PeriodOf(cli.today())
	if month != 0 {
		p.Month = month
	}
	if year != 0 {
		p.Year = year
	}
	return p
}

func (cli *commandLine) money(d decimal.Decimal) string {
	return cli.conf.Currency + d.StringFixed(2)
}

func parseFee(s string) (decimal.Decimal, error) {
	fee, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, core.NewValidationError(nil, core.FieldError{Field: "monthly_fee", Error: "monthly_fee must be a number"})
	}
	return fee, nil
}
