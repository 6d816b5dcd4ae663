package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tuition/core"
	"github.com/trezcool/tuition/core/attendance"
	"github.com/trezcool/tuition/core/reschedule"
	"github.com/trezcool/tuition/core/student"
	"github.com/trezcool/tuition/storage/blob"
	"github.com/trezcool/tuition/tests"
)

var testConf = &core.Config{AppName: "Tuition", Currency: "Rs", Location: time.UTC}

func setup(t *testing.T, input string) (*commandLine, *bytes.Buffer) {
	sess := testutil.NewSession(t, nil)
	out := new(bytes.Buffer)
	isTerminalFunc = func(fd int) bool { return false }
	core.NowFunc = func() time.Time { return time.Date(2024, 6, 4, 10, 0, 0, 0, time.UTC) } // a Tuesday
	t.Cleanup(func() { core.NowFunc = time.Now })
	return newCommandLine(sess, testConf, strings.NewReader(input), out), out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    string
}

func runTests(t *testing.T, cli *commandLine, out *bytes.Buffer, tests []cliTest) {
	for _, tt := range tests {
		args := append([]string{"tutor"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				if assert.Error(t, err) {
					assert.Contains(t, err.Error(), tt.wantErrStr)
				}
			default:
				assert.NoError(t, err)
			}
			if tt.wantOut != "" {
				assert.Contains(t, out.String(), tt.wantOut)
			}
		})
	}
}

func Test_commandLine_students(t *testing.T) {
	cli, out := setup(t, "")

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "students: no subcommand", args: []string{"students"}, wantErr: errHelp},
		{name: "list: empty", args: []string{"students", "list"}, wantOut: "No students yet."},
		{name: "add: no args", args: []string{"students", "add"}, wantErr: errHelp},
		{name: "add: bad flag", args: []string{"students", "add", "-lol"}, wantErr: errHelp},
		{
			name:       "add: bad fee",
			args:       []string{"students", "add", "-name", "Asha", "-days", "Tue", "-time", "5-6pm", "-fee", "lol"},
			wantErrStr: "monthly_fee must be a number",
		},
		{
			name:       "add: missing fields",
			args:       []string{"students", "add", "-name", "Asha", "-days", "Tue", "-time", "5-6pm", "-fee", "1000"},
			wantErrStr: "grade: this field cannot be blank",
		},
		{
			name:       "add: malformed schedule",
			args:       []string{"students", "add", "-name", "Asha", "-schedule", "Tue"},
			wantErrStr: "must be of form DAY=TIME",
		},
		{
			name: "add: legacy days",
			args: []string{"students", "add", "-name", "Asha", "-grade", "8", "-subject", "Maths",
				"-days", "Tue", "-time", "5-6pm", "-fee", "1000"},
			wantOut: "Added Asha (id 1).",
		},
		{
			name: "add: per-day schedule",
			args: []string{"students", "add", "-name", "Ravi", "-grade", "9", "-subject", "Physics",
				"-schedule", "mon=4-5pm,Thursday=6-7pm", "-fee", "1500.50"},
			wantOut: "Added Ravi (id 2).",
		},
		{name: "list", args: []string{"students", "list"}, wantOut: "Mon 4-5pm, Thu 6-7pm"},
		{name: "list: search", args: []string{"students", "list", "-search", "ash"}, wantOut: "Asha"},
		{name: "delete: no args", args: []string{"students", "delete"}, wantErr: errHelp},
		{name: "delete: unknown id", args: []string{"students", "delete", "-student", "42"}, wantErrStr: "student 42 not found"},
		{name: "delete: suggestion", args: []string{"students", "delete", "-student", "Rav1"}, wantErrStr: `did you mean "Ravi"`},
		{name: "delete: by name", args: []string{"students", "delete", "-student", "ravi"}, wantOut: "Deleted Ravi."},
	}
	runTests(t, cli, out, tests)

	students, err := cli.sess.ListStudents()
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Asha", students[0].Name)
	assert.Equal(t, student.Schedule{core.Tuesday: "5-6pm"}, students[0].Schedule)
}

func Test_commandLine_schedule(t *testing.T) {
	cli, out := setup(t, "")
	asha := testutil.CreateStudent(t, cli.sess, "Asha", student.Schedule{core.Tuesday: "5-6pm"}, 1000)

	tests := []cliTest{
		{name: "today", args: []string{"schedule"}, wantOut: "Asha"},
		{name: "weekday", args: []string{"schedule", "-day", "tue"}, wantOut: "5-6pm"},
		{name: "bad weekday", args: []string{"schedule", "-day", "lol"}, wantErrStr: `invalid weekday "lol"`},
		{name: "bad date", args: []string{"schedule", "-date", "2024-13-01"}, wantErrStr: "expected YYYY-MM-DD"},
		{name: "reschedule: no args", args: []string{"reschedule", "add"}, wantErr: errHelp},
		{
			name:    "reschedule: add",
			args:    []string{"reschedule", "add", "-student", "Asha", "-from", "2024-06-04", "-to", "2024-06-05"},
			wantOut: "(5-6pm)",
		},
		{name: "moved away", args: []string{"schedule", "-date", "2024-06-04"}, wantOut: "No classes scheduled."},
		{name: "moved in", args: []string{"schedule", "-date", "2024-06-05"}, wantOut: "rescheduled from 2024-06-04"},
		{name: "reschedule: list", args: []string{"reschedule", "list", "-student", "1"}, wantOut: "active"},
	}
	runTests(t, cli, out, tests)

	list, err := cli.sess.Reschedules(reschedule.QueryFilter{StudentID: asha.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "5-6pm", list[0].NewTime)
}

func Test_commandLine_attendance(t *testing.T) {
	cli, out := setup(t, "")
	asha := testutil.CreateStudent(t, cli.sess, "Asha", student.Schedule{core.Tuesday: "5-6pm"}, 1000)

	tests := []cliTest{
		{name: "mark: no args", args: []string{"attendance", "mark"}, wantErr: errHelp},
		{name: "mark: bad status", args: []string{"attendance", "mark", "-student", "Asha", "-status", "late"}, wantErrStr: "status must be one of"},
		{name: "mark: present", args: []string{"attendance", "mark", "-student", "Asha", "-status", "present"}, wantOut: "Marked Asha present"},
		{name: "mark: overwrite", args: []string{"attendance", "mark", "-student", "asha", "-status", "a"}, wantOut: "Marked Asha absent"},
		{name: "show", args: []string{"attendance", "show"}, wantOut: "absent"},
		{name: "report: no args", args: []string{"attendance", "report"}, wantErr: errHelp},
		{name: "report: inverted range", args: []string{"attendance", "report", "-from", "2024-06-30", "-to", "2024-06-01"}, wantErrStr: "from must not be after to"},
		{name: "report", args: []string{"attendance", "report", "-from", "2024-06-01"}, wantOut: "Present: 0  Absent: 1  Total: 1"},
	}
	runTests(t, cli, out, tests)

	assert.Equal(t, attendance.Absent, cli.sess.AttendanceStatus(asha.ID, core.NewDate(2024, time.June, 4)))
}

func Test_commandLine_fees(t *testing.T) {
	cli, out := setup(t, "")
	testutil.CreateStudent(t, cli.sess, "Asha", student.Schedule{core.Tuesday: "5-6pm"}, 1000)
	testutil.CreateStudent(t, cli.sess, "Ravi", student.Schedule{core.Monday: "4-5pm"}, 500)

	tests := []cliTest{
		{name: "status", args: []string{"fees", "status"}, wantOut: "Expected: Rs1500.00  Received: Rs0.00  Pending: Rs1500.00"},
		{name: "pay: no args", args: []string{"fees", "pay"}, wantErr: errHelp},
		{name: "pay: bad month", args: []string{"fees", "pay", "-student", "Asha", "-month", "13"}, wantErrStr: "month must be between 1 and 12"},
		{name: "pay", args: []string{"fees", "pay", "-student", "Asha"}, wantOut: "Recorded Rs1000.00 from Asha for June 2024."},
		{name: "status: paid", args: []string{"fees", "status", "-search", "asha"}, wantOut: "paid"},
		{name: "status: totals", args: []string{"fees", "status", "-month", "6", "-year", "2024"}, wantOut: "Received: Rs1000.00  Pending: Rs500.00"},
		{name: "report", args: []string{"fees", "report"}, wantOut: "Total collected: Rs1000.00"},
		{name: "dashboard", args: []string{"dashboard"}, wantOut: "Total students:   2"},
	}
	runTests(t, cli, out, tests)
}

func Test_commandLine_saveWarning(t *testing.T) {
	store := blob.NewMem()
	store.Fail["students"] = errors.New("disk full")
	cli := newCommandLine(testutil.NewSession(t, store), testConf, strings.NewReader(""), new(bytes.Buffer))
	out := cli.out.(*bytes.Buffer)

	err := cli.run([]string{"tutor", "students", "add", "-name", "Asha", "-grade", "8", "-subject", "Maths",
		"-schedule", "Tue=5-6pm", "-fee", "1000"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "warning: unsaved changes: students: disk full")
	assert.Contains(t, out.String(), "Added Asha (id 1).")

	students, err := cli.sess.ListStudents()
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.NotContains(t, store.Blobs, "students")
	assert.Contains(t, store.Blobs, "attendance")
}

func Test_commandLine_shell(t *testing.T) {
	input := strings.Join([]string{
		`students add -name "Asha Rao" -grade 8 -subject Maths -schedule Tue=5-6pm -fee 1000`,
		`students delete -student "asha rao"`,
		`n`,
		`lol`,
		`students list`,
		`exit`,
	}, "\n")
	cli, out := setup(t, input)

	require.NoError(t, cli.shell(context.Background()))
	assert.Contains(t, out.String(), "Added Asha Rao (id 1).")
	assert.Contains(t, out.String(), "Delete Asha Rao (id 1)? [y/N]: Cancelled.")
	assert.Contains(t, out.String(), "Usage:")
	assert.False(t, cli.interactive)

	students, err := cli.sess.ListStudents()
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

func Test_splitArgs(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []string
		wantErr bool
	}{
		{name: "empty", line: "  ", want: nil},
		{name: "plain", line: "students list\n", want: []string{"students", "list"}},
		{name: "quoted", line: `students add -name "Asha Rao" -reason 'exam day'`, want: []string{"students", "add", "-name", "Asha Rao", "-reason", "exam day"}},
		{name: "empty quotes", line: `a ""`, want: []string{"a", ""}},
		{name: "unterminated", line: `a "b`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitArgs(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
