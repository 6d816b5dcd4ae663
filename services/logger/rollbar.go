package logsvc

import (
	"io/ioutil"
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/tuition/core"
)

// RollbarLogger reports to Rollbar when a token is configured and always mirrors to std.
type RollbarLogger struct {
	std     *log.Logger
	enabled bool
	debug   bool
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)

	l := &RollbarLogger{std: std, debug: conf.Debug}
	l.Enable(conf.RollbarToken != "" && !conf.TestMode)
	return l
}

// NewDiscardLogger logs nowhere. Used by tests.
func NewDiscardLogger() *RollbarLogger {
	return &RollbarLogger{std: log.New(ioutil.Discard, "", 0)}
}

func (l *RollbarLogger) Enable(enabled bool) {
	l.enabled = enabled
	rollbar.SetEnabled(enabled)
}

// Close waits for pending reports.
func (l *RollbarLogger) Close() {
	if l.enabled {
		rollbar.Close()
	}
}

// expected fmt: msg | error, map[string]interface{}
func (l *RollbarLogger) report(level string, msg string, args []interface{}) {
	if !l.enabled {
		return
	}
	newArgs := make([]interface{}, 0, len(args)+1)
	newArgs = append(newArgs, msg)
	newArgs = append(newArgs, args...)
	rollbar.Log(level, newArgs...)
}

func (l *RollbarLogger) print(level, msg string, args []interface{}) {
	l.std.Println(level + ": " + msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.report(rollbar.DEBUG, msg, args)
	l.print("DEBUG", msg, args)
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	l.report(rollbar.INFO, msg, args)
	l.print("INFO", msg, args)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	l.report(rollbar.WARN, msg, args)
	l.print("WARN", msg, args)
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	l.report(rollbar.ERR, msg, args)
	l.print("ERROR", msg, args)
}

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.report(rollbar.CRIT, msg, args)
	l.print("FATAL", msg, args)
	l.Close()
	l.std.Fatal(msg)
}
