package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/tuition/core"
)

const prompt = "tutor> "

// lineReader yields one command line at a time, io.EOF when the user is done.
type lineReader interface {
	ReadLine() (string, error)
}

type plainReader struct{ *bufio.Reader }

func (r plainReader) ReadLine() (string, error) {
	line, err := r.ReadString('\n')
	if err == io.EOF && line != "" {
		return line, nil
	}
	return line, err
}

// shell runs commands read from the terminal until "exit" or end of input.
// A raw-mode x/term terminal is used when stdin is a terminal.
func (cli *commandLine) shell(ctx context.Context) error {
	cli.interactive = true
	defer func() { cli.interactive = false }()

	var lines lineReader = plainReader{cli.in}
	fd := int(os.Stdin.Fd())
	if isTerminalFunc(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return errors.Wrap(err, "entering raw mode")
		}
		defer func() { _ = term.Restore(fd, oldState) }()

		t := term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{os.Stdin, os.Stdout}, prompt)
		// confirmations and output go through the terminal too
		cli.out = t
		cli.in = bufio.NewReader(&terminalReader{t: t})
		lines = t
	} else {
		cli.printf("%s - type 'help' for commands, 'exit' to quit.\n", cli.conf.AppName)
	}

	for {
		if _, ok := lines.(plainReader); ok {
			cli.printf(prompt)
		}
		line, err := lines.ReadLine()
		if err == io.EOF {
			cli.println()
			return nil
		}
		if err != nil {
			return err
		}

		args, err := splitArgs(line)
		if err != nil {
			cli.printf("error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "exit", "quit":
			return nil
		case "help", "?":
			cli.printUsage()
			continue
		case "shell":
			continue
		}

		if err := cli.dispatch(ctx, args[0], args[1:]); err != nil && err != errHelp {
			cli.printf("error: %v\n", err)
		}
	}
}

// terminalReader feeds confirmation answers from the raw terminal.
type terminalReader struct {
	t   *term.Terminal
	buf []byte
}

func (r *terminalReader) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		r.t.SetPrompt("")
		line, err := r.t.ReadLine()
		r.t.SetPrompt(prompt)
		if err != nil {
			return 0, err
		}
		r.buf = []byte(line + "\n")
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

// splitArgs splits a command line on whitespace, keeping quoted parts together.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		quote   rune
		inToken bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if inToken {
				args = append(args, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, core.NewValidationError(errors.New("unterminated quote"))
	}
	if inToken {
		args = append(args, cur.String())
	}
	return args, nil
}
