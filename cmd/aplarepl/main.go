package main

import (
	"apla"
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
)

type options struct {
	TabWidth int  `long:"tab-width" default:"4" description:"number of spaces counted as one indentation level"`
	FailFast bool `long:"fail-fast" description:"stop at the first error of a statement"`
	Dump     bool `long:"dump" description:"print every checked statement as YAML"`
}

func main() {
	var opts options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}
	cfg := apla.DefaultConfig()
	cfg.TabWidth = opts.TabWidth
	cfg.FailFast = opts.FailFast
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	repl(os.Stdin, os.Stdout, cfg, opts.Dump)
}

// opensBlock reports whether line starts an indented body that continues
// until an empty line.
func opensBlock(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasSuffix(trimmed, "=>") || strings.HasPrefix(trimmed, "class ")
}

func repl(in io.Reader, out io.Writer, cfg apla.Config, dump bool) {
	checker := cfg.NewChecker()
	reader := bufio.NewScanner(in)
	var buff strings.Builder
	block := false
	for {
		if block {
			fmt.Fprint(out, ". ")
		} else {
			fmt.Fprint(out, "> ")
		}
		if !reader.Scan() {
			fmt.Fprintln(out)
			return
		}
		text := reader.Text()
		if block {
			if strings.TrimSpace(text) != "" {
				buff.WriteString(text)
				buff.WriteByte('\n')
				continue
			}
			block = false
		} else {
			if strings.TrimSpace(text) == "" {
				continue
			}
			buff.WriteString(text)
			buff.WriteByte('\n')
			if opensBlock(text) {
				block = true
				continue
			}
		}
		source := buff.String()
		buff.Reset()
		evaluate(checker, source, out, cfg, dump)
	}
}

func evaluate(checker *apla.Checker, source string, out io.Writer, cfg apla.Config, dump bool) {
	src := apla.NewSourceFile("<repl>", source)
	tokens, err := apla.ScanTokens([]byte(source), cfg.TabWidth)
	if err != nil {
		fmt.Fprintln(out, apla.Errors(err).Format(src))
		return
	}
	node, err := apla.NewParser(tokens).ParseStmtAndEof()
	if err != nil {
		fmt.Fprintln(out, apla.Errors(err).Format(src))
		return
	}
	r, checked, err := checker.CheckStmt(node)
	if err != nil {
		fmt.Fprintln(out, apla.Errors(err).Format(src))
		return
	}
	if dump {
		if err := apla.Dump(out, &apla.File{Name: src.Name, Nodes: []apla.Node{checked}}); err != nil {
			fmt.Fprintln(out, err)
		}
		return
	}
	if typ, ok := r.KnownType(); ok {
		fmt.Fprintf(out, "%s : %s\n", checked, typ)
		return
	}
	fmt.Fprintln(out, checked)
}
