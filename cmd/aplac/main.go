package main

import (
	"apla"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jessevdk/go-flags"
)

type options struct {
	Config    string `short:"c" long:"config" description:"properties file to read settings from (default: ./aplac.properties if present)"`
	OutDir    string `short:"o" long:"out" description:"directory the .h and .c files are written to"`
	TabWidth  int    `long:"tab-width" description:"number of spaces counted as one indentation level"`
	FailFast  bool   `long:"fail-fast" description:"stop at the first error of a file"`
	MaxErrors int    `long:"max-errors" default:"-1" description:"maximum number of errors reported per file (0 means no limit)"`
	NoMain    bool   `long:"no-main" description:"reject top-level statements instead of wrapping them into main"`
	Check     bool   `long:"check" description:"only check the sources, do not write C files"`
	Dump      bool   `long:"dump" description:"print the checked tree of every file as YAML"`
	Clean     bool   `long:"clean" description:"remove the output directory before writing"`
	Verbose   bool   `short:"v" long:"verbose" description:"log progress to stderr"`
	Args      struct {
		Paths []string `positional-arg-name:"PATH" description:"source files or project directories (default: .)"`
	} `positional-args:"yes"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}
	log.SetFlags(0)
	log.SetPrefix("aplac: ")
	if !opts.Verbose {
		log.SetOutput(io.Discard)
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	files, err := sourceFiles(opts.Args.Paths, cfg.SourceExt)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if opts.Clean && !opts.Check {
		log.Printf("removing %s", cfg.OutDir)
		if err := os.RemoveAll(cfg.OutDir); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if !compile(files, cfg, opts) {
		os.Exit(1)
	}
}

func loadConfig(opts options) (apla.Config, error) {
	path := opts.Config
	if path == "" {
		if _, err := os.Stat(apla.CONFIG_FILE); err == nil {
			path = apla.CONFIG_FILE
		}
	}
	cfg := apla.DefaultConfig()
	if path != "" {
		log.Printf("reading %s", path)
		var err error
		if cfg, err = apla.LoadConfig(path); err != nil {
			return cfg, err
		}
	}
	if opts.OutDir != "" {
		cfg.OutDir = opts.OutDir
	}
	if opts.TabWidth != 0 {
		cfg.TabWidth = opts.TabWidth
	}
	if opts.FailFast {
		cfg.FailFast = true
	}
	if opts.MaxErrors >= 0 {
		cfg.MaxErrors = opts.MaxErrors
	}
	if opts.NoMain {
		cfg.EmitMain = false
	}
	return cfg, cfg.Validate()
}

func sourceFiles(paths []string, ext string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		found, err := apla.ProjectFiles(path, ext)
		if err != nil {
			return nil, err
		}
		log.Printf("found %d files in %s", len(found), path)
		files = append(files, found...)
	}
	return files, nil
}

func compile(files []string, cfg apla.Config, opts options) bool {
	ok := true
	for _, file := range files {
		log.Printf("compiling %s", file)
		unit, err := apla.CompileFile(file, cfg)
		if err != nil {
			ok = false
			if unit == nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			fmt.Fprintln(os.Stderr, apla.Errors(err).Format(unit.Source))
			continue
		}
		if opts.Dump {
			if err := apla.Dump(os.Stdout, unit.Checked); err != nil {
				fmt.Fprintln(os.Stderr, err)
				ok = false
			}
		}
		if opts.Check {
			continue
		}
		written, err := apla.WriteCText(cfg.OutDir, unit.C)
		for _, path := range written {
			log.Printf("wrote %s", path)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			ok = false
		}
	}
	return ok
}
