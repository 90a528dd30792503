// Command midicat reads a Standard MIDI File and re-emits it, optionally
// joining tracks, sorting, or converting to one of the package's text
// formats. It is a thin driver over pkg/midifile, grounded on the
// original tool suite's midi2binasc/tobinary/toascii programs.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/craigsapp/midifile/pkg/midifile"
	"github.com/craigsapp/midifile/pkg/midilog"
)

type config struct {
	inPath   string
	outPath  string
	format   string
	logLevel string
	join     bool
	sort     bool
	strict   bool
	showHelp bool
}

func parseArgs(args []string) (*config, error) {
	fs := flag.NewFlagSet("midicat", flag.ContinueOnError)
	cfg := &config{}

	fs.StringVar(&cfg.outPath, "o", "", "output file (default: stdout)")
	fs.StringVar(&cfg.format, "format", "smf", "output format: smf, hex, base64, binasc")
	fs.StringVar(&cfg.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	fs.BoolVar(&cfg.join, "join", false, "join all tracks into one before writing")
	fs.BoolVar(&cfg.sort, "sort", false, "sort every track before writing")
	fs.BoolVar(&cfg.strict, "strict", false, "treat soft read conditions as errors")
	fs.BoolVar(&cfg.showHelp, "h", false, "show help")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		cfg.inPath = fs.Arg(0)
	}
	return cfg, nil
}

func run(cfg *config) error {
	if err := midilog.Init(cfg.logLevel); err != nil {
		return err
	}
	log := midilog.Get()

	var opts []midifile.ReadOption
	if cfg.strict {
		opts = append(opts, midifile.WithStrict())
	}

	var f *midifile.MidiFile
	var err error
	if cfg.inPath == "" || cfg.inPath == "-" {
		f, err = midifile.Read(os.Stdin, opts...)
	} else {
		f, err = midifile.ReadFile(cfg.inPath, opts...)
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	for _, w := range f.Warnings() {
		log.Warn("soft read condition", "track", w.Track, "message", w.Message)
	}

	if cfg.sort {
		f.SortTracks()
	}
	if cfg.join {
		f.JoinTracks()
	}

	out := os.Stdout
	if cfg.outPath != "" {
		file, err := os.Create(cfg.outPath)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer file.Close()
		out = file
	}

	switch cfg.format {
	case "smf":
		return f.Write(out)
	case "hex":
		s, err := f.WriteHex()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, s)
		return err
	case "base64":
		s, err := f.WriteBase64()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, s)
		return err
	case "binasc":
		s, err := f.WriteBinasc()
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, s)
		return err
	default:
		return fmt.Errorf("unknown output format %q", cfg.format)
	}
}

func main() {
	cfg, err := parseArgs(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if cfg.showHelp {
		fmt.Fprintln(os.Stderr, "usage: midicat [-o output] [-format smf|hex|base64|binasc] [-join] [-sort] [-strict] [input.mid]")
		return
	}
	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "midicat:", err)
		os.Exit(1)
	}
}
