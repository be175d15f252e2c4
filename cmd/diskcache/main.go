// Command diskcache manipulates a size-bounded disk cache from the shell.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/IvanBrykalov/diskcache/cache"
	"github.com/IvanBrykalov/diskcache/internal/config"
	"github.com/IvanBrykalov/diskcache/internal/logging"
	"github.com/IvanBrykalov/diskcache/policy"
)

const usage = `usage: diskcache [flags] <command> [key]

commands:
  put KEY      store stdin under KEY (replacing it)
  append KEY   append stdin to KEY
  get KEY      write the value of KEY to stdout
  rm KEY       remove KEY
  ls           list keys with their size
  stat         print entry count, total size and bound
  reset        rebuild the index from disk
  shrink       run a shrink pass now

flags:
`

// cliOptions holds parsed flags; only flags explicitly set override the config file.
type cliOptions struct {
	configPath string
	root       string
	maxSize    string
	shrink     string
	mode       string
	logLevel   string
	set        map[string]bool

	command string
	key     string
}

var (
	stdIn  io.Reader = os.Stdin
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run executes one command and returns the process exit code.
func run(opts cliOptions) int {
	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stdErr, "load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(*cfg)
	if err != nil {
		fmt.Fprintf(stdErr, "init logger: %v\n", err)
		return 1
	}

	copts, err := cfg.CacheOptions(logger, nil)
	if err != nil {
		fmt.Fprintf(stdErr, "build cache options: %v\n", err)
		return 1
	}
	copts.OnWarning = func(w policy.Warning) {
		if w.Kind == policy.ShrinkExhausted {
			fmt.Fprintf(stdErr, "warning: %v\n", w)
		}
	}

	c, err := cache.New(copts)
	if err != nil {
		fmt.Fprintf(stdErr, "open cache: %v\n", err)
		return 1
	}

	fields := logging.BaseFields(opts.command, cfg.Root)
	fields["key"] = opts.key
	if err := execute(c, cfg, opts); err != nil {
		logger.WithFields(fields).WithError(err).Error("command failed")
		fmt.Fprintf(stdErr, "%s: %v\n", opts.command, err)
		return 1
	}
	logger.WithFields(fields).Debug("command done")
	return 0
}

func execute(c cache.Cache, cfg *config.Config, opts cliOptions) error {
	switch opts.command {
	case "put", "append":
		data, err := io.ReadAll(stdIn)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		if opts.command == "append" {
			return c.Append(opts.key, data)
		}
		return c.Write(opts.key, data)
	case "get":
		return c.Read(opts.key, func(r io.Reader) error {
			_, err := io.Copy(stdOut, r)
			return err
		})
	case "rm":
		return c.Remove(opts.key)
	case "ls":
		for _, k := range c.Keys() {
			e, _ := c.Entry(k)
			size, _ := e.Metadata.Int64(policy.FieldSize)
			fmt.Fprintf(stdOut, "%d\t%s\n", size, k)
		}
		return nil
	case "stat":
		fmt.Fprintf(stdOut, "entries\t%d\nsize\t%s\nmax\t%s\nshrink\t%s\nroot\t%s\n",
			c.Len(), config.ByteSize(c.Size()), cfg.MaxSize, cfg.Shrink, c.Root())
		return nil
	case "reset":
		return c.Reset()
	case "shrink":
		c.Shrink()
		return nil
	default:
		return fmt.Errorf("unknown command %q", opts.command)
	}
}

// loadConfig reads the config file (flag or DISKCACHE_CONFIG) and applies flag overrides.
func loadConfig(opts cliOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.set["root"] {
		cfg.Root = opts.root
	}
	if opts.set["max"] {
		if err := cfg.MaxSize.UnmarshalText([]byte(opts.maxSize)); err != nil {
			return nil, err
		}
	}
	if opts.set["shrink"] {
		cfg.Shrink = opts.shrink
	}
	if opts.set["mode"] {
		cfg.Mode = opts.mode
	}
	if opts.set["log-level"] {
		cfg.LogLevel = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseCLIFlags parses flags and the positional command.
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("diskcache", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts cliOptions
	fs.StringVar(&opts.configPath, "config", "", "config file (TOML/YAML/JSON); overrides DISKCACHE_CONFIG")
	fs.StringVar(&opts.root, "root", "", "cache root directory")
	fs.StringVar(&opts.maxSize, "max", "", "size bound, e.g. 500MB")
	fs.StringVar(&opts.shrink, "shrink", "", "shrink policy: oldest | largest")
	fs.StringVar(&opts.mode, "mode", "", "value mode: binary | text")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("parse flags: %w\n%s", err, usageText(fs))
	}
	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	if opts.configPath == "" {
		opts.configPath = os.Getenv("DISKCACHE_CONFIG")
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return cliOptions{}, errors.New(usageText(fs))
	}
	opts.command = rest[0]
	switch opts.command {
	case "put", "append", "get", "rm":
		if len(rest) != 2 {
			return cliOptions{}, fmt.Errorf("%s requires exactly one KEY\n%s", opts.command, usageText(fs))
		}
		opts.key = rest[1]
	case "ls", "stat", "reset", "shrink":
		if len(rest) != 1 {
			return cliOptions{}, fmt.Errorf("%s takes no arguments\n%s", opts.command, usageText(fs))
		}
	default:
		return cliOptions{}, fmt.Errorf("unknown command %q\n%s", opts.command, usageText(fs))
	}
	return opts, nil
}

func usageText(fs *flag.FlagSet) string {
	var b strings.Builder
	b.WriteString(usage)
	fs.SetOutput(&b)
	fs.PrintDefaults()
	fs.SetOutput(io.Discard)
	return b.String()
}
