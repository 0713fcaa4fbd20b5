package tools

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const usageTemplate = `usage: {{.Name}} [-hvycdrRk] [-n <nth>] [-f <files>] [-x <xattrs>]
       [-s <bytes>] [-p <path>] [-t <script> ] [--store <fs|s3>]
  --help        -h           This help
  --verbose     -v           Increase verbosity
  --verify      -y           Verify xattr contents
  --nth         -n <nth>     Print every nth file
  --files       -f <files>   Set xattrs on N files
  --xattrs      -x <xattrs>  Set N xattrs on each file
  --size        -s <bytes>   Set N bytes per xattr
  --path        -p <path>    Path to files
  --synccaches  -c           Sync caches between phases
  --dropcaches  -d           Drop caches between phases
  --script      -t <script>  Exec script between phases
  --seed        -e <seed>    Random seed value
  --random      -r           Randomly sized xattrs [16-size]
  --randomvalue -R           Random xattr values
  --keep        -k           Don't unlink files
  --store                    Backend, fs (default) or s3

`

// NewApp builds the command line interface. run is called with the parsed
// and validated configuration.
func NewApp(run func(*Config) error) *cli.App {
	defaults := DefaultConfig()

	return &cli.App{
		Name:                   "xattrtest",
		Usage:                  "extended attribute benchmark and correctness test",
		UseShortOptionHandling: true,
		CustomAppHelpTemplate:  usageTemplate,
		Writer:                 os.Stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Increase verbosity"},
			&cli.BoolFlag{Name: "verify", Aliases: []string{"y"}, Usage: "Verify xattr contents"},
			&cli.StringFlag{Name: "nth", Aliases: []string{"n"}, Value: "0", Usage: "Print every nth file"},
			&cli.StringFlag{Name: "files", Aliases: []string{"f"}, Value: strconv.Itoa(defaults.Files), Usage: "Set xattrs on N files"},
			&cli.StringFlag{Name: "xattrs", Aliases: []string{"x"}, Value: strconv.Itoa(defaults.Xattrs), Usage: "Set N xattrs on each file"},
			&cli.StringFlag{Name: "size", Aliases: []string{"s"}, Value: strconv.Itoa(defaults.Size), Usage: "Set N bytes per xattr"},
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Value: defaults.Path, Usage: "Path to files"},
			&cli.BoolFlag{Name: "synccaches", Aliases: []string{"c"}, Usage: "Sync caches between phases"},
			&cli.BoolFlag{Name: "dropcaches", Aliases: []string{"d"}, Usage: "Drop caches between phases"},
			&cli.StringFlag{Name: "script", Aliases: []string{"t"}, Value: defaults.Script, Usage: "Exec script between phases"},
			&cli.StringFlag{Name: "seed", Aliases: []string{"e"}, Usage: "Random seed value"},
			&cli.BoolFlag{Name: "random", Aliases: []string{"r"}, Usage: "Randomly sized xattrs [16-size]"},
			&cli.BoolFlag{Name: "randomvalue", Aliases: []string{"R"}, Usage: "Random xattr values"},
			&cli.BoolFlag{Name: "keep", Aliases: []string{"k"}, Usage: "Don't unlink files"},
			&cli.StringFlag{Name: "store", Value: defaults.Store, Usage: "Backend, fs or s3"},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := ConfigFromContext(ctx)
			if err != nil {
				return err
			}
			cfg.Verbose = verbosity(ctx)
			return run(cfg)
		},
	}
}

// verbosity is the number of times -v was given.
func verbosity(ctx *cli.Context) int {
	if !ctx.IsSet("verbose") {
		return 0
	}
	if n := ctx.Count("verbose"); n > 0 {
		return n
	}
	return 1
}

// valueShortOptions are the short options that take an argument.
const valueShortOptions = "nfxspte"

// ExpandShortOptions rewrites getopt style attached values, "-f10" or
// "-vks32", into separate arguments the flag parser understands. args[0]
// is the program name and is left alone, as is everything after "--".
func ExpandShortOptions(args []string) []string {
	out := make([]string, 0, len(args))
	for k := 0; k < len(args); k++ {
		arg := args[k]
		switch {
		case k == 0:
			out = append(out, arg)
		case arg == "--":
			return append(out, args[k:]...)
		case strings.HasPrefix(arg, "--"):
			out = append(out, arg)
			if takesValue(arg) && k+1 < len(args) {
				k++
				out = append(out, args[k])
			}
		case len(arg) > 1 && arg[0] == '-':
			parts, needsNext := splitShortCluster(arg)
			out = append(out, parts...)
			if needsNext && k+1 < len(args) {
				k++
				out = append(out, args[k])
			}
		default:
			out = append(out, arg)
		}
	}
	return out
}

func takesValue(longArg string) bool {
	if strings.Contains(longArg, "=") {
		return false
	}
	switch strings.TrimPrefix(longArg, "--") {
	case "nth", "files", "xattrs", "size", "path", "script", "seed", "store":
		return true
	}
	return false
}

// splitShortCluster splits at the first option taking a value. needsNext
// is set when that option ends the cluster, so its value is the next
// argument.
func splitShortCluster(arg string) (parts []string, needsNext bool) {
	for p := 1; p < len(arg); p++ {
		if !strings.ContainsRune(valueShortOptions, rune(arg[p])) {
			continue
		}
		if p+1 == len(arg) {
			return []string{arg}, true
		}
		if p > 1 {
			parts = append(parts, arg[:p])
		}
		return append(parts, "-"+arg[p:p+1], arg[p+1:]), false
	}
	return []string{arg}, false
}

// ConfigFromContext reads and validates every option except verbosity.
func ConfigFromContext(ctx *cli.Context) (*Config, error) {
	cfg := DefaultConfig()
	var err error

	if cfg.Nth, err = intOption(ctx, "nth"); err != nil {
		return nil, err
	}
	if cfg.Files, err = intOption(ctx, "files"); err != nil {
		return nil, err
	}
	if cfg.Xattrs, err = intOption(ctx, "xattrs"); err != nil {
		return nil, err
	}
	if cfg.Size, err = intOption(ctx, "size"); err != nil {
		return nil, err
	}

	cfg.Seed = time.Now().Unix()
	if ctx.IsSet("seed") {
		if cfg.Seed, err = strconv.ParseInt(ctx.String("seed"), 0, 64); err != nil {
			return nil, configErrorf("invalid --seed value %q", ctx.String("seed"))
		}
	}

	cfg.Path = ctx.String("path")
	if len(cfg.Path) >= PathMax {
		cfg.Path = cfg.Path[:PathMax-1]
	}
	cfg.Script = ctx.String("script")
	cfg.Store = ctx.String("store")
	cfg.Verify = ctx.Bool("verify")
	cfg.SyncCaches = ctx.Bool("synccaches")
	cfg.DropCaches = ctx.Bool("dropcaches")
	cfg.RandomSize = ctx.Bool("random")
	cfg.RandomValue = ctx.Bool("randomvalue")
	cfg.Keep = ctx.Bool("keep")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// intOption parses an integer option in base 0, so 0x and leading 0
// prefixes select hex and octal.
func intOption(ctx *cli.Context, name string) (int, error) {
	v, err := strconv.ParseInt(ctx.String(name), 0, 0)
	if err != nil {
		return 0, configErrorf("invalid --%s value %q", name, ctx.String(name))
	}
	return int(v), nil
}

// ConfigureLogging sends diagnostics to stderr with the calling function,
// file and line attached.
func ConfigureLogging(verbose int) {
	logrus.SetOutput(os.Stderr)
	logrus.SetReportCaller(true)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose >= 2 {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// Execute is the program's entry point once arguments are parsed: it sets
// up logging, echoes the configuration when verbose and runs all phases.
func Execute(cfg *Config) error {
	ConfigureLogging(cfg.Verbose)
	if cfg.Verbose > 0 {
		if err := cfg.Dump(os.Stdout); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout)
	}

	st, err := NewStore(cfg)
	if err != nil {
		logrus.WithError(err).Errorf("Failed to open %s store", cfg.Store)
		return err
	}
	return NewBenchmark(cfg, st, NewHook(cfg), os.Stdout).Run()
}
