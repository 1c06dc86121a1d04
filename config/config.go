// Package config resolves the settings a dezl server starts with:
// command-line flags for the per-run choices (new world vs. load,
// which world, which addresses to listen on) layered over an optional
// TOML file for the settings an operator wants to keep fixed across
// runs.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml"

	"github.com/jmdejong/dezl/transport"
)

// WorldAction selects what main should do with the named world: start
// a brand new one, resume a saved one, or run the view benchmark.
type WorldAction int

const (
	ActionNew WorldAction = iota
	ActionLoad
	ActionBench
)

const defaultStepDuration = 100 * time.Millisecond

// FileConfig is the subset of settings an operator may fix in a TOML
// file, so they don't have to be repeated as flags on every run.
type FileConfig struct {
	Admins       string   `toml:"admins"`
	StepDuration int64    `toml:"step_duration_ms"`
	Addresses    []string `toml:"addresses"`
	DataDir      string   `toml:"data_dir"`
}

// Config is the fully resolved configuration for one run of the
// server.
type Config struct {
	WorldAction  WorldAction
	WorldName    string
	Seed         uint32
	BenchIters   int
	Admins       string
	StepDuration time.Duration
	Addresses    []transport.Address
	DataDir      string
}

// defaultAddresses mirrors the original's platform-dependent default:
// prefer an abstract unix socket alongside a plain TCP listener on
// Linux, and just TCP loopback elsewhere. Go has no portable abstract
// socket support, so both platforms get the unix socket in the data
// directory instead (the system temp directory when none is given).
func defaultAddresses(dataDir string) []transport.Address {
	if dataDir == "" {
		dataDir = os.TempDir()
	}
	return []transport.Address{
		{Kind: "unix", Value: filepath.Join(dataDir, "dezl.sock")},
		{Kind: "inet", Value: "0.0.0.0:9231"},
	}
}

// Parse resolves a Config from command-line arguments (not including
// the program name), following the "new"/"load"/"bench" subcommand
// shape of the original CLI.
func Parse(args []string) (Config, error) {
	if len(args) == 0 {
		return Config{}, fmt.Errorf("expected a subcommand: new, load or bench")
	}

	var file FileConfig
	configPath := firstConfigFlag(args)
	if configPath != "" {
		loaded, err := loadFileConfig(configPath)
		if err != nil {
			return Config{}, err
		}
		file = loaded
	}

	switch args[0] {
	case "new":
		return parseNew(args[1:], file)
	case "load":
		return parseLoad(args[1:], file)
	case "bench":
		return parseBench(args[1:])
	default:
		return Config{}, fmt.Errorf("unknown subcommand %q (want new, load or bench)", args[0])
	}
}

// firstConfigFlag scans for a "-config path" pair so the overlay file
// can be loaded before the subcommand's own flag set runs (flag.FlagSet
// would otherwise reject an unrecognized -config before we get a
// chance to read it).
func firstConfigFlag(args []string) string {
	for i, a := range args {
		if a == "-config" || a == "--config" {
			if i+1 < len(args) {
				return args[i+1]
			}
		}
	}
	return ""
}

func loadFileConfig(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	var file FileConfig
	if err := toml.Unmarshal(data, &file); err != nil {
		return FileConfig{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return file, nil
}

func commonFlags(fs *flag.FlagSet, file FileConfig) (admins *string, step *int64, addrs *addressList, dataDir *string) {
	defaultAdmins := file.Admins
	if defaultAdmins == "" {
		defaultAdmins = os.Getenv("USER")
	}
	defaultStep := defaultStepDuration.Milliseconds()
	if file.StepDuration > 0 {
		defaultStep = file.StepDuration
	}
	admins = fs.String("admins", defaultAdmins, "the name(s) of the server admin(s)")
	step = fs.Int64("step-duration", defaultStep, "time in milliseconds between two world steps")
	dataDir = fs.String("data-dir", file.DataDir, "override the default save directory")
	addrs = &addressList{}
	if len(file.Addresses) > 0 {
		addrs.values = append(addrs.values, file.Addresses...)
	}
	fs.Var(addrs, "address", "a server address, e.g. inet:0.0.0.0:9231, unix:/tmp/dezl.sock, abstract:dezl or web:0.0.0.0:9232 (repeatable)")
	fs.String("config", "", "path to a TOML file with default settings")
	return
}

func parseNew(args []string, file FileConfig) (Config, error) {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	admins, step, addrs, dataDir := commonFlags(fs, file)
	seed := fs.Uint64("seed", 0, "world generation seed")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	name, err := requireWorldName(fs)
	if err != nil {
		return Config{}, err
	}
	return Config{
		WorldAction:  ActionNew,
		WorldName:    name,
		Seed:         uint32(*seed),
		Admins:       *admins,
		StepDuration: time.Duration(*step) * time.Millisecond,
		Addresses:    resolveAddresses(addrs, *dataDir),
		DataDir:      *dataDir,
	}, nil
}

func parseLoad(args []string, file FileConfig) (Config, error) {
	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	admins, step, addrs, dataDir := commonFlags(fs, file)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	name, err := requireWorldName(fs)
	if err != nil {
		return Config{}, err
	}
	return Config{
		WorldAction:  ActionLoad,
		WorldName:    name,
		Admins:       *admins,
		StepDuration: time.Duration(*step) * time.Millisecond,
		Addresses:    resolveAddresses(addrs, *dataDir),
		DataDir:      *dataDir,
	}, nil
}

func parseBench(args []string) (Config, error) {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	iters := fs.Int("iterations", 10000, "number of view iterations to benchmark")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return Config{WorldAction: ActionBench, BenchIters: *iters}, nil
}

// requireWorldName collects the positional arguments, resuming flag
// parsing after each one so flags may follow the world name, and
// requires exactly one of them.
func requireWorldName(fs *flag.FlagSet) (string, error) {
	var names []string
	for fs.NArg() > 0 {
		names = append(names, fs.Arg(0))
		if err := fs.Parse(fs.Args()[1:]); err != nil {
			return "", err
		}
	}
	if len(names) != 1 {
		return "", fmt.Errorf("expected exactly one world name argument, got %d", len(names))
	}
	return names[0], nil
}

func resolveAddresses(addrs *addressList, dataDir string) []transport.Address {
	if len(addrs.values) == 0 {
		return defaultAddresses(dataDir)
	}
	out := make([]transport.Address, 0, len(addrs.values))
	for _, raw := range addrs.values {
		addr, err := transport.ParseAddress(raw)
		if err != nil {
			continue
		}
		out = append(out, addr)
	}
	return out
}

// addressList accumulates repeated -address flag occurrences.
type addressList struct {
	values []string
}

func (a *addressList) String() string {
	if a == nil {
		return ""
	}
	return fmt.Sprintf("%v", a.values)
}

func (a *addressList) Set(value string) error {
	a.values = append(a.values, value)
	return nil
}
