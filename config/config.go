// Package config resolves one run's options from built-in defaults, an
// optional YAML config file, PNAF_* environment variables, and CLI flags,
// in ascending precedence. The resolved RunOptions value is constructed
// once, validated, and passed into every component; there is no ambient
// global configuration state.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrNoInput is returned when neither a capture file nor an instance
// directory was supplied. The run fails closed before any processing.
var ErrNoInput = errors.New("no input specified: need one of cap_file or instance_dir")

// ErrConflictingInput is returned when both input modes are supplied.
var ErrConflictingInput = errors.New("conflicting input: cap_file and instance_dir are mutually exclusive")

// DatasetKind selects which output dataset the processing stage produces.
type DatasetKind string

const (
	// DatasetAll produces the full normalized dataset.
	DatasetAll DatasetKind = "all"
	// DatasetAudit produces only the vulnerability-audit dataset.
	DatasetAudit DatasetKind = "audit"
)

// IsValid checks if the dataset kind is a recognized value.
func (k DatasetKind) IsValid() bool {
	switch k {
	case DatasetAll, DatasetAudit:
		return true
	default:
		return false
	}
}

// RunOptions is the resolved, validated configuration for one invocation.
// Exactly one of CapFile and InstanceDir is set. Immutable after Load.
type RunOptions struct {
	// CapFile is the raw packet capture to register and process.
	CapFile string `mapstructure:"cap_file" yaml:"cap_file"`
	// InstanceDir is a directory of already-produced tool logs.
	InstanceDir string `mapstructure:"instance_dir" yaml:"instance_dir"`

	// LogDir is the explicit output/log directory. Empty means unset; the
	// instance locator then derives a nested layout under LogRoot/WebRoot.
	LogDir string `mapstructure:"log_dir" yaml:"log_dir"`
	// LogFile is the primary diagnostic log sink.
	LogFile string `mapstructure:"log_file" yaml:"log_file"`

	// DataDir is the base data directory; LogRoot and WebRoot derive from
	// it when not set explicitly.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
	LogRoot string `mapstructure:"log_root" yaml:"log_root"`
	WebRoot string `mapstructure:"web_root" yaml:"web_root"`

	// Parsers is the user-supplied comma-separated parser list. Empty
	// selects the documented default set.
	Parsers string `mapstructure:"parser" yaml:"parser"`

	// HomeNet is the raw comma-separated CIDR list; HomeNets holds the
	// entries that passed syntax validation.
	HomeNet  string   `mapstructure:"home_net" yaml:"home_net"`
	HomeNets []string `mapstructure:"-" yaml:"home_nets"`

	Payload    bool        `mapstructure:"payload" yaml:"payload"`
	Debug      bool        `mapstructure:"debug" yaml:"debug"`
	OutDataset DatasetKind `mapstructure:"out_dataset" yaml:"out_dataset"`
	// AuditDict is the vulnerability dictionary handed to the audit stage.
	AuditDict string `mapstructure:"audit_dict" yaml:"audit_dict"`

	// Warnings collects non-fatal findings from resolution (malformed
	// optional fields degraded to defaults). Surfaced by the caller through
	// the warning interceptor.
	Warnings []string `mapstructure:"-" yaml:"-"`
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("cap_file", "")
	v.SetDefault("instance_dir", "")
	v.SetDefault("log_dir", "")
	v.SetDefault("log_file", "") // empty = derive from log_root
	v.SetDefault("data_dir", "./data")
	v.SetDefault("log_root", "") // empty = derive from data_dir
	v.SetDefault("web_root", "") // empty = derive from data_dir
	v.SetDefault("parser", "")
	v.SetDefault("home_net", "")
	v.SetDefault("payload", false)
	v.SetDefault("debug", false)
	v.SetDefault("out_dataset", string(DatasetAll))
	v.SetDefault("audit_dict", "")
}

// loadFromEnv sets up environment variable loading.
func loadFromEnv(v *viper.Viper) {
	v.SetEnvPrefix("PNAF")
	v.AutomaticEnv()

	_ = v.BindEnv("data_dir", "PNAF_DATA_DIR")
	_ = v.BindEnv("log_root", "PNAF_LOG_ROOT")
	_ = v.BindEnv("web_root", "PNAF_WEB_ROOT")
	_ = v.BindEnv("log_file", "PNAF_LOG_FILE")
}

// Load resolves RunOptions. confFile is the --conf path (empty = search the
// default locations); flags are the CLI flags, which take precedence over
// config-file values, which take precedence over defaults.
func Load(confFile string, flags *pflag.FlagSet) (*RunOptions, error) {
	v := viper.New()
	setDefaults(v)
	loadFromEnv(v)

	if confFile != "" {
		v.SetConfigFile(confFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file %s: %w", confFile, err)
		}
	} else {
		v.SetConfigName("pnaf")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		// Config file is optional when not named explicitly.
		_ = v.ReadInConfig()
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("unable to bind flags: %w", err)
		}
	}

	var opts RunOptions
	if err := v.Unmarshal(&opts); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	opts.resolvePaths()

	if err := opts.validate(); err != nil {
		return nil, err
	}

	return &opts, nil
}

// resolvePaths derives LogRoot, WebRoot, and LogFile from DataDir when not
// set explicitly.
func (o *RunOptions) resolvePaths() {
	if o.DataDir == "" {
		o.DataDir = "./data"
	}
	if o.LogRoot == "" {
		o.LogRoot = filepath.Join(o.DataDir, "logs")
	} else {
		o.LogRoot = filepath.Clean(o.LogRoot)
	}
	if o.WebRoot == "" {
		o.WebRoot = filepath.Join(o.DataDir, "www")
	} else {
		o.WebRoot = filepath.Clean(o.WebRoot)
	}
	if o.LogFile == "" {
		o.LogFile = filepath.Join(o.LogRoot, "pnaf.log")
	}
}

// validate enforces the required input-mode invariant and degrades
// malformed optional fields to defaults, recording a warning for each.
func (o *RunOptions) validate() error {
	if o.CapFile == "" && o.InstanceDir == "" {
		return ErrNoInput
	}
	if o.CapFile != "" && o.InstanceDir != "" {
		return ErrConflictingInput
	}

	if !o.OutDataset.IsValid() {
		o.Warnings = append(o.Warnings,
			fmt.Sprintf("unknown out_dataset %q, using %q", o.OutDataset, DatasetAll))
		o.OutDataset = DatasetAll
	}

	o.HomeNets = o.splitHomeNet()

	return nil
}

// splitHomeNet splits the raw home_net list on commas and keeps the entries
// that are syntactically valid CIDR blocks. Malformed entries are dropped
// with a warning; the field is optional and must not abort the run.
func (o *RunOptions) splitHomeNet() []string {
	if o.HomeNet == "" {
		return nil
	}

	check := validator.New()
	var nets []string
	for _, entry := range strings.Split(o.HomeNet, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if err := check.Var(entry, "cidr"); err != nil {
			o.Warnings = append(o.Warnings,
				fmt.Sprintf("ignoring malformed home_net entry %q: not a CIDR block", entry))
			continue
		}
		nets = append(nets, entry)
	}
	return nets
}

// CaptureMode reports whether the run processes a raw packet capture
// rather than an existing instance directory.
func (o *RunOptions) CaptureMode() bool {
	return o.CapFile != ""
}

// DebugDump renders the resolved option set as YAML for the primary log.
func (o *RunOptions) DebugDump() string {
	out, err := yaml.Marshal(o)
	if err != nil {
		return fmt.Sprintf("unmarshalable options: %v", err)
	}
	return string(out)
}
