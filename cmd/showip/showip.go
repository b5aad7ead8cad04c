package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/ghjm/showip/internal/version"
	"github.com/ghjm/showip/pkg/config"
	"github.com/ghjm/showip/pkg/present"
	"github.com/ghjm/showip/pkg/resolve"
	"github.com/ghjm/showip/pkg/showip"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"io"
	"os"
	"time"
)

const (
	exitOK         = 0
	exitUsage      = 1
	exitResolution = 2
)

// usageError is a wrong invocation shape, reported before any resolution is attempted
type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

type flags struct {
	configFile string
	resolver   string
	server     string
	network    string
	preferGo   bool
	resolvConf string
	timeout    time.Duration
	color      string
	logLevel   string
}

func setLogLevel(logLevel string) error {
	switch logLevel {
	case "error":
		log.SetLevel(log.ErrorLevel)
	case "warning":
		log.SetLevel(log.WarnLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "debug":
		log.SetLevel(log.DebugLevel)
	default:
		return fmt.Errorf("invalid log level")
	}
	return nil
}

// loadConfig reads the config file, if any, and applies the flags that were given on the command line
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg := config.Default()
	if f.configFile != "" {
		var err error
		cfg, err = config.LoadConfig(f.configFile)
		if err != nil {
			return nil, err
		}
	}
	fl := cmd.Flags()
	if fl.Changed("resolver") {
		cfg.Resolver = f.resolver
	}
	if fl.Changed("server") {
		cfg.Server = f.server
		if !fl.Changed("resolver") {
			cfg.Resolver = resolve.KindDNS
		}
	}
	if fl.Changed("net") {
		cfg.Net = f.network
	}
	if fl.Changed("prefer-go") {
		cfg.PreferGo = f.preferGo
	}
	if fl.Changed("resolv-conf") {
		cfg.ResolvConf = f.resolvConf
	}
	if fl.Changed("timeout") {
		cfg.Timeout = f.timeout
	}
	if fl.Changed("color") {
		cfg.Color = f.color
	}
	if fl.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func newRootCmd(stdout io.Writer, stderr io.Writer) *cobra.Command {
	f := &flags{}
	rootCmd := &cobra.Command{
		Use:     "showip hostname",
		Short:   "Show the IP addresses of a host",
		Version: version.Version(),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &usageError{err: fmt.Errorf("requires exactly one arg: hostname")}
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			err = setLogLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			resolver, err := resolve.New(cfg.ResolverOptions())
			if err != nil {
				return err
			}
			printer, err := present.NewPrinter(stdout, cfg.Color)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if cfg.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
				defer cancel()
			}
			return showip.Run(ctx, resolver, args[0], printer)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})
	fl := rootCmd.Flags()
	fl.StringVar(&f.configFile, "config", "", "Config file name")
	fl.StringVar(&f.resolver, "resolver", resolve.KindSystem, "Resolver to use (system/dns)")
	fl.StringVar(&f.server, "server", "", "Nameserver for the dns resolver, as host[:port]")
	fl.StringVar(&f.network, "net", "udp", "Transport for the dns resolver (udp/tcp/tcp-tls)")
	fl.BoolVar(&f.preferGo, "prefer-go", false, "Use Go's built-in DNS client in the system resolver")
	fl.StringVar(&f.resolvConf, "resolv-conf", resolve.DefaultResolvConf, "Resolver config file for the dns resolver")
	fl.DurationVar(&f.timeout, "timeout", 0, "Give up after this long (0 means wait forever)")
	fl.StringVar(&f.color, "color", present.ColorAuto, "Color the address family (auto/always/never)")
	fl.StringVar(&f.logLevel, "log-level", "warning", "Set log level (error/warning/info/debug)")
	return rootCmd
}

// execute runs the command line and returns the process exit code
func execute(args []string, stdout io.Writer, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	if err == nil {
		return exitOK
	}
	var ue *usageError
	var re *resolve.ResolutionError
	var ufe *present.UnsupportedFamilyError
	switch {
	case errors.As(err, &ue):
		_, _ = fmt.Fprintf(stderr, "Error: %s\n", ue)
		_, _ = fmt.Fprint(stderr, rootCmd.UsageString())
		return exitUsage
	case errors.As(err, &re):
		_, _ = fmt.Fprintf(stderr, "ERROR: %s\n", re.Message)
		return exitResolution
	case errors.As(err, &ufe):
		_, _ = fmt.Fprintf(stderr, "ERROR: %s\n", ufe)
		return exitResolution
	}
	_, _ = fmt.Fprintf(stderr, "Error: %s\n", err)
	return exitUsage
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
