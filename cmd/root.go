package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/netobserv/pcapng-reader/internal/pkg/capture"
	"github.com/netobserv/pcapng-reader/internal/pkg/metrics"
	"github.com/netobserv/pcapng-reader/internal/pkg/pcapng"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	log            = logrus.New()
	logLevel       string
	configPath     string
	unknownOptions string
	maxBlockLength uint32

	outputBuffer io.Writer = os.Stdout

	rootCmd = &cobra.Command{
		Use:           "pcapng-reader",
		Short:         "pcapng-reader decodes and inspects pcapng capture files",
		Long:          `Decode pcapng blocks and options, list packets, export captures to SQLite or browse them interactively`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(onInit)
	rootCmd.PersistentFlags().StringVarP(&logLevel, "loglevel", "l", "info", "Log level")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "", "", "YAML file overriding the embedded configuration")
	rootCmd.PersistentFlags().StringVarP(&unknownOptions, "unknown-options", "", "fail", "What to do with unknown option codes: fail or keep")
	rootCmd.PersistentFlags().Uint32VarP(&maxBlockLength, "max-block-length", "", pcapng.DefaultMaxBlockLength, "Reject blocks larger than this many bytes, 0 for no limit")

	rootCmd.AddCommand(blocksCmd)
	rootCmd.AddCommand(packetsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(browseCmd)
}

func onInit() {
	lvl, err := logrus.ParseLevel(logLevel)
	if err != nil {
		log.Warnf("Unknown log level %q, keeping %s", logLevel, log.GetLevel())
	} else {
		log.SetLevel(lvl)
	}

	if err := LoadConfig(configPath); err != nil {
		log.Fatalf("can't load config from yaml: %v", err)
	}

	// flags win over the configuration file
	if !rootCmd.PersistentFlags().Changed("unknown-options") {
		unknownOptions = cfg.Decoder.UnknownOptions
	}
	if !rootCmd.PersistentFlags().Changed("max-block-length") {
		maxBlockLength = cfg.Decoder.MaxBlockLength
	}

	log.Debugf("Log level: %s\nUnknown options: %s\nMax block length: %d", logLevel, unknownOptions, maxBlockLength)
}

func newDecoder() (*pcapng.Decoder, error) {
	policy, err := pcapng.ParseUnknownOptionPolicy(unknownOptions)
	if err != nil {
		return nil, err
	}
	d := pcapng.NewDecoder()
	d.UnknownOptions = policy
	d.MaxBlockLength = maxBlockLength
	return d, nil
}

// scanFile calls fn for every record of the capture at path, stopping at the first error.
func scanFile(path string, m *metrics.Metrics, skipSummary bool, fn func(*capture.Record) error) error {
	d, err := newDecoder()
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	s := capture.NewScanner(f, capture.Options{
		Decoder:     d,
		Logger:      log,
		Metrics:     m,
		SkipSummary: skipSummary,
	})
	for {
		rec, err := s.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

func out() io.Writer {
	return outputBuffer
}

// SetVersion is called from main with the values set at build time.
func SetVersion(version, date string) {
	if version == "" {
		version = "dev"
	}
	rootCmd.Version = version
	if date != "" {
		rootCmd.Version += " (built " + date + ")"
	}
}
