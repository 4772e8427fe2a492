package main

import (
	"fmt"
	"lowc/src/backend"
	"lowc/src/frontend"
	"lowc/src/util"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd returns the lowc command. Option defaults are read from the environment and overridden by flags.
func newRootCmd() *cobra.Command {
	opt := util.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "lowc [listing]",
		Short: "Plan registers and stack slots for function listings and emit assembler",
		Long: "lowc reads a TOML listing of macro-instruction functions, plans register and stack locations for every\n" +
			"variable and writes assembler for the target architecture. The listing is read from stdin when no\n" +
			"file is given.\n\nTargets: " + strings.Join(backend.Targets(), ", "),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opt.Src = args[0]
			}
			err := run(cmd, opt)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "lowc: %s\n", err)
			}
			return err
		},
	}
	opt.Flags(cmd.Flags())
	return cmd
}

// run compiles the listing named by opt.
func run(cmd *cobra.Command, opt util.Options) error {
	if err := opt.Validate(); err != nil {
		return err
	}
	if opt.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	t, err := backend.Lookup(opt.Arch)
	if err != nil {
		return err
	}

	// Read and parse the listing.
	src, err := util.ReadSource(opt, cmd.InOrStdin())
	if err != nil {
		return err
	}
	fns, err := frontend.ParseListing(src)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"arch":      t.Name(),
		"functions": len(fns),
		"threads":   opt.Threads,
	}).Debug("generating assembler")

	s, err := backend.GenerateAssembler(cmd.Context(), opt, t, fns)
	if err != nil {
		return err
	}
	return util.WriteOutput(opt, cmd.OutOrStdout(), s)
}
