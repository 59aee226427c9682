package pot

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mgolubev/pot/internal/version"
	"github.com/mgolubev/pot/pkg/config"
	"github.com/mgolubev/pot/pkg/filesystem"
	"github.com/mgolubev/pot/pkg/linker"
	"github.com/mgolubev/pot/pkg/logging"
	"github.com/mgolubev/pot/pkg/manifest"
	"github.com/mgolubev/pot/pkg/paths"
	"github.com/mgolubev/pot/pkg/store"
	"github.com/mgolubev/pot/pkg/ui/styles"
)

// globalFlags are shared by the subcommands
type globalFlags struct {
	verbosity int
	force     bool
	failFast  bool
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "pot",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(flags.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// no subcommand given: show help but signal incorrect usage
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVar(&flags.verbosity, "verbose", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVarP(&flags.force, "force", "f", false, MsgFlagForce)
	rootCmd.PersistentFlags().BoolVarP(&flags.failFast, "fail-fast", "F", false, MsgFlagFailFast)

	// claim -v for the version flag before cobra adds its own
	rootCmd.Flags().BoolP("version", "v", false, MsgFlagVersion)
	rootCmd.SetVersionTemplate(MsgVersionTemplate)

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newInstallCmd(flags))
	rootCmd.AddCommand(newGrubCmd(flags))

	return rootCmd
}

// resolve loads the settings and resolves the store location from the
// optional positional location argument.
func resolve(location string) (*paths.Paths, *config.Settings, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	p, err := paths.New(location, cfg.Store, cfg.Manifest)
	if err != nil {
		return nil, nil, err
	}
	return p, cfg, nil
}

func newInitCmd() *cobra.Command {
	var gitURL string

	cmd := &cobra.Command{
		Use:   "init [location]",
		Short: MsgInitShort,
		Long:  MsgInitLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := ""
			if len(args) > 0 {
				location = args[0]
			}
			p, _, err := resolve(location)
			if err != nil {
				return err
			}

			result, err := store.Init(cmd.Context(), store.InitOptions{
				Paths:  p,
				GitURL: gitURL,
			})
			if err != nil {
				return fmt.Errorf(MsgErrInit, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgInitialized, styles.GetStyle("Path").Render(result.StoreRoot))
			for _, name := range result.Seeded {
				fmt.Fprintf(out, MsgSeededItem, name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&gitURL, "git", "", MsgFlagGit)

	return cmd
}

func newInstallCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "install [location]",
		Short: MsgInstallShort,
		Long:  MsgInstallLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := ""
			if len(args) > 0 {
				location = args[0]
			}
			p, cfg, err := resolve(location)
			if err != nil {
				return err
			}

			m, err := manifest.Load(filesystem.NewOS(), p.ManifestPath())
			if err != nil {
				return err
			}

			result, err := linker.Install(linker.Options{
				Paths:           p,
				Manifest:        m,
				Force:           flags.force,
				FailFast:        flags.failFast,
				InclusionFormat: cfg.InclusionFormat,
			})
			printInstallResult(cmd, result)
			if err != nil {
				return fmt.Errorf(MsgErrInstall, err)
			}
			return nil
		},
	}
}

func printInstallResult(cmd *cobra.Command, result *linker.Result) {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	for _, e := range result.Entries {
		switch e.Status {
		case linker.StatusLinked:
			fmt.Fprintf(out, MsgEntryLinked, e.Dotfile.Name, e.Target)
		case linker.StatusCopied:
			fmt.Fprintf(out, MsgEntryCopied, e.Dotfile.Name, e.Target)
		case linker.StatusIncluded:
			fmt.Fprintf(out, MsgEntryIncluded, e.Dotfile.Name, e.Target)
		case linker.StatusUnchanged:
			fmt.Fprintf(out, MsgEntryUnchanged, e.Dotfile.Name)
		case linker.StatusConflict:
			fmt.Fprintln(errOut, styles.GetStyle("Warning").Render(e.Err.Error()))
		case linker.StatusMissing, linker.StatusFailed:
			fmt.Fprintln(errOut, styles.GetStyle("Error").Render(e.Err.Error()))
		}
	}
	if result.Aborted {
		fmt.Fprintln(errOut, styles.GetStyle("Subtle").Render(MsgAborted))
	}
}

func newGrubCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "grub <path>",
		Short: MsgGrubShort,
		Long:  MsgGrubLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := resolve("")
			if err != nil {
				return err
			}

			result, err := store.Grab(store.GrabOptions{
				Paths: p,
				Path:  args[0],
				Force: flags.force,
			})
			if err != nil {
				return fmt.Errorf(MsgErrGrub, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), MsgGrabbed,
				result.OriginalPath, styles.GetStyle("Path").Render(result.StoredPath))
			return nil
		},
	}
}
