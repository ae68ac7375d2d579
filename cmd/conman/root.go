package conman

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/conman/pkg/cobrax/topics"
	"github.com/arthur-debert/conman/pkg/commands/apply"
	"github.com/arthur-debert/conman/pkg/commands/edit"
	"github.com/arthur-debert/conman/pkg/commands/genconfig"
	"github.com/arthur-debert/conman/pkg/commands/status"
	"github.com/arthur-debert/conman/pkg/errors"
	"github.com/arthur-debert/conman/pkg/logging"
)

// Set at build time via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

//go:embed topics
var topicsFS embed.FS

// NewRootCmd builds the conman command tree
func NewRootCmd() *cobra.Command {
	var (
		verbosity  int
		root       string
		backupRoot string
	)

	rootCmd := &cobra.Command{
		Use:   "conman",
		Short: MsgRootShort,
		Long:  MsgRootLong,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&root, "root", "",
		"Config root templates are discovered under (default: CONMAN_ROOT)")
	rootCmd.PersistentFlags().StringVar(&backupRoot, "backup-root", "",
		"Directory backups are kept under (default: CONMAN_BACKUP_ROOT)")

	rootCmd.AddCommand(newApplyCmd(&root, &backupRoot))
	rootCmd.AddCommand(newEditCmd(&root, &backupRoot))
	rootCmd.AddCommand(newStatusCmd(&root, &backupRoot))
	rootCmd.AddCommand(newGenConfigCmd(&root))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd(rootCmd))

	if topicsDir, err := fs.Sub(topicsFS, "topics"); err == nil {
		_ = topics.Initialize(rootCmd, topicsDir, topics.Options{
			Extensions: []string{".md", ".txt"},
			Renderer:   topics.NewGlamourRenderer(),
		})
	}

	return rootCmd
}

func newApplyCmd(root, backupRoot *string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: MsgApplyShort,
		Long:  MsgApplyLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := apply.Apply(cmd.Context(), apply.Options{
				Root:       *root,
				BackupRoot: *backupRoot,
				Force:      force,
				Out:        cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}
			if summary.Declined > 0 {
				fmt.Fprint(cmd.OutOrStdout(), MsgDeclinedNotice)
			}
			if summary.Failures > 0 {
				return errors.Newf(errors.ErrExpansionFailed,
					"%d of %d templates failed to expand", summary.Failures, summary.Templates)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false,
		"Overwrite hand-edited destinations without asking")
	return cmd
}

func newEditCmd(root, backupRoot *string) *cobra.Command {
	var locateOnly bool

	cmd := &cobra.Command{
		Use:   "edit <installed-file>",
		Short: MsgEditShort,
		Long:  MsgEditLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit.Edit(cmd.Context(), edit.Options{
				Root:        *root,
				BackupRoot:  *backupRoot,
				Destination: args[0],
				LocateOnly:  locateOnly,
				Out:         cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().BoolVar(&locateOnly, "locate", false,
		"Print the template path instead of opening an editor")
	return cmd
}

func newStatusCmd(root, backupRoot *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: MsgStatusShort,
		Long:  MsgStatusLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := status.Status(status.Options{
				Root:       *root,
				BackupRoot: *backupRoot,
				Out:        cmd.OutOrStdout(),
			})
			return err
		},
	}
}

func newGenConfigCmd(root *string) *cobra.Command {
	var (
		resolved bool
		write    bool
	)

	cmd := &cobra.Command{
		Use:   "gen-config",
		Short: MsgGenConfigShort,
		Long:  MsgGenConfigLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := genconfig.GenConfig(genconfig.Options{
				Root:     *root,
				Resolved: resolved,
				Write:    write,
				Out:      cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}
			if write && result.Path != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Written %s\n", result.Path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&resolved, "resolved", false,
		"Print the resolved configuration instead of the defaults")
	cmd.Flags().BoolVar(&write, "write", false,
		"Save the defaults to the XDG config dir instead of printing")
	cmd.MarkFlagsMutuallyExclusive("resolved", "write")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "conman version %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}
}

func newManCmd(rootCmd *cobra.Command) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:    "man",
		Short:  MsgManShort,
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "CONMAN",
				Section: "1",
			}
			return doc.GenManTree(rootCmd, header, outDir)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "/tmp", "Directory man pages are written to")
	return cmd
}
