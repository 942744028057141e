package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/itsallnoise/kontakt-version-manager/internal/kvm"
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/backup"
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/config"
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/domain"
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/report"
)

type rootOptions struct {
	output   string
	logLevel string
	verbose  bool
	noColor  bool
}

// NewRootCommand constructs the root Cobra command for kvm. level receives
// the value of --log-level and may be nil.
func NewRootCommand(mgr *kvm.Manager, prompter Prompter, stdout, stderr io.Writer, level *slog.LevelVar) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "kvm",
		Short:         "Kontakt Version Manager",
		Long:          "kvm swaps installed Kontakt binaries with versions archived in a library folder.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.output = strings.ToLower(strings.TrimSpace(opts.output))
			if _, err := report.NewRenderer(opts.output, false); err != nil {
				return err
			}
			return applyLogLevel(level, opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForm(cmd, mgr, prompter, opts)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.output, "output", "o", report.FormatText, "Output format: text, json or yaml")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(newTransferCommand(mgr, opts, domain.ModeLoad, "Set the selected version as the active version"))
	cmd.AddCommand(newTransferCommand(mgr, opts, domain.ModeStore, "Save the active version into the library"))
	cmd.AddCommand(newTransferCommand(mgr, opts, domain.ModeRead, "Display the version last loaded or stored"))
	cmd.AddCommand(newLibraryCommand(mgr, prompter))
	cmd.AddCommand(newListCommand(mgr, opts))
	cmd.AddCommand(newInfoCommand(mgr, opts))
	cmd.AddCommand(newPruneCommand(mgr, prompter))

	return cmd
}

func applyLogLevel(level *slog.LevelVar, opts *rootOptions) error {
	if level == nil {
		return nil
	}
	if opts.verbose {
		level.Set(slog.LevelDebug)
		return nil
	}
	if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", opts.logLevel, err)
	}
	return nil
}

type requestFlags struct {
	slot    int
	label   string
	vst     bool
	aax     bool
	library string
}

func newTransferCommand(mgr *kvm.Manager, opts *rootOptions, mode domain.Mode, short string) *cobra.Command {
	f := &requestFlags{}
	cmd := &cobra.Command{
		Use:   string(mode),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slot := domain.Slot(f.slot)
			label := strings.TrimSpace(f.label)
			if label == "" && mode != domain.ModeRead {
				label = defaultLabel(slot)
			}
			return runRequest(cmd, mgr, opts, kvm.Request{
				Mode:        mode,
				Slot:        slot,
				Label:       label,
				IncludeVST:  f.vst,
				IncludeAAX:  f.aax,
				LibraryPath: f.library,
			})
		},
	}

	cmd.Flags().IntVar(&f.slot, "slot", int(domain.DefaultSlot), "Kontakt release line (5, 6, 7 or 8)")
	cmd.Flags().StringVar(&f.label, "label", "", `Version label, e.g. "8.0.0" or "8.0.0 beta" (default "<slot>.0.0", ignored by read)`)
	cmd.Flags().StringVar(&f.library, "library", "", "Library folder for this run instead of the saved one")
	cmd.Flags().BoolVar(&f.vst, "vst", true, "Include the VST plugin (--vst=false to skip)")
	cmd.Flags().BoolVar(&f.aax, "aax", true, "Include the AAX plugin (--aax=false to skip)")
	return cmd
}

func defaultLabel(slot domain.Slot) string {
	return slot.String() + ".0.0"
}

// runRequest runs req and renders its report. Only rejected requests are
// returned as errors; per-file failures are reported and the command
// succeeds.
func runRequest(cmd *cobra.Command, mgr *kvm.Manager, opts *rootOptions, req kvm.Request) error {
	renderer, err := report.NewRenderer(opts.output, !opts.noColor)
	if err != nil {
		return err
	}
	rep, runErr := mgr.Run(req)
	if err := renderer.Render(cmd.OutOrStdout(), rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if runErr != nil {
		return fmt.Errorf("%w: %w", ErrRejected, runErr)
	}
	return nil
}

func runForm(cmd *cobra.Command, mgr *kvm.Manager, prompter Prompter, opts *rootOptions) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, mgr.Instructions())
	if !interactive(prompter) {
		return nil
	}

	slots := mgr.Slots()
	if len(slots) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedPlatform, mgr.Platform())
	}

	modes := make([]string, 0, len(domain.Modes))
	for _, m := range domain.Modes {
		modes = append(modes, string(m))
	}
	_, modeValue, err := prompter.Select("Mode", modes, string(domain.ModeLoad))
	if err != nil {
		return err
	}
	mode, err := domain.ParseMode(modeValue)
	if err != nil {
		return err
	}

	slotItems := make([]string, 0, len(slots))
	for _, s := range slots {
		slotItems = append(slotItems, s.String())
	}
	_, slotValue, err := prompter.Select("Kontakt Version", slotItems, domain.DefaultSlot.String())
	if err != nil {
		return err
	}
	slot, err := domain.ParseSlot(slotValue)
	if err != nil {
		return err
	}

	label := ""
	if mode != domain.ModeRead {
		value, err := prompter.Prompt("Version Label", defaultLabel(slot))
		if err != nil {
			return err
		}
		label = strings.TrimSpace(value)
		if label == "" {
			label = defaultLabel(slot)
		}
	}

	vst, err := prompter.Confirm("Include VST plugin", true)
	if err != nil {
		return err
	}
	aax, err := prompter.Confirm("Include AAX plugin", true)
	if err != nil {
		return err
	}

	return runRequest(cmd, mgr, opts, kvm.Request{
		Mode:       mode,
		Slot:       slot,
		Label:      label,
		IncludeVST: vst,
		IncludeAAX: aax,
	})
}

func newLibraryCommand(mgr *kvm.Manager, prompter Prompter) *cobra.Command {
	return &cobra.Command{
		Use:   "library [path]",
		Short: "Show or set the library folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			current, err := mgr.LibraryPath()
			if err != nil {
				return err
			}

			path := ""
			if len(args) == 1 {
				path = args[0]
			} else if interactive(prompter) {
				defaultValue := current
				if defaultValue == config.DefaultLibraryPrompt {
					defaultValue = ""
				}
				value, err := prompter.Prompt(config.DefaultLibraryPrompt, defaultValue)
				if err != nil {
					return err
				}
				path = value
			}

			path = strings.TrimSpace(path)
			if path == "" {
				fmt.Fprintln(out, current)
				return nil
			}
			if err := mgr.SetLibraryPath(path); err != nil {
				return err
			}
			fmt.Fprintf(out, "Library path set to: %s\n", path)
			return nil
		},
	}
}

func newListCommand(mgr *kvm.Manager, opts *rootOptions) *cobra.Command {
	var slot int
	var vst, aax bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the versions archived in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listings, err := mgr.ListLibrary(domain.Slot(slot), vst, aax)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.output != report.FormatText {
				return report.Encode(out, opts.output, listings)
			}
			for _, listing := range listings {
				fmt.Fprintf(out, "Kontakt %d %s (%s):\n", slot, listing.Kind, listing.Ext)
				if len(listing.Entries) == 0 {
					fmt.Fprintln(out, "  No archived versions found.")
					continue
				}
				for _, entry := range listing.Entries {
					qualifier := ""
					if len(entry.Qualifiers) > 0 {
						qualifier = " (" + strings.Join(entry.Qualifiers, ", ") + ")"
					}
					fmt.Fprintf(out, "%s [%s]%s\n", entry.Prefix, entry.Label, qualifier)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&slot, "slot", int(domain.DefaultSlot), "Kontakt release line (5, 6, 7 or 8)")
	cmd.Flags().BoolVar(&vst, "vst", false, "Include the VST plugin")
	cmd.Flags().BoolVar(&aax, "aax", false, "Include the AAX plugin")
	return cmd
}

type infoView struct {
	Platform    string        `json:"platform" yaml:"platform"`
	Slots       []domain.Slot `json:"slots" yaml:"slots"`
	ConfigPath  string        `json:"config_path" yaml:"config_path"`
	BackupDir   string        `json:"backup_dir" yaml:"backup_dir"`
	LibraryPath string        `json:"library_path" yaml:"library_path"`
}

func newInfoCommand(mgr *kvm.Manager, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show usage instructions and where program data is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			libraryPath, err := mgr.LibraryPath()
			if err != nil {
				return err
			}
			view := infoView{
				Platform:    mgr.Platform(),
				Slots:       mgr.Slots(),
				ConfigPath:  mgr.ConfigPath(),
				BackupDir:   mgr.BackupDir(),
				LibraryPath: libraryPath,
			}
			out := cmd.OutOrStdout()
			if opts.output != report.FormatText {
				return report.Encode(out, opts.output, view)
			}
			fmt.Fprintln(out, mgr.Instructions())
			fmt.Fprintf(out, "Library: %s\n", view.LibraryPath)
			fmt.Fprintf(out, "Backups: %s\n", view.BackupDir)
			fmt.Fprintf(out, "Platform: %s\n", view.Platform)
			return nil
		},
	}
}

func newPruneCommand(mgr *kvm.Manager, prompter Prompter) *cobra.Command {
	var olderThanStr string
	var force bool

	cmd := &cobra.Command{
		Use:   "prune-backups",
		Short: "Remove outdated backups of replaced install files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var duration time.Duration
			var err error

			if olderThanStr != "" {
				duration, err = backup.ParseRetention(olderThanStr)
				if err != nil {
					return err
				}
			} else {
				if !interactive(prompter) {
					return errors.New("--older-than is required in non-interactive mode")
				}
				options := []string{"30d", "90d", "180d", "Cancel"}
				_, choice, err := prompter.Select("Prune backups older than", options, "30d")
				if err != nil {
					return err
				}
				if choice == "Cancel" {
					fmt.Fprintln(out, "Prune cancelled.")
					return nil
				}
				duration, err = backup.ParseRetention(choice)
				if err != nil {
					return err
				}
			}

			if !force && interactive(prompter) {
				confirm, err := prompter.Confirm(fmt.Sprintf("Delete backups older than %s", backup.HumanizeRetention(duration)), false)
				if err != nil {
					return err
				}
				if !confirm {
					fmt.Fprintln(out, "Prune cancelled.")
					return nil
				}
			}

			count, err := mgr.PruneBackups(duration)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted %d backup(s).\n", count)
			return nil
		},
	}

	cmd.Flags().StringVar(&olderThanStr, "older-than", "", "Delete backups older than the specified duration (e.g. 30d)")
	cmd.Flags().BoolVar(&force, "force", false, "Do not prompt for confirmation")

	return cmd
}
