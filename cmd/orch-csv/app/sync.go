package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Bricesodini/orch-csv/internal/rows"
	"github.com/Bricesodini/orch-csv/pkg/errors"
	"github.com/Bricesodini/orch-csv/pkg/identity"
	"github.com/Bricesodini/orch-csv/pkg/mapping"
	csvsync "github.com/Bricesodini/orch-csv/pkg/sync"
)

// syncFlags holds the sync command's own flags.
type syncFlags struct {
	csvPath    string
	out        string
	vault      string
	outSubpath string
	vaultName  string
	mapping    string
	project    string
	idKey      string
	idPrefix   string
	idPad      int
	idFallback string
	dryRun     bool
}

// newSyncCommand creates the sync command.
func (a *App) newSyncCommand() *cobra.Command {
	flags := &syncFlags{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync a contact CSV into a vault directory",
		Long: `Sync reads the CSV, resolves each column through the alias mapping, and
creates or updates one Markdown note per contact in the output directory.

The output directory is resolved from --out, from --vault plus --out-subpath,
or from --vault-name for vaults stored in iCloud Drive
(~/Library/Mobile Documents/iCloud~md~obsidian/Documents/<name>).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSync(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.csvPath, "csv", "", "path to the input CSV (required)")
	cmd.Flags().StringVar(&flags.out, "out", "", "output folder (contacts directory)")
	cmd.Flags().StringVar(&flags.vault, "vault", "", "path to the vault root")
	cmd.Flags().StringVar(&flags.outSubpath, "out-subpath", "", "relative subpath inside the vault, e.g. \"Projets/MJC/Contacts\"")
	cmd.Flags().StringVar(&flags.vaultName, "vault-name", "", "name of a vault stored in iCloud Drive")
	cmd.Flags().StringVar(&flags.mapping, "mapping", "", "mapping file, YAML or JSON (built-in defaults when omitted)")
	cmd.Flags().StringVar(&flags.project, "project", "", "project profile key from the mapping file")
	cmd.Flags().StringVar(&flags.idKey, "id-key", mapping.FieldID, "logical key used as unique id")
	cmd.Flags().StringVar(&flags.idPrefix, "id-prefix", "", "prefix to compose a custom id, e.g. \"Scolaires\" -> SCO-001")
	cmd.Flags().IntVar(&flags.idPad, "id-pad", 3, "zero-padding width for composed numeric ids")
	cmd.Flags().StringVar(&flags.idFallback, "id-fallback", "seq", "fallback for non-numeric source ids: seq, hash, raw, or skip")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "preview actions without writing files")
	_ = cmd.MarkFlagRequired("csv")

	return cmd
}

// runSync resolves paths and configuration, then drives the pipeline.
// Flag values win; the config file's mapping_file and vault_path fill gaps.
func (a *App) runSync(cmd *cobra.Command, flags *syncFlags) error {
	if flags.out == "" && flags.vault == "" && flags.vaultName == "" {
		flags.out = a.config.VaultPath
	}
	if flags.mapping == "" {
		flags.mapping = a.config.MappingFile
	}

	outDir, err := resolveOutputDirectory(flags)
	if err != nil {
		return err
	}

	cfg, err := loadMapping(flags.mapping)
	if err != nil {
		return err
	}

	fallback, err := identity.ParseFallback(flags.idFallback)
	if err != nil {
		return err
	}

	records, err := rows.Read(expandUser(flags.csvPath), cfg)
	if err != nil {
		return err
	}

	opts := []csvsync.Option{
		csvsync.WithProject(flags.project),
		csvsync.WithIDKey(flags.idKey),
		csvsync.WithPreview(flags.dryRun),
	}
	if flags.idPrefix != "" {
		opts = append(opts, csvsync.WithIdentity(identity.MakePrefix(flags.idPrefix), flags.idPad, fallback))
	}

	syncer, err := csvsync.New(outDir, cfg, opts...)
	if err != nil {
		return err
	}

	res, err := syncer.Run(cmd.Context(), records)
	if err != nil {
		return err
	}

	if flags.dryRun {
		for _, action := range res.Actions {
			if action.Outcome == csvsync.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "[SKIPPED]\n")
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s | %s | %s\n",
				action.Outcome, action.ID, filepath.Base(action.Target), action.Email)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Done. Created: %d, Updated: %d, Skipped: %d\n",
			res.Created, res.Updated, res.Skipped)
	}
	return nil
}

// loadMapping loads the mapping file, or returns built-in defaults when no
// file was given.
func loadMapping(path string) (*mapping.Config, error) {
	if path == "" {
		return mapping.Default(), nil
	}
	return mapping.Load(expandUser(path))
}

// resolveOutputDirectory resolves the contacts directory from the portable
// output flags. --vault-name points at a vault synced through iCloud Drive
// and must already exist.
func resolveOutputDirectory(flags *syncFlags) (string, error) {
	if flags.vaultName != "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.WrapIO("resolve", "home directory", err)
		}
		vaultDir := filepath.Join(home, "Library", "Mobile Documents", "iCloud~md~obsidian", "Documents", flags.vaultName)
		if _, err := os.Stat(vaultDir); err != nil {
			return "", errors.NewConfigError("vault-name",
				fmt.Sprintf("vault %q not found in iCloud: %s", flags.vaultName, vaultDir), err)
		}
		if flags.outSubpath != "" {
			return filepath.Join(vaultDir, flags.outSubpath), nil
		}
		return vaultDir, nil
	}
	if flags.vault != "" && flags.outSubpath != "" {
		return filepath.Join(expandUser(flags.vault), flags.outSubpath), nil
	}
	if flags.out != "" {
		return expandUser(flags.out), nil
	}
	return "", errors.NewConfigError("output",
		"must provide either --out, or --vault + --out-subpath, or --vault-name (+ optional --out-subpath)", nil)
}

// expandUser expands a leading ~ to the user's home directory.
func expandUser(path string) string {
	if len(path) >= 2 && path[0] == '~' && path[1] == filepath.Separator {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
