package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/dailytracker/internal/backup"
	"github.com/manav03panchal/dailytracker/internal/errors"
)

// Backup command flags.
var (
	exportFlagOutput string
	importFlagDryRun bool
	importFlagYes    bool
)

// exportCmd writes a backup of all tasks and check-ins.
var exportCmd = &cobra.Command{
	Use:     "export",
	Aliases: []string{"exp", "backup"},
	Short:   "Write a JSON backup of all data",
	Long: `Write every task and check-in to a JSON backup file. The file can be
restored with "tracker import".

Examples:
  tracker export
  tracker export -o ~/backups/tracker.json
  tracker export -o - > tracker.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

// importCmd replaces all data with the contents of a backup.
var importCmd = &cobra.Command{
	Use:     "import FILE",
	Aliases: []string{"imp", "restore"},
	Short:   "Replace all data with a JSON backup",
	Long: `Validate a backup file and replace every task and check-in with its
contents. The file is checked completely before anything is changed, and a
failed import leaves existing data untouched.

Examples:
  tracker import backup.json --dry-run
  tracker import backup.json --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFlagOutput, "output", "o", "", `Output file ("-" for stdout)`)

	importCmd.Flags().BoolVar(&importFlagDryRun, "dry-run", false, "Validate the file without importing")
	importCmd.Flags().BoolVarP(&importFlagYes, "yes", "y", false, "Replace data without asking")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	doc, err := ctx.Tracker.Export(cmd.Context())
	if err != nil {
		return err
	}

	if exportFlagOutput == "-" {
		return backup.Encode(cmd.OutOrStdout(), doc)
	}

	path := exportFlagOutput
	if path == "" {
		path = backup.FileName(ctx.Now())
	}
	if err := backup.Write(path, doc); err != nil {
		return fileError("export", path, err)
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintImport("exported", path, len(doc.Tasks), len(doc.Logs))
	}
	ctx.CLIFormatter().Success(fmt.Sprintf("Exported %d tasks and %d check-ins to %s",
		len(doc.Tasks), len(doc.Logs), path))
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	doc, err := backup.Read(path, ctx.Now())
	if err != nil {
		if errors.IsUserError(err) {
			return err
		}
		return fileError("import", path, err)
	}

	if importFlagDryRun {
		if ctx.IsJSON() {
			return ctx.JSONFormatter().PrintImport("valid", path, len(doc.Tasks), len(doc.Logs))
		}
		ctx.CLIFormatter().Success(fmt.Sprintf("%s is valid: %d tasks, %d check-ins",
			path, len(doc.Tasks), len(doc.Logs)))
		return nil
	}

	ok, err := confirm("Replace all tasks and check-ins with "+path+"?", importFlagYes)
	if err != nil {
		return err
	}
	if !ok {
		ctx.CLIFormatter().Muted("Import cancelled")
		return nil
	}

	if err := ctx.Tracker.ApplyImport(cmd.Context(), doc); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintImport("imported", path, len(doc.Tasks), len(doc.Logs))
	}
	ctx.CLIFormatter().Success(fmt.Sprintf("Imported %d tasks and %d check-ins",
		len(doc.Tasks), len(doc.Logs)))
	return nil
}

// fileError turns a file system failure into a user-facing error.
func fileError(op, path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return errors.NewUserErrorWithField("file", path, "File not found", "Check the path and try again")
	case os.IsPermission(err):
		return &errors.UserError{
			Message:    "Permission denied: " + path,
			Suggestion: errors.GetSuggestion(errors.ErrPermissionDenied),
			Field:      "file",
			Value:      path,
			Cause:      errors.ErrPermissionDenied,
		}
	}
	return errors.NewSystemErrorWithOp(op, "failed to access "+path, err)
}
