package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"lessonbook/internal/config"
	"lessonbook/internal/database"
	"lessonbook/internal/domain"
	"lessonbook/internal/parser"
	"lessonbook/internal/repository/postgres"
	"lessonbook/internal/service"
	"lessonbook/internal/validator"

	"github.com/spf13/cobra"
)

var (
	errParse    = errors.New("lesson file could not be parsed")
	errInvalid  = errors.New("lesson file failed validation")
	errConflict = errors.New("lesson already exists; rerun with --merge to add to it")
	errPartial  = errors.New("some records failed to import")
)

type importOptions struct {
	owner  int64
	file   string
	format string
	merge  bool
}

func newImportCmd(root *rootOptions) *cobra.Command {
	opts := importOptions{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a lesson file (csv, json or xlsx) for an owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.owner == 0 {
				return fmt.Errorf("--owner is required")
			}

			dbCfg, err := config.LoadDatabase()
			if err != nil {
				return err
			}

			db, err := database.Connect(cmd.Context(), dbCfg.DSN(), root.logger)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(db, root.logger); err != nil {
				return err
			}

			lessonRepo := postgres.NewLessonRepo(db)
			svc := importServices{
				conflicts: service.NewConflictService(lessonRepo),
				importer:  service.NewImportService(postgres.NewTermRepo(db), lessonRepo, root.logger),
			}
			return svc.importFile(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Int64Var(&opts.owner, "owner", 0, "Owner (Telegram user) ID (required)")
	cmd.Flags().StringVar(&opts.file, "file", "", "Path to the lesson file (required)")
	cmd.Flags().StringVar(&opts.format, "format", "", "csv, json or xlsx (default: from the file extension)")
	cmd.Flags().BoolVar(&opts.merge, "merge", false, "Add to an existing lesson with the same number")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

type importServices struct {
	conflicts *service.ConflictService
	importer  *service.ImportService
}

// importFile runs one file through parse, validation, conflict check and
// import, reporting to out.
func (s importServices) importFile(ctx context.Context, opts importOptions, out io.Writer) error {
	raw, err := os.ReadFile(opts.file)
	if err != nil {
		return fmt.Errorf("read %s: %w", opts.file, err)
	}

	format := domain.Format(opts.format)
	if format == "" {
		if format, err = parser.DetectFormat(opts.file); err != nil {
			return err
		}
	}

	batch, err := parser.Parse(raw, format)
	if err != nil {
		var failure *parser.ParseFailure
		if errors.As(err, &failure) {
			printErrors(out, failure.Errors)
			return errParse
		}
		return err
	}

	if v := validator.Validate(batch); !v.Valid {
		printErrors(out, v.Errors)
		return errInvalid
	}

	existing, err := s.conflicts.CheckLessonConflict(ctx, opts.owner, batch.Meta.Number)
	if err != nil {
		return err
	}
	if existing != nil && !opts.merge {
		fmt.Fprintln(out, service.FormatConflictMessage(batch.Meta.Number, existing, batch.Meta.Name, batch.Meta.Topics))
		return errConflict
	}

	result, err := s.importer.ImportParsed(ctx, opts.owner, batch)
	if result != nil && len(result.Errors) > 0 {
		printErrors(out, result.Errors)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Lesson %d: %d new terms, %d reused, %d failed\n",
		result.LessonNumber, result.NewTermsCount, result.ReusedTermsCount, len(result.Errors))
	if !result.Success {
		return errPartial
	}
	return nil
}

func printErrors(out io.Writer, errs []domain.RowError) {
	for _, e := range errs {
		fmt.Fprintln(out, e.String())
	}
}
