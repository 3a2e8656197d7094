package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/yanqian/faq-admin/internal/domain/faq"
	"github.com/yanqian/faq-admin/internal/infra/faqfile"
	apperrors "github.com/yanqian/faq-admin/pkg/errors"
)

func (c *cli) migrateCmd() *cobra.Command {
	var legacy string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Import a first-generation question/answer file",
		Long: `Import a legacy FAQ file of {question, answer} objects into the
enhanced file. Records whose question already exists are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			data, err := os.ReadFile(legacy)
			if err != nil {
				return apperrors.Wrap(faq.CodeLoadFailed, "read legacy file", err)
			}
			items, err := faq.DecodeLegacy(data)
			if err != nil {
				return err
			}
			_, svc, err := c.open(ctx)
			if err != nil {
				return err
			}
			report, err := svc.Migrate(ctx, items)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "imported %d of %d records into %s (skipped %d)\n", report.Imported, report.Total, c.file, report.Skipped)
			for _, q := range report.Duplicates {
				fmt.Fprintf(c.out, "  duplicate: %s\n", q)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&legacy, "legacy", c.defaults.LegacyPath, "legacy FAQ file")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	var (
		category string
		tags     []string
		format   string
		out      string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the collection, or a category or tag subset, to a JSON or CSV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			_, svc, err := c.open(ctx)
			if err != nil {
				return err
			}
			result, err := svc.Export(ctx, faq.ExportRequest{Category: category, Tags: tags, Format: format})
			if err != nil {
				return err
			}
			if out == "-" {
				_, err := c.out.Write(result.Data)
				return err
			}
			if out == "" {
				out = result.FileName
			}
			if err := os.WriteFile(out, result.Data, 0o644); err != nil {
				return apperrors.Wrap(faq.CodeSaveFailed, "write export", err)
			}
			fmt.Fprintf(c.out, "wrote %d records to %s\n", result.Count, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only export this category")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "only export records carrying any of these tags")
	cmd.Flags().StringVar(&format, "format", "json", "json or csv")
	cmd.Flags().StringVar(&out, "out", "", "output path, - for stdout (defaults to the export file name)")
	return cmd
}

func (c *cli) pruneCmd() *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "prune-backups",
		Short: "Delete the oldest backups of the FAQ file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if keep <= 0 {
				return apperrors.Wrap(faq.CodeInvalidInput, "--keep must be positive", nil)
			}
			removed, err := faqfile.PruneBackups(filepath.Dir(c.file), c.purpose, keep)
			if err != nil {
				return err
			}
			for _, name := range removed {
				fmt.Fprintf(c.out, "removed %s\n", name)
			}
			fmt.Fprintf(c.out, "%d backups removed\n", len(removed))
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", c.defaults.Backup.Keep, "number of backups to keep")
	return cmd
}

func (c *cli) searchCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "List records whose question, answer or tags match the query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			_, svc, err := c.open(ctx)
			if err != nil {
				return err
			}
			records, err := svc.List(ctx, faq.ListRequest{Query: strings.Join(args, " "), Category: category})
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(c.out, "no matching FAQs")
				return nil
			}
			for _, r := range records {
				fmt.Fprintf(c.out, "%-48s  %-22s  %s\n", r.ID, r.Category, r.Question)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "restrict to one category")
	return cmd
}

func (c *cli) showCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one record with its answer rendered as markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			_, svc, err := c.open(ctx)
			if err != nil {
				return err
			}
			record, err := svc.Get(ctx, args[0])
			if err != nil {
				return err
			}
			doc := recordMarkdown(record)
			if raw {
				_, err := fmt.Fprint(c.out, doc)
				return err
			}
			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(80),
			)
			if err != nil {
				return err
			}
			rendered, err := renderer.Render(doc)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(c.out, rendered)
			return err
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without rendering")
	return cmd
}

func recordMarkdown(r faq.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Question)
	fmt.Fprintf(&b, "`%s` · **%s**\n\n", r.ID, r.Category)
	b.WriteString(r.Answer)
	b.WriteString("\n")
	if len(r.Tags) > 0 {
		fmt.Fprintf(&b, "\n**Tags:** %s\n", strings.Join(r.Tags, ", "))
	}
	if len(r.AlternateQuestions) > 0 {
		b.WriteString("\n**Also asked as:**\n\n")
		for _, q := range r.AlternateQuestions {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}
	return b.String()
}
