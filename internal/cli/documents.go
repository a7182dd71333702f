package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/architeacher/docrepo/internal/cli/output"
	"github.com/architeacher/docrepo/internal/domain/model"
	"github.com/architeacher/docrepo/internal/usecases"
	"github.com/architeacher/docrepo/internal/usecases/commands"
	"github.com/architeacher/docrepo/internal/usecases/queries"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

const stdoutTarget = "-"

func (e *commandEnv) newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <document-id>",
		Short: "Show the properties of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, func(ctx context.Context, app *usecases.Application, f *output.Formatter) error {
				document, err := app.Queries.GetDocument.Execute(ctx, queries.GetDocumentQuery{ID: args[0]})
				if err != nil {
					return err
				}

				return f.PrintTable(documentDetails(document))
			})
		},
	}
}

func (e *commandEnv) newDownloadCommand() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "download <document-id>",
		Short: "Download the content of a document",
		Long: `Download the content of a document.

The file is written to the current directory under its repository file name
unless --out is given. Use --out - to write the content to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, func(ctx context.Context, app *usecases.Application, f *output.Formatter) error {
				content, err := app.Queries.DownloadDocument.Execute(ctx, queries.DownloadDocumentQuery{ID: args[0]})
				if err != nil {
					return err
				}
				defer func() { _ = content.Body.Close() }()

				if target == stdoutTarget {
					_, err := io.Copy(cmd.OutOrStdout(), content.Body)

					return err
				}

				path := target
				if path == "" {
					path = filepath.Base(content.FileName)
				}

				written, err := writeFile(path, content.Body)
				if err != nil {
					return err
				}

				f.PrintMessage("Downloaded %s to %s (%s)", args[0], path, humanize.Bytes(uint64(written)))

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&target, "out", "", "destination file, - for stdout")

	return cmd
}

func (e *commandEnv) newUploadCommand() *cobra.Command {
	var folder, name string

	cmd := &cobra.Command{
		Use:   "upload <local-file>",
		Short: "Upload a file into a folder, creating missing folders",
		Long: `Upload a file into a folder, creating missing folders.

When the folder already holds a document with the same name, the stored
document gets a unique prefix. The stored name is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}

			if name == "" {
				name = filepath.Base(args[0])
			}

			return e.withApp(cmd, func(ctx context.Context, app *usecases.Application, f *output.Formatter) error {
				result, err := app.Commands.UploadDocument.Handle(ctx, commands.UploadDocumentCommand{
					FolderPath: folder,
					Name:       name,
					Content:    base64.StdEncoding.EncodeToString(data),
				})
				if err != nil {
					return err
				}

				return f.PrintTable(output.TableData{
					Headers: []string{"ID", "NAME"},
					Rows:    [][]string{{result.DocumentID, result.DocumentName}},
					Value:   result,
				})
			})
		},
	}

	cmd.Flags().StringVar(&folder, "folder", "/", "destination folder path")
	cmd.Flags().StringVar(&name, "name", "", "document name, defaults to the file name")

	return cmd
}

func (e *commandEnv) newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <document-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a document with all of its versions",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, func(ctx context.Context, app *usecases.Application, f *output.Formatter) error {
				if _, err := app.Commands.DeleteDocument.Handle(ctx, commands.DeleteDocumentCommand{ID: args[0]}); err != nil {
					return err
				}

				f.PrintMessage("Deleted document %s", args[0])

				return nil
			})
		},
	}
}

func (e *commandEnv) newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <folder-path>",
		Short: "List the documents of a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, func(ctx context.Context, app *usecases.Application, f *output.Formatter) error {
				documents, err := app.Queries.ListFolder.Execute(ctx, queries.ListFolderQuery{Path: args[0]})
				if err != nil {
					return err
				}

				if len(documents) == 0 {
					f.PrintMessage("No documents found.")

					if f.Format == output.FormatTable {
						return nil
					}
				}

				rows := make([][]string, 0, len(documents))
				for _, document := range documents {
					rows = append(rows, documentRow(document))
				}

				return f.PrintTable(output.TableData{Headers: documentHeaders, Rows: rows, Value: documents})
			})
		},
	}
}

func (e *commandEnv) newPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path <document-id>",
		Short: "Print the folder path of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, func(ctx context.Context, app *usecases.Application, f *output.Formatter) error {
				path, err := app.Queries.GetDocumentPath.Execute(ctx, queries.GetDocumentPathQuery{ID: args[0]})
				if err != nil {
					return err
				}

				if f.Format == output.FormatTable {
					f.PrintMessage("%s", path)

					return nil
				}

				return f.Print(map[string]string{"id": args[0], "path": path})
			})
		},
	}
}

var documentHeaders = []string{"ID", "NAME", "TYPE", "MIME TYPE", "SIZE", "MODIFIED"}

func documentRow(d *model.Document) []string {
	return []string{
		d.ID,
		d.Name,
		d.ObjectType,
		d.MimeType,
		humanize.Bytes(uint64(max(d.ContentLength, 0))),
		formatTime(d.LastModifiedAt),
	}
}

func documentDetails(d *model.Document) output.TableData {
	return output.TableData{
		Headers: []string{"PROPERTY", "VALUE"},
		Rows: [][]string{
			{"id", d.ID},
			{"name", d.Name},
			{"objectType", d.ObjectType},
			{"mimeType", d.MimeType},
			{"contentLength", strconv.FormatInt(d.ContentLength, 10)},
			{"fileName", d.FileName},
			{"versionLabel", d.VersionLabel},
			{"isLatestVersion", strconv.FormatBool(d.IsLatest)},
			{"createdBy", d.CreatedBy},
			{"createdAt", formatTime(d.CreatedAt)},
			{"lastModifiedBy", d.LastModifiedBy},
			{"lastModifiedAt", formatTime(d.LastModifiedAt)},
			{"secondaryTypes", strings.Join(d.SecondaryTypes, ",")},
			{"parentFolderIds", strings.Join(d.ParentFolderIDs, ",")},
		},
		Value: d,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339)
}

func writeFile(path string, r io.Reader) (int64, error) {
	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(out, r)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return written, fmt.Errorf("failed to write file: %w", err)
	}

	return written, nil
}
