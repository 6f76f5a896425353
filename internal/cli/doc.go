package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/atomicstack/notebook-popup-control/internal/api"
	"github.com/atomicstack/notebook-popup-control/internal/model"
)

func addNotebook(topLevel *cobra.Command, rt *runtime) {
	cmd := &cobra.Command{
		Use:   "notebook",
		Short: "List or create notebooks.",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List notebooks.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			notebooks, err := rt.client().Notebooks(cmd.Context())
			if err != nil {
				return err
			}
			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow("ID", "NAME", "SORT", "CLOSED")
			for _, nb := range notebooks {
				tbl.AddRow(nb.ID, nb.Name, strconv.Itoa(nb.Sort), strconv.FormatBool(nb.Closed))
			}
			fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a notebook and print its ID.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nb, err := rt.client().CreateNotebook(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), nb.ID)
			return nil
		},
	})
	topLevel.AddCommand(cmd)
}

func addDoc(topLevel *cobra.Command, rt *runtime) {
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Create documents.",
	}
	var (
		notebook string
		parent   string
		mdPath   string
	)
	create := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a document, optionally from markdown, and print its ID.",
		Example: `
notebook-popup-control doc create "Weekly review" --notebook Notes --md review.md
echo "# Draft" | notebook-popup-control doc create Draft --notebook Notes --md -
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := rt.client()
			box, err := resolveNotebook(cmd, client, notebook)
			if err != nil {
				return err
			}
			markdown, err := readMarkdown(cmd.InOrStdin(), mdPath)
			if err != nil {
				return err
			}
			id, err := client.CreateDocWithMd(cmd.Context(), box, parent, args[0], markdown)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	f := create.Flags()
	f.StringVarP(&notebook, "notebook", "n", "", "notebook ID or name (defaults to the only open notebook)")
	f.StringVarP(&parent, "parent", "p", "/", "path of the parent document, e.g. /20200102030405-abcdefg.sy")
	f.StringVar(&mdPath, "md", "", "markdown file to import, - for stdin")
	cmd.AddCommand(create)
	topLevel.AddCommand(cmd)
}

// resolveNotebook accepts a notebook ID or name. With nothing given it picks
// the only notebook, if there is exactly one.
func resolveNotebook(cmd *cobra.Command, client *api.Client, want string) (string, error) {
	notebooks, err := client.Notebooks(cmd.Context())
	if err != nil {
		return "", err
	}
	return pickNotebook(notebooks, want)
}

func pickNotebook(notebooks []model.Notebook, want string) (string, error) {
	want = strings.TrimSpace(want)
	if want == "" {
		switch len(notebooks) {
		case 0:
			return "", errors.New("no notebooks; create one with `notebook create`")
		case 1:
			return notebooks[0].ID, nil
		}
		return "", errors.New("more than one notebook; pass --notebook")
	}
	for _, nb := range notebooks {
		if nb.ID == want {
			return nb.ID, nil
		}
	}
	for _, nb := range notebooks {
		if strings.EqualFold(nb.Name, want) {
			return nb.ID, nil
		}
	}
	return "", fmt.Errorf("notebook %q not found", want)
}

func readMarkdown(stdin io.Reader, path string) (string, error) {
	switch path {
	case "":
		return "", nil
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read markdown from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read markdown: %w", err)
	}
	return string(data), nil
}
