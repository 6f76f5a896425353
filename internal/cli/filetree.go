package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/atomicstack/notebook-popup-control/internal/conf"
	"github.com/atomicstack/notebook-popup-control/internal/logging/events"
)

var sortNames = map[int]string{
	conf.SortModeNameASC:         "name asc",
	conf.SortModeNameDESC:        "name desc",
	conf.SortModeUpdatedASC:      "modified asc",
	conf.SortModeUpdatedDESC:     "modified desc",
	conf.SortModeAlphanumASC:     "natural asc",
	conf.SortModeAlphanumDESC:    "natural desc",
	conf.SortModeCustom:          "custom",
	conf.SortModeRefCountASC:     "refs asc",
	conf.SortModeRefCountDESC:    "refs desc",
	conf.SortModeCreatedASC:      "created asc",
	conf.SortModeCreatedDESC:     "created desc",
	conf.SortModeSizeASC:         "size asc",
	conf.SortModeSizeDESC:        "size desc",
	conf.SortModeSubDocCountASC:  "sub-docs asc",
	conf.SortModeSubDocCountDESC: "sub-docs desc",
	conf.SortModeFileTree:        "file tree",
}

func addFiletree(topLevel *cobra.Command, rt *runtime) {
	cmd := &cobra.Command{
		Use:   "filetree",
		Short: "Show or change the file tree settings.",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the file tree settings.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := rt.client().GetConf(cmd.Context())
			if err != nil {
				return err
			}
			printFileTree(cmd.OutOrStdout(), current.FileTree)
			return nil
		},
	})
	cmd.AddCommand(newFiletreeSet(rt))
	topLevel.AddCommand(cmd)
}

// newFiletreeSet sends the current settings with the changed flags applied
// and prints the canonical copy the kernel returns.
func newFiletreeSet(rt *runtime) *cobra.Command {
	var (
		alwaysSelect bool
		currentTab   bool
		savePath     string
		nameTemplate string
		maxListCount int
		createDeeper bool
		sortMode     int
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change file tree settings; unspecified fields keep their value.",
		Example: `
notebook-popup-control filetree set --max-list-count 100 --ref-create-save-path /inbox
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := rt.client()
			current, err := client.GetConf(cmd.Context())
			if err != nil {
				return err
			}
			ft := *conf.NewFileTree()
			if current.FileTree != nil {
				ft = *current.FileTree.Clone()
			}
			f := cmd.Flags()
			if f.Changed("always-select-opened-file") {
				ft.AlwaysSelectOpenedFile = alwaysSelect
			}
			if f.Changed("open-files-use-current-tab") {
				ft.OpenFilesUseCurrentTab = currentTab
			}
			if f.Changed("ref-create-save-path") {
				ft.RefCreateSavePath = savePath
			}
			if f.Changed("create-doc-name-template") {
				ft.CreateDocNameTemplate = nameTemplate
			}
			if f.Changed("max-list-count") {
				ft.MaxListCount = maxListCount
			}
			if f.Changed("allow-create-deeper") {
				ft.AllowCreateDeeper = createDeeper
			}
			if f.Changed("sort") {
				ft.Sort = sortMode
			}
			events.Settings.Send(ft)
			saved, err := client.SetFiletree(cmd.Context(), ft)
			if err != nil {
				events.Settings.Failed(err)
				return err
			}
			events.Settings.Applied(saved)
			printFileTree(cmd.OutOrStdout(), saved)
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVar(&alwaysSelect, "always-select-opened-file", false, "reveal the opened document in the tree")
	f.BoolVar(&currentTab, "open-files-use-current-tab", false, "open documents in the current tab")
	f.StringVar(&savePath, "ref-create-save-path", "", "where documents created from block refs are saved")
	f.StringVar(&nameTemplate, "create-doc-name-template", "", "name template for new documents")
	f.IntVar(&maxListCount, "max-list-count", conf.DefaultMaxListCount, "maximum number of documents listed per folder")
	f.BoolVar(&createDeeper, "allow-create-deeper", false, "allow creating documents beyond the depth limit")
	f.IntVar(&sortMode, "sort", conf.SortModeCustom, "sort mode (0-15)")
	return cmd
}

func printFileTree(w io.Writer, ft *conf.FileTree) {
	if ft == nil {
		ft = conf.NewFileTree()
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	if width := terminalWidth(w); width > 0 {
		tbl.MaxColWidth = uint(width / 2)
	}
	tbl.AddRow("FIELD", "VALUE")
	tbl.AddRow("alwaysSelectOpenedFile", strconv.FormatBool(ft.AlwaysSelectOpenedFile))
	tbl.AddRow("openFilesUseCurrentTab", strconv.FormatBool(ft.OpenFilesUseCurrentTab))
	tbl.AddRow("refCreateSavePath", ft.RefCreateSavePath)
	tbl.AddRow("createDocNameTemplate", ft.CreateDocNameTemplate)
	tbl.AddRow("maxListCount", strconv.Itoa(ft.MaxListCount))
	tbl.AddRow("allowCreateDeeper", strconv.FormatBool(ft.AllowCreateDeeper))
	tbl.AddRow("sort", fmt.Sprintf("%d (%s)", ft.Sort, sortNames[ft.Sort]))
	fmt.Fprintln(w, tbl)
}

// terminalWidth reports the width of w when it is a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
