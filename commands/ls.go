package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/doinkythederp/rush/core"
	"github.com/doinkythederp/rush/core/fspath"
	"github.com/spf13/afero"
)

// ListDirectory lists the entries of a directory, the working directory by
// default.
func ListDirectory(_ context.Context, s *core.Shell, console core.Console, args []string) int {
	cmd := &SimpleCommand{
		Use:   "list-directory [OPTION]... [DIR]",
		Short: "List the files and directories in DIR (the working directory by default).",
	}
	longListing := cmd.Flags().Bool('l', "use a long listing format")
	humanSize := cmd.Flags().Bool('H', "print human readable sizes")

	var color ColorPrinter
	color.Init(cmd.Flags())

	return cmd.Run(console, args, func() int {
		target := "."
		switch rest := cmd.Args(); len(rest) {
		case 0:
		case 1:
			target = rest[0]
		default:
			return cmd.Usage(console)
		}

		dir, err := fspath.Parse(s.Env.Resolver(), target, s.Env.Home())
		if err != nil {
			core.Errorf(console, "Invalid path: '%s'", target)
			return 2
		}

		entries, err := afero.ReadDir(s.FS, dir.Absolute())
		if err != nil {
			core.Errorf(console, "Failed to read directory: '%s'", dir.Absolute())
			return 3
		}

		sizeFmt := func(bytes int64) string {
			return fmt.Sprintf("%d", bytes)
		}
		if *humanSize {
			sizeFmt = BytesToHuman
		}

		w := core.Stdout(console)
		defer w.Flush()
		tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
		defer tw.Flush()

		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() {
				name = color.Sprintf(ColorBoldGreen, "%s/", name)
			}

			if *longListing {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", entry.Mode(), sizeFmt(entry.Size()), name)
			} else {
				fmt.Fprintln(w, name)
			}
		}
		return 0
	})
}

func init() {
	mustAddBuiltin("list-directory", []string{"ls"}, "List the contents of a directory.", ListDirectory)
}
