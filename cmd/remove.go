package cmd

import (
	"context"

	"github.com/speakeasy-api/prebuild/internal/generatecode"
	"github.com/speakeasy-api/prebuild/internal/model"
	"github.com/speakeasy-api/prebuild/internal/model/flag"
)

type RemoveFlags struct {
	File   string   `json:"file"`
	Tags   []string `json:"tag"`
	DryRun bool     `json:"dry-run"`
}

var removeCmd = &model.ExecutableCommand[RemoveFlags]{
	Usage: "remove",
	Short: "Remove tagged generated blocks from a file",
	Long: `Remove tagged generated blocks, including their marker lines, from a file.
--tag may be repeated or given a comma-separated list; blocks are removed in the order given.
Removing a block that is not present leaves the file unchanged and is not an error.`,
	Run: runRemove,
	Flags: []flag.Flag{
		fileFlag,
		flag.StringSliceFlag{
			Name:        tagFlag.Name,
			Shorthand:   tagFlag.Shorthand,
			Description: "names of the generated blocks to remove",
			Required:    true,
		},
		dryRunFlag,
	},
}

func runRemove(ctx context.Context, flags RemoveFlags) error {
	return editFile(ctx, flags.File, flags.DryRun, false, func(src string) (generatecode.MergeResult, error) {
		res := generatecode.MergeResult{Contents: src}
		for _, tag := range flags.Tags {
			r := generatecode.Remove(res.Contents, tag)
			res.Contents = r.Contents
			res.DidClear = res.DidClear || r.DidClear
		}
		return res, nil
	})
}
