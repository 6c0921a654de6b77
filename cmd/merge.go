package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/speakeasy-api/prebuild/internal/clipboard"
	"github.com/speakeasy-api/prebuild/internal/config"
	"github.com/speakeasy-api/prebuild/internal/generatecode"
	"github.com/speakeasy-api/prebuild/internal/log"
	"github.com/speakeasy-api/prebuild/internal/model"
	"github.com/speakeasy-api/prebuild/internal/model/flag"
	"github.com/speakeasy-api/prebuild/internal/mods"
	"github.com/speakeasy-api/prebuild/internal/plan"
	"github.com/speakeasy-api/prebuild/internal/utils"
	"go.uber.org/zap"
)

type MergeFlags struct {
	File                  string `json:"file"`
	Tag                   string `json:"tag"`
	Contents              string `json:"contents"`
	ContentsFile          string `json:"contents-file"`
	ContentsFromClipboard bool   `json:"contents-from-clipboard"`
	Anchor                string `json:"anchor"`
	Engine                string `json:"engine"`
	Offset                int    `json:"offset"`
	Comment               string `json:"comment"`
	Sign                  bool   `json:"sign"`
	DryRun                bool   `json:"dry-run"`
	Copy                  bool   `json:"copy"`
}

var fileFlag = flag.StringFlag{
	Name:        "file",
	Shorthand:   "f",
	Description: "path to the file to edit",
	Required:    true,
}

var tagFlag = flag.StringFlag{
	Name:        "tag",
	Shorthand:   "t",
	Description: "name of the generated block, unique within the file",
	Required:    true,
}

var dryRunFlag = flag.BooleanFlag{
	Name:        "dry-run",
	Description: "print a diff of the changes instead of writing them",
}

var signFlag = flag.BooleanFlag{
	Name:        "sign",
	Description: "sign generated blocks so they are refreshed when their contents change",
}

var mergeCmd = &model.ExecutableCommand[MergeFlags]{
	Usage: "merge",
	Short: "Merge a tagged generated block into a file",
	Long: `Merge a tagged generated block into a file next to the first line matching an anchor.
The block is wrapped in "@generated begin <tag>" and "@generated end <tag>" marker comments. If a block with the
same tag is already present the file is left unchanged, unless --sign is set and the contents differ.

The block body is read from exactly one of --contents, --contents-file or --contents-from-clipboard.
--offset moves the block relative to the anchor: 0 puts it directly after the anchor line, -1 directly before.`,
	Run: runMerge,
	Flags: []flag.Flag{
		fileFlag,
		tagFlag,
		flag.StringFlag{
			Name:        "contents",
			Shorthand:   "c",
			Description: "the block body",
		},
		flag.StringFlag{
			Name:        "contents-file",
			Description: "read the block body from a file",
		},
		flag.BooleanFlag{
			Name:        "contents-from-clipboard",
			Description: "read the block body from the system clipboard",
		},
		flag.StringFlag{
			Name:        "anchor",
			Shorthand:   "a",
			Description: "pattern matching the line the block is placed next to",
			Required:    true,
		},
		flag.EnumFlag{
			Name:          "engine",
			Description:   "how --anchor is interpreted",
			DefaultValue:  string(generatecode.EngineRE2),
			AllowedValues: generatecode.Engines,
		},
		flag.IntFlag{
			Name:        "offset",
			Description: "line offset of the block relative to the anchor",
		},
		flag.StringFlag{
			Name:        "comment",
			Description: "line comment token of the file's language, inferred from the file name when omitted",
		},
		signFlag,
		dryRunFlag,
		flag.BooleanFlag{
			Name:        "copy",
			Description: "copy the resulting file contents to the clipboard",
		},
	},
}

func runMerge(ctx context.Context, flags MergeFlags) error {
	contents, err := mergeContents(ctx, flags)
	if err != nil {
		return err
	}

	comment := lo.Ternary(flags.Comment != "", flags.Comment, plan.CommentFor(flags.File))
	if comment == "" {
		return errors.Errorf("cannot infer the comment token for %s, set --comment", flags.File)
	}

	anchor, err := generatecode.CompileMatcher(generatecode.Engine(flags.Engine), flags.Anchor)
	if err != nil {
		return err
	}

	opts := generatecode.Options{
		Tag:     flags.Tag,
		NewSrc:  contents,
		Anchor:  anchor,
		Offset:  flags.Offset,
		Comment: comment,
	}
	if flags.Sign {
		opts.Generator = config.GetGenerator()
	}

	return editFile(ctx, flags.File, flags.DryRun, flags.Copy, func(src string) (generatecode.MergeResult, error) {
		return generatecode.Merge(src, opts)
	})
}

func mergeContents(ctx context.Context, flags MergeFlags) (string, error) {
	sources := lo.Filter([]bool{flags.Contents != "", flags.ContentsFile != "", flags.ContentsFromClipboard}, func(set bool, _ int) bool { return set })
	if len(sources) != 1 {
		return "", errors.New("exactly one of --contents, --contents-file or --contents-from-clipboard is required")
	}

	switch {
	case flags.ContentsFile != "":
		data, err := os.ReadFile(utils.SanitizeFilePath(flags.ContentsFile))
		if err != nil {
			return "", errors.Wrap(err, "failed to read contents file")
		}
		return strings.TrimSuffix(string(data), "\n"), nil
	case flags.ContentsFromClipboard:
		text, err := clipboard.GetString(ctx)
		if err != nil {
			return "", err
		}
		if text == "" {
			return "", errors.New("clipboard is empty")
		}
		return strings.TrimSuffix(text, "\n"), nil
	default:
		return flags.Contents, nil
	}
}

// editFile runs edit against a single file, writing, diffing and copying the
// result as requested.
func editFile(ctx context.Context, file string, dryRun, copyResult bool, edit func(src string) (generatecode.MergeResult, error)) error {
	path := utils.SanitizeFilePath(file)

	project, err := openProject(filepath.Dir(path), dryRun)
	if err != nil {
		return err
	}

	logger := log.From(ctx).WithAssociatedFile(file)
	ctx = log.With(ctx, logger)

	var result generatecode.MergeResult
	res, err := project.WithFile(ctx, path, func(ctx context.Context, src string) (string, error) {
		r, err := edit(src)
		if err != nil {
			return "", err
		}
		result = r
		return r.Contents, nil
	})
	if err != nil {
		return err
	}

	logger.Info("edited", zap.Bool("merged", result.DidMerge), zap.Bool("cleared", result.DidClear))

	if copyResult {
		if err := clipboard.SetString(ctx, res.After); err != nil {
			return err
		}
		logger.Success("Copied the resulting contents to the clipboard")
	}

	return report(ctx, project, []mods.FileResult{res})
}
