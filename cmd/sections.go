package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/speakeasy-api/prebuild/internal/generatecode"
	"github.com/speakeasy-api/prebuild/internal/log"
	"github.com/speakeasy-api/prebuild/internal/model"
	"github.com/speakeasy-api/prebuild/internal/model/flag"
	"github.com/speakeasy-api/prebuild/internal/utils"
)

type SectionsFlags struct {
	File string `json:"file"`
	JSON bool   `json:"json"`
}

var sectionsCmd = &model.ExecutableCommand[SectionsFlags]{
	Usage: "sections",
	Short: "List the generated blocks in a file",
	Run:   runSections,
	Flags: []flag.Flag{
		fileFlag,
		flag.BooleanFlag{
			Name:        "json",
			Description: "print the blocks as a JSON array",
		},
	},
}

// section is the listing form of a generated block, with one based lines.
type section struct {
	Tag    string `json:"tag"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Signed bool   `json:"signed"`
	Hash   string `json:"hash,omitempty"`
}

func runSections(ctx context.Context, flags SectionsFlags) error {
	data, err := os.ReadFile(utils.SanitizeFilePath(flags.File))
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", flags.File)
	}

	var sections []section
	for _, s := range generatecode.Sections(string(data)) {
		sections = append(sections, section{
			Tag:    s.Tag,
			Start:  s.Start + 1,
			End:    s.End + 1,
			Signed: s.Hash != "",
			Hash:   s.Hash,
		})
	}

	ctx = log.With(ctx, log.From(ctx).WithWriter(stdout))
	log.PrintArray(ctx, flags.JSON, sections, func(s section) string {
		row := fmt.Sprintf("%s\tlines %d-%d", s.Tag, s.Start, s.End)
		if s.Signed {
			row += "\t" + s.Hash
		}
		return row
	})

	return nil
}
