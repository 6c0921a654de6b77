package cmd

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/speakeasy-api/prebuild/internal/config"
	"github.com/speakeasy-api/prebuild/internal/log"
	"github.com/speakeasy-api/prebuild/internal/model"
	"github.com/speakeasy-api/prebuild/internal/model/flag"
	"github.com/speakeasy-api/prebuild/internal/plan"
	"github.com/speakeasy-api/prebuild/internal/utils"
	"go.uber.org/zap"
)

type ApplyFlags struct {
	Plan    string `json:"plan"`
	Project string `json:"project"`
	Sign    bool   `json:"sign"`
	DryRun  bool   `json:"dry-run"`
}

var projectFlag = flag.StringFlag{
	Name:         "project",
	Shorthand:    "p",
	Description:  "root directory of the project",
	DefaultValue: ".",
}

var applyCmd = &model.ExecutableCommand[ApplyFlags]{
	Usage: "apply",
	Short: "Apply a YAML mods file to a project",
	Long: `Apply every merge and remove listed in a YAML mods file. File paths are relative to --project.

	generator: my-plugin   # optional, signs merged blocks
	mods:
	  - file: ios/Podfile
	    action: merge
	    tag: maps
	    anchor: use_native_modules
	    contents: |
	      pod 'react-native-google-maps'
	  - file: ios/App/AppDelegate.swift
	    action: remove
	    tag: maps-init

Mods on the same file run in order. A failing mod leaves its file untouched; other files are still updated
and every failure is reported.`,
	Run: runApply,
	Flags: []flag.Flag{
		flag.StringFlag{
			Name:                       "plan",
			Description:                "path to the mods file",
			Required:                   true,
			AutocompleteFileExtensions: []string{"yaml", "yml"},
		},
		projectFlag,
		signFlag,
		dryRunFlag,
	},
}

func runApply(ctx context.Context, flags ApplyFlags) error {
	data, err := os.ReadFile(utils.SanitizeFilePath(flags.Plan))
	if err != nil {
		return errors.Wrap(err, "failed to read mods file")
	}

	p, err := plan.Parse(data)
	if err != nil {
		return err
	}
	if flags.Sign && p.Generator == "" {
		p.Generator = config.GetGenerator()
	}

	project, err := openProject(flags.Project, flags.DryRun)
	if err != nil {
		return err
	}

	unlock, err := project.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	log.From(ctx).Info("applying mods", zap.Int("mods", len(p.Mods)), zap.String("project", project.Root))

	results, applyErr := plan.Apply(ctx, project, p)
	if err := report(ctx, project, results); err != nil {
		return err
	}

	return applyErr
}
