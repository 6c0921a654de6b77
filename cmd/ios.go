package cmd

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/speakeasy-api/prebuild/internal/config"
	"github.com/speakeasy-api/prebuild/internal/ios"
	"github.com/speakeasy-api/prebuild/internal/log"
	"github.com/speakeasy-api/prebuild/internal/model"
	"github.com/speakeasy-api/prebuild/internal/model/flag"
	"github.com/speakeasy-api/prebuild/internal/mods"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var iosCmd = &model.CommandGroup{
	Usage: "ios",
	Short: "Config plugins for iOS projects",
	Commands: []model.Command{
		iosMapsCmd,
	},
}

type IOSMapsFlags struct {
	Project          string `json:"project"`
	AssumeAutolinked bool   `json:"assume-autolinked"`
	Sign             bool   `json:"sign"`
	DryRun           bool   `json:"dry-run"`
}

var iosMapsCmd = &model.ExecutableCommand[IOSMapsFlags]{
	Usage: "maps",
	Short: "Configure react-native-maps and the Google Maps SDK",
	Long: `Configure react-native-maps for the iOS project under --project.

With ios.config.googleMapsApiKey set in app.json (or app.yaml) the key is written to Info.plist, the Google Maps
pods are added to the Podfile and the AppDelegate imports and initialises GoogleMaps. Without a key, or when
react-native-maps is not installed and autolinked, those changes are removed again.`,
	PreRun: defaultAssumeAutolinked,
	Run:    runIOSMaps,
	Flags: []flag.Flag{
		projectFlag,
		flag.BooleanFlag{
			Name:        "assume-autolinked",
			Description: "treat react-native-maps as autolinked without checking the app config (defaults to the assume_autolinked setting)",
		},
		signFlag,
		dryRunFlag,
	},
}

// defaultAssumeAutolinked falls back to the user config when the flag is not
// given on the command line.
func defaultAssumeAutolinked(cmd *cobra.Command, flags *IOSMapsFlags) error {
	if cmd.Flags().Changed("assume-autolinked") {
		return nil
	}
	return cmd.Flags().Set("assume-autolinked", strconv.FormatBool(config.GetAssumeAutolinked()))
}

func runIOSMaps(ctx context.Context, flags IOSMapsFlags) error {
	project, err := openProject(flags.Project, flags.DryRun)
	if err != nil {
		return err
	}

	appConfig, err := loadAppConfig(project)
	if err != nil {
		return err
	}

	unlock, err := project.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	opts := ios.MapsOptions{AssumeAutolinked: flags.AssumeAutolinked}
	if flags.Sign {
		opts.Generator = config.GetGenerator()
	}

	log.From(ctx).Info("running maps plugin", zap.String("app", appConfig.Name))

	results, err := ios.Maps{Project: project, Config: appConfig, Options: opts}.Apply(ctx)
	if err != nil {
		return err
	}

	return report(ctx, project, results)
}

func loadAppConfig(project *mods.Project) (config.AppConfig, error) {
	path, err := config.FindAppConfig(project.Root, project.FS.Exists)
	if err != nil {
		return config.AppConfig{}, err
	}

	data, err := project.FS.ReadFile(path)
	if err != nil {
		return config.AppConfig{}, errors.Wrapf(err, "failed to read %s", project.Rel(path))
	}

	return config.ParseAppConfig(path, data)
}
