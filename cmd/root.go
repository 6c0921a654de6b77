package cmd

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/speakeasy-api/prebuild/internal/charm/styles"
	"github.com/speakeasy-api/prebuild/internal/config"
	"github.com/speakeasy-api/prebuild/internal/env"
	"github.com/speakeasy-api/prebuild/internal/generatecode"
	"github.com/speakeasy-api/prebuild/internal/log"
	"github.com/speakeasy-api/prebuild/internal/model"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "prebuild",
	Short: "Apply idempotent generated blocks to native project files",
	Long: `prebuild edits hand-maintained native files (Podfiles, AppDelegates, Gradle scripts) by merging
tagged "@generated" blocks next to an anchor line. Merging the same block twice is a no-op and removing a
block restores the file exactly.
	- merge, remove and sections work on a single file
	- apply runs a batch of edits described in a YAML mods file
	- ios maps configures react-native-maps and the Google Maps SDK for an iOS project
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var l = log.New().WithLevel(log.LevelInfo)

func init() {
	// We want our commands to be sorted in defined order, not alphabetically
	cobra.EnableCommandSorting = false
	if err := config.Load(); err != nil {
		l.Error("", zap.Error(err))
		os.Exit(1)
	}
}

func Init() {
	rootCmd.PersistentFlags().String("logLevel", string(log.LevelInfo), fmt.Sprintf("the log level (available options: [%s])", strings.Join(log.Levels, ", ")))

	addCommand(rootCmd, mergeCmd)
	addCommand(rootCmd, removeCmd)
	addCommand(rootCmd, sectionsCmd)
	addCommand(rootCmd, applyCmd)
	addCommand(rootCmd, iosCmd)
}

func addCommand(cmd *cobra.Command, command model.Command) {
	c, err := command.Init()
	if err != nil {
		l.Error("", zap.Error(err))
		os.Exit(1)
	}
	cmd.AddCommand(c)
}

func Execute(version string) {
	setupRootCmd(version)

	if err := rootCmd.Execute(); err != nil {
		if env.IsGithubDebugMode() {
			l.Errorf("%+v", err)
		} else {
			l.Error("", zap.Error(err))
		}
		if code := generatecode.CodeOf(err); code != "" {
			l.WithInteractiveOnly().Println(styles.RenderInstructionalError(
				fmt.Sprintf("%s: the file does not look the way prebuild expects", code),
				"Check that the anchor still matches a line of the file and that every @generated begin marker has a matching end marker.",
			))
		}
		l.WithInteractiveOnly().PrintfStyled(styles.DimmedItalic, "Run '%s --help' for usage.\n", rootCmd.CommandPath())
		os.Exit(1)
	}
}

func setupRootCmd(version string) {
	rootCmd.Version = version
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.PersistentPreRunE = setLogLevel

	Init()
}

func setLogLevel(cmd *cobra.Command, args []string) error {
	logLevel, err := cmd.Flags().GetString("logLevel")
	if err != nil {
		return err
	}
	if !slices.Contains(log.Levels, logLevel) {
		return fmt.Errorf("log level must be one of: %s", strings.Join(log.Levels, ", "))
	}

	l = l.WithLevel(log.Level(logLevel))
	ctx := log.With(cmd.Context(), l)
	cmd.SetContext(ctx)

	return nil
}
