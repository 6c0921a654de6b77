package flag

import (
	"github.com/spf13/cobra"
)

type StringFlag struct {
	Name, Shorthand, Description string
	Required, Hidden             bool
	DefaultValue                 string
	// AutocompleteFileExtensions restricts shell completion to files with
	// these extensions. Use an empty string element to complete any file.
	AutocompleteFileExtensions []string
	Deprecated                 bool
	DeprecationMessage         string
}

func (f StringFlag) Init(cmd *cobra.Command) error {
	cmd.Flags().StringP(f.Name, f.Shorthand, f.DefaultValue, f.Description)
	if err := setRequiredAndHidden(cmd, f.Name, f.Required, f.Hidden); err != nil {
		return err
	}
	if f.Deprecated {
		if err := setDeprecated(cmd, f.Name, f.DeprecationMessage); err != nil {
			return err
		}
	}
	if len(f.AutocompleteFileExtensions) > 0 {
		if err := cmd.MarkFlagFilename(f.Name, f.AutocompleteFileExtensions...); err != nil {
			return err
		}
	}
	return nil
}

func (f StringFlag) GetName() string {
	return f.Name
}

func (f StringFlag) ParseValue(v string) (interface{}, error) {
	return v, nil
}
