package flag

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

type EnumFlag struct {
	Name, Shorthand, Description string
	Required, Hidden             bool
	DefaultValue                 string
	AllowedValues                []string
}

func (f EnumFlag) Init(cmd *cobra.Command) error {
	if len(f.AllowedValues) == 0 {
		return fmt.Errorf("allowed values must not be empty")
	}

	if !f.Required {
		if f.DefaultValue == "" {
			return fmt.Errorf("default value must not be empty if the flag is not required")
		}

		if !slices.Contains(f.AllowedValues, f.DefaultValue) {
			return fmt.Errorf("default value %s is not in the list of allowed values", f.DefaultValue)
		}
	}

	description := fmt.Sprintf("%s (available options: [%s])", f.Description, strings.Join(f.AllowedValues, ", "))
	cmd.Flags().StringP(f.Name, f.Shorthand, f.DefaultValue, description)
	if err := setRequiredAndHidden(cmd, f.Name, f.Required, f.Hidden); err != nil {
		return err
	}

	return cmd.RegisterFlagCompletionFunc(f.Name, cobra.FixedCompletions(f.AllowedValues, cobra.ShellCompDirectiveNoFileComp))
}

func (f EnumFlag) GetName() string {
	return f.Name
}

func (f EnumFlag) ParseValue(v string) (interface{}, error) {
	if v == "" && f.Required {
		return v, nil
	}
	if !slices.Contains(f.AllowedValues, v) {
		return nil, fmt.Errorf("invalid value %q for --%s (available options: [%s])", v, f.Name, strings.Join(f.AllowedValues, ", "))
	}
	return v, nil
}
