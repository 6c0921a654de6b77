package flag

import (
	"encoding/csv"
	"strings"

	"github.com/spf13/cobra"
)

type StringSliceFlag struct {
	Name, Shorthand, Description string
	Required, Hidden             bool
	DefaultValue                 []string
}

func (f StringSliceFlag) Init(cmd *cobra.Command) error {
	fullDescription := f.Description + " (comma-separated list)"

	cmd.Flags().StringSliceP(f.Name, f.Shorthand, f.DefaultValue, fullDescription)
	return setRequiredAndHidden(cmd, f.Name, f.Required, f.Hidden)
}

func (f StringSliceFlag) GetName() string {
	return f.Name
}

// ParseValue decodes pflag's "[a,b]" rendering of a string slice.
func (f StringSliceFlag) ParseValue(v string) (interface{}, error) {
	v = strings.TrimSuffix(strings.TrimPrefix(v, "["), "]")

	if v == "" {
		return []string{}, nil
	}

	return csv.NewReader(strings.NewReader(v)).Read()
}
