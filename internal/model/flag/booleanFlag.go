package flag

import (
	"strconv"

	"github.com/spf13/cobra"
)

type BooleanFlag struct {
	Name, Shorthand, Description string
	Hidden                       bool
	DefaultValue                 bool
}

func (f BooleanFlag) Init(cmd *cobra.Command) error {
	cmd.Flags().BoolP(f.Name, f.Shorthand, f.DefaultValue, f.Description)
	return setRequiredAndHidden(cmd, f.Name, false, f.Hidden)
}

func (f BooleanFlag) GetName() string {
	return f.Name
}

func (f BooleanFlag) ParseValue(v string) (interface{}, error) {
	return strconv.ParseBool(v)
}
