package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/geep/geep-go-sdk/pkg/logutil"
	"github.com/geep/geep-go-sdk/pkg/settings"
)

// WithLoggerInit loads the environment settings and bootstraps the
// global logging stack before any subcommand runs. The service name
// ends up on every log record.
func WithLoggerInit(serviceName string) Option {
	return func(cmd *cobra.Command) error {
		cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
			s, err := settings.Load()
			Must(err)

			Must(logutil.Init(serviceName, s))
		}
		return nil
	}
}
