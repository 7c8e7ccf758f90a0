package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
)

const checkLongDesc string = `Check that the configured model file exists, without loading it.

Prints the same JSON body as GET /health and exits non-zero when the model
file is missing.`

// errCheckFailed signals a failed check whose details were already printed.
var errCheckFailed = errors.New("model check failed")

func newCheckCmd(fv *flagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the model file is present",
		Long:  checkLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, fv)
			if err != nil {
				return err
			}
			log, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			mgr := newManager(cfg, log)
			defer mgr.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			resp, err := mgr.Health()
			if err != nil {
				_ = enc.Encode(map[string]string{"status": "unhealthy", "error": err.Error()})
				return errCheckFailed
			}
			return enc.Encode(resp)
		},
	}
}
