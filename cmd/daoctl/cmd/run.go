package cmd

import (
	"io"
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	cmdcommon "boscoin.io/dao/cmd/daoctl/common"
	"boscoin.io/dao/lib/scenario"
	"boscoin.io/dao/lib/storage"
)

var (
	runCmd *cobra.Command

	flagRunFormat   string = "prettyjson"
	flagRunStorage  string = "memory://"
	flagRunDelivery string
)

func init() {
	runCmd = &cobra.Command{
		Use:   "run <scenario file>",
		Short: "Play a scenario and print its report",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			encode, err := cmdcommon.GetEncoder(flagRunFormat)
			if err != nil {
				cmdcommon.PrintFlagsError(c, "--format", err)
			}

			if err = runScenario(args[0], os.Stdout, encode); err != nil {
				cmdcommon.PrintError(c, err)
			}
		},
	}

	runCmd.Flags().StringVar(&flagRunFormat, "format", flagRunFormat, "report format, {json, prettyjson, yaml}")
	runCmd.Flags().StringVar(&flagRunStorage, "storage", flagRunStorage, "storage uri")
	runCmd.Flags().StringVar(&flagRunDelivery, "delivery", flagRunDelivery, "overrides the delivery of the scenario, {isolated, atomic}")

	rootCmd.AddCommand(runCmd)
}

func openStorage(uri string) (*storage.LevelDBBackend, error) {
	config, err := storage.NewConfigFromString(uri)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "invalid storage")
	}

	st, err := storage.NewStorage(config)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open storage %s", config)
	}
	return st, nil
}

// runScenario writes the report even when a step fails, so the failing
// step can be looked at.
func runScenario(path string, w io.Writer, encode cmdcommon.Encode) error {
	s, err := scenario.LoadFile(path)
	if err != nil {
		return err
	}
	if len(flagRunDelivery) > 0 {
		s.Delivery = flagRunDelivery
	}

	st, err := openStorage(flagRunStorage)
	if err != nil {
		return err
	}
	defer st.Close()

	report, runErr := scenario.Play(st, s)
	if report != nil {
		if err = encode(report, w); err != nil {
			return err
		}
	}
	if runErr != nil {
		log.Error("scenario failed", "scenario", path, "error", runErr)
	}

	return runErr
}
