package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	cmdcommon "boscoin.io/dao/cmd/daoctl/common"
	"boscoin.io/dao/lib/api"
	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/common/keypair"
	"boscoin.io/dao/lib/contract/payload"
	"boscoin.io/dao/lib/errors"
)

const defaultEndpoint = "http://127.0.0.1:12345"

var (
	flagEndpoint     string        = common.GetENVValue("DAO_ENDPOINT", defaultEndpoint)
	flagTimeout      time.Duration = 10 * time.Second
	flagClientFormat string        = "prettyjson"
	flagAdvance      uint64
	flagSetLevel     int64 = -1
	flagLimit        uint64
	flagCursor       int64 = -1
	flagReverse      bool
)

var (
	callCmd     *cobra.Command
	infoCmd     *cobra.Command
	levelCmd    *cobra.Command
	contractCmd *cobra.Command
	outcomesCmd *cobra.Command
)

func init() {
	callCmd = &cobra.Command{
		Use:   "call <sender> <contract> <method> [args json]",
		Short: "Submit a call to a running server",
		Args:  cobra.RangeArgs(3, 4),
		Run: func(c *cobra.Command, args []string) {
			code, err := newExecCode(args[1], args[2], args[3:]...)
			if err != nil {
				cmdcommon.PrintFlagsError(c, "args", err)
			}

			withClient(c, func(client *api.Client) (interface{}, error) {
				return client.Submit(resolveAddress(args[0]), code)
			})
		},
	}

	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Print the state of a running server",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, args []string) {
			withClient(c, func(client *api.Client) (interface{}, error) {
				return client.Info()
			})
		},
	}

	levelCmd = &cobra.Command{
		Use:   "level",
		Short: "Move the level of a running server",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, args []string) {
			if flagSetLevel < 0 && flagAdvance < 1 {
				cmdcommon.PrintFlagsError(c, "--advance", fmt.Errorf("--advance or --set must be given"))
			}

			withClient(c, func(client *api.Client) (interface{}, error) {
				if flagSetLevel >= 0 {
					return client.SetLevel(uint64(flagSetLevel))
				}
				return client.AdvanceLevel(flagAdvance)
			})
		},
	}

	contractCmd = &cobra.Command{
		Use:   "contract <contract>",
		Short: "Print the balance and storage of a contract",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			withClient(c, func(client *api.Client) (interface{}, error) {
				return client.Contract(resolveAddress(args[0]))
			})
		},
	}

	outcomesCmd = &cobra.Command{
		Use:   "outcomes <contract> [vote id]",
		Short: "Print the outcomes archived by a contract",
		Args:  cobra.RangeArgs(1, 2),
		Run: func(c *cobra.Command, args []string) {
			address := resolveAddress(args[0])
			if len(args) > 1 {
				voteID, err := strconv.ParseUint(args[1], 10, 64)
				if err != nil {
					cmdcommon.PrintFlagsError(c, "vote id", err)
				}
				withClient(c, func(client *api.Client) (interface{}, error) {
					return client.Outcome(address, voteID)
				})
				return
			}

			var cursor *uint64
			if flagCursor >= 0 {
				v := uint64(flagCursor)
				cursor = &v
			}
			withClient(c, func(client *api.Client) (interface{}, error) {
				r, err := client.Outcomes(address, cursor, flagLimit, flagReverse)
				return r.Embedded.Records, err
			})
		},
	}

	for _, c := range []*cobra.Command{callCmd, infoCmd, levelCmd, contractCmd, outcomesCmd} {
		c.Flags().StringVar(&flagEndpoint, "endpoint", flagEndpoint, "endpoint of the api server")
		c.Flags().DurationVar(&flagTimeout, "timeout", flagTimeout, "timeout of each request")
		c.Flags().StringVar(&flagClientFormat, "format", flagClientFormat, "output format, {json, prettyjson, yaml}")
		rootCmd.AddCommand(c)
	}

	levelCmd.Flags().Uint64Var(&flagAdvance, "advance", flagAdvance, "number of levels to advance")
	levelCmd.Flags().Int64Var(&flagSetLevel, "set", flagSetLevel, "level to move to")

	outcomesCmd.Flags().Uint64Var(&flagLimit, "limit", flagLimit, "maximum number of outcomes")
	outcomesCmd.Flags().Int64Var(&flagCursor, "cursor", flagCursor, "vote id the page starts after")
	outcomesCmd.Flags().BoolVar(&flagReverse, "reverse", flagReverse, "latest outcomes first")
}

// resolveAddress keeps addresses and turns anything else into the address
// of the actor of that name.
func resolveAddress(s string) string {
	if keypair.IsContractAddress(s) || keypair.IsActorAddress(s) {
		return s
	}
	return keypair.ActorAddress(s)
}

func newExecCode(contractAddress, method string, args ...string) (*payload.ExecCode, error) {
	code := &payload.ExecCode{
		ContractAddress: resolveAddress(contractAddress),
		Method:          method,
	}
	if len(args) > 0 && len(args[0]) > 0 {
		if !json.Valid([]byte(args[0])) {
			return nil, errors.InvalidPayload.Clone().SetData("args", args[0])
		}
		code.Args = json.RawMessage(args[0])
	}
	return code, nil
}

func withClient(c *cobra.Command, f func(*api.Client) (interface{}, error)) {
	encode, err := cmdcommon.GetEncoder(flagClientFormat)
	if err != nil {
		cmdcommon.PrintFlagsError(c, "--format", err)
	}

	client, err := api.NewClient(flagEndpoint, flagTimeout, &api.DefaultRetrySetting)
	if err != nil {
		cmdcommon.PrintFlagsError(c, "--endpoint", err)
	}
	defer client.Close()

	v, err := f(client)
	if err != nil {
		cmdcommon.PrintError(c, err)
	}
	if err = encode(v, os.Stdout); err != nil {
		cmdcommon.PrintError(c, err)
	}
}
