package cmd

import (
	"fmt"
	"os"

	logging "github.com/inconshreveable/log15"
	isatty "github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	cmdcommon "boscoin.io/dao/cmd/daoctl/common"
	"boscoin.io/dao/lib/api"
	"boscoin.io/dao/lib/api/httpcache"
	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/contract"
	"boscoin.io/dao/lib/governance"
	"boscoin.io/dao/lib/governance/leader"
	"boscoin.io/dao/lib/governance/majority"
	"boscoin.io/dao/lib/governance/optout"
	"boscoin.io/dao/lib/ledger"
	"boscoin.io/dao/lib/scenario"
)

const defaultLogLevel logging.Lvl = logging.LvlInfo

var (
	flagLogLevel  string = common.GetENVValue("DAO_LOG_LEVEL", defaultLogLevel.String())
	flagLogOutput string = common.GetENVValue("DAO_LOG_OUTPUT", "")
	flagLogFormat string = common.GetENVValue("DAO_LOG_FORMAT", "terminal")
)

var (
	logLevel logging.Lvl
	log      logging.Logger = logging.New("module", "main")
)

var rootCmd = &cobra.Command{
	Use:   "daoctl",
	Short: "daoctl runs and serves governance contracts",
	PersistentPreRun: func(c *cobra.Command, args []string) {
		parseLogging(c)
	},
	Run: func(c *cobra.Command, args []string) {
		if len(args) < 1 {
			c.Usage()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", flagLogLevel, "log level, {crit, error, warn, info, debug}")
	rootCmd.PersistentFlags().StringVar(&flagLogOutput, "log-output", flagLogOutput, "set log output file")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", flagLogFormat, "log format, {terminal, json}")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cmdcommon.PrintFlagsError(rootCmd, "", err)
	}
}

func SetArgs(s []string) {
	rootCmd.SetArgs(s)
}

func newLogHandler(output, format string) (logging.Handler, error) {
	var logFormat logging.Format
	switch format {
	case "terminal":
		if len(output) < 1 && isatty.IsTerminal(os.Stdout.Fd()) {
			logFormat = logging.TerminalFormat()
		} else {
			logFormat = logging.LogfmtFormat()
		}
	case "json":
		logFormat = common.JsonFormatEx(false, true)
	default:
		return nil, fmt.Errorf("unknown log format: %q", format)
	}

	if len(output) < 1 {
		return logging.StreamHandler(os.Stdout, logFormat), nil
	}
	return logging.FileHandler(output, logFormat)
}

func parseLogging(c *cobra.Command) {
	var err error
	if logLevel, err = logging.LvlFromString(flagLogLevel); err != nil {
		cmdcommon.PrintFlagsError(c, "--log-level", err)
	}

	logHandler, err := newLogHandler(flagLogOutput, flagLogFormat)
	if err != nil {
		cmdcommon.PrintFlagsError(c, "--log-output", err)
	}
	if logLevel == logging.LvlDebug {
		logHandler = logging.CallerFileHandler(logHandler)
	}

	setLogging(logLevel, logHandler)
}

func setLogging(level logging.Lvl, handler logging.Handler) {
	log.SetHandler(logging.LvlFilterHandler(level, handler))

	common.SetLogging(level, handler)
	contract.SetLogging(level, handler)
	ledger.SetLogging(level, handler)
	governance.SetLogging(level, handler)
	majority.SetLogging(level, handler)
	optout.SetLogging(level, handler)
	leader.SetLogging(level, handler)
	scenario.SetLogging(level, handler)
	api.SetLogging(level, handler)
	httpcache.SetLogging(level, handler)
}
