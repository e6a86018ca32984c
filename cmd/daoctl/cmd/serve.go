package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	logging "github.com/inconshreveable/log15"
	"github.com/oklog/run"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"

	cmdcommon "boscoin.io/dao/cmd/daoctl/common"
	"boscoin.io/dao/lib/api"
	"boscoin.io/dao/lib/api/httpcache"
	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/contract"
	"boscoin.io/dao/lib/ledger"
	"boscoin.io/dao/lib/metrics"
	"boscoin.io/dao/lib/scenario"
	"boscoin.io/dao/lib/storage"
)

const (
	defaultBind            = "0.0.0.0:12345"
	defaultShutdownTimeout = 5 * time.Second
)

var (
	flagBind              string = common.GetENVValue("DAO_BIND", defaultBind)
	flagStorage           string
	flagDelivery          string = common.GetENVValue("DAO_DELIVERY", contract.DeliveryIsolated.String())
	flagScenario          string = common.GetENVValue("DAO_SCENARIO", "")
	flagPlay              bool   = common.GetENVValue("DAO_PLAY", "0") == "1"
	flagLedgerCache       int    = ledger.DefaultCacheSize
	flagHTTPCache         string = common.GetENVValue("DAO_HTTP_CACHE", httpcache.AdapterNone)
	flagHTTPCachePoolSize int    = httpcache.DefaultPoolSize
	flagHTTPCacheRedis    string = common.GetENVValue("DAO_HTTP_CACHE_REDIS", "")
	flagRateLimit         string = common.GetENVValue("DAO_RATE_LIMIT", "")
	flagAccessLog         string = common.GetENVValue("DAO_ACCESS_LOG", "")
	flagJSONRPC           bool   = common.GetENVValue("DAO_JSONRPC", "0") == "1"
	flagVerbose           bool   = common.GetENVValue("DAO_VERBOSE", "0") == "1"
)

var (
	serveCmd *cobra.Command

	storageConfig *storage.Config
	deliveryMode  contract.DeliveryMode
)

func init() {
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve a contract host over http",
		Run: func(c *cobra.Command, args []string) {
			parseFlagsServe(c)

			if err := serve(); err != nil {
				cmdcommon.PrintError(c, err)
			}
		},
	}

	var err error
	var currentDirectory string
	if currentDirectory, err = os.Getwd(); err != nil {
		cmdcommon.PrintFlagsError(serveCmd, "--storage", err)
	}
	if currentDirectory, err = filepath.Abs(currentDirectory); err != nil {
		cmdcommon.PrintFlagsError(serveCmd, "--storage", err)
	}
	flagStorage = common.GetENVValue("DAO_STORAGE", fmt.Sprintf("file://%s/db", currentDirectory))

	serveCmd.Flags().StringVar(&flagBind, "bind", flagBind, "address to listen on")
	serveCmd.Flags().StringVar(&flagStorage, "storage", flagStorage, "storage uri, 'memory://' or 'file:///path'")
	serveCmd.Flags().StringVar(&flagDelivery, "delivery", flagDelivery, "delivery of internal calls, {isolated, atomic}")
	serveCmd.Flags().StringVar(&flagScenario, "scenario", flagScenario, "scenario file whose contracts are deployed")
	serveCmd.Flags().BoolVar(&flagPlay, "play", flagPlay, "also play the steps of --scenario before serving")
	serveCmd.Flags().IntVar(&flagLedgerCache, "ledger-cache", flagLedgerCache, "number of voting power lookups kept in memory")
	serveCmd.Flags().StringVar(&flagHTTPCache, "http-cache", flagHTTPCache, "cache of archived outcomes, {none, memory, redis}")
	serveCmd.Flags().IntVar(&flagHTTPCachePoolSize, "http-cache-pool-size", flagHTTPCachePoolSize, "size of the memory http cache")
	serveCmd.Flags().StringVar(&flagHTTPCacheRedis, "http-cache-redis", flagHTTPCacheRedis, "redis shards, 'name=host:port,...'")
	serveCmd.Flags().StringVar(&flagRateLimit, "rate-limit", flagRateLimit, "rate limit of calls per client, ex) '100-M'")
	serveCmd.Flags().StringVar(&flagAccessLog, "access-log", flagAccessLog, "access log file; stdout by default")
	serveCmd.Flags().BoolVar(&flagJSONRPC, "jsonrpc", flagJSONRPC, "expose the raw storage over json-rpc at /jsonrpc")
	serveCmd.Flags().BoolVar(&flagVerbose, "verbose", flagVerbose, "verbose")

	rootCmd.AddCommand(serveCmd)
}

func parseFlagsServe(c *cobra.Command) {
	var err error

	if storageConfig, err = storage.NewConfigFromString(flagStorage); err != nil {
		cmdcommon.PrintFlagsError(c, "--storage", err)
	}
	if deliveryMode, err = contract.ParseDeliveryMode(flagDelivery); err != nil {
		cmdcommon.PrintFlagsError(c, "--delivery", err)
	}
	if flagPlay && len(flagScenario) < 1 {
		cmdcommon.PrintFlagsError(c, "--play", fmt.Errorf("--scenario must be given"))
	}
	if _, err = api.RateLimitMiddleware(flagRateLimit); err != nil {
		cmdcommon.PrintFlagsError(c, "--rate-limit", err)
	}
	switch flagHTTPCache {
	case httpcache.AdapterNone, httpcache.AdapterMemory:
	case httpcache.AdapterRedis:
		if len(httpcache.ParseRedisAddrs(flagHTTPCacheRedis)) < 1 {
			cmdcommon.PrintFlagsError(c, "--http-cache-redis", fmt.Errorf("must be given with --http-cache=redis"))
		}
	default:
		cmdcommon.PrintFlagsError(c, "--http-cache", fmt.Errorf("unknown cache: %q", flagHTTPCache))
	}

	log.Info("Starting daoctl")

	parsedFlags := []interface{}{}
	parsedFlags = append(parsedFlags, "\n\tbind", flagBind)
	parsedFlags = append(parsedFlags, "\n\tstorage", storageConfig)
	parsedFlags = append(parsedFlags, "\n\tdelivery", deliveryMode)
	parsedFlags = append(parsedFlags, "\n\tscenario", flagScenario)
	parsedFlags = append(parsedFlags, "\n\tplay", flagPlay)
	parsedFlags = append(parsedFlags, "\n\thttp-cache", flagHTTPCache)
	parsedFlags = append(parsedFlags, "\n\trate-limit", flagRateLimit)
	parsedFlags = append(parsedFlags, "\n\tjsonrpc", flagJSONRPC)
	parsedFlags = append(parsedFlags, "\n\tlog-level", flagLogLevel)

	log.Debug("parsed flags:", parsedFlags...)

	if flagVerbose {
		http2.VerboseLogs = true
	}
}

func newCache() (httpcache.Middlewarer, error) {
	if flagHTTPCache == httpcache.AdapterNone {
		return httpcache.NewNopClient(), nil
	}

	adapter, err := httpcache.NewAdapter(flagHTTPCache, flagHTTPCachePoolSize, flagHTTPCacheRedis)
	if err != nil {
		return nil, err
	}

	return httpcache.NewClient(
		httpcache.WithAdapter(adapter),
		httpcache.WithFilter(api.IsImmutable),
		httpcache.WithLogger(log.New("module", "httpcache")),
	)
}

// prepareHost deploys the contracts of --scenario, and plays its steps when
// --play is set.
func prepareHost(h *contract.Host, l *ledger.Ledger) error {
	if len(flagScenario) < 1 {
		return nil
	}

	s, err := scenario.LoadFile(flagScenario)
	if err != nil {
		return err
	}

	runner := scenario.NewRunner(h, l)
	if !flagPlay {
		names, err := runner.Deploy(s)
		if err != nil {
			return err
		}
		log.Info("contracts deployed", "scenario", flagScenario, "names", names)
		return nil
	}

	report, err := runner.Run(s)
	if err != nil {
		return err
	}
	log.Info(
		"scenario played",
		"scenario", flagScenario,
		"level", report.Level,
		"steps", len(report.Steps),
		"contracts", report.Contracts,
	)

	return nil
}

func serve() error {
	metrics.InitPrometheusMetrics()
	metrics.SetVersion()

	st, err := storage.NewStorage(storageConfig)
	if err != nil {
		log.Crit("failed to initialize storage", "error", err)
		return err
	}
	defer st.Close()

	h, err := contract.NewHost(st, deliveryMode)
	if err != nil {
		return err
	}
	l, err := ledger.New(flagLedgerCache)
	if err != nil {
		return err
	}
	if err = prepareHost(h, l); err != nil {
		return err
	}

	cache, err := newCache()
	if err != nil {
		return err
	}
	router, err := api.NewRouter(api.NewNetworkHandlerAPI(h, ""), api.RouterConfig{
		Cache:      cache,
		RateLimit:  flagRateLimit,
		PrintStack: logLevel == logging.LvlDebug,
		JSONRPC:    flagJSONRPC,
	})
	if err != nil {
		return err
	}

	var accessLog io.Writer = os.Stdout
	if len(flagAccessLog) > 0 {
		f, err := os.OpenFile(flagAccessLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		accessLog = f
	}

	server := api.NewServer(flagBind, router, accessLog)
	if err = server.Listen(); err != nil {
		return err
	}

	var serveErr error
	var g run.Group
	{
		g.Add(func() error {
			serveErr = server.Serve()
			return serveErr
		}, func(error) {
			ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				log.Error("failed to shutdown api server", "error", err)
			}
		})
	}
	{
		cancel := make(chan struct{})
		g.Add(func() error {
			return cmdcommon.Interrupt(cancel)
		}, func(error) {
			close(cancel)
		})
	}

	err = g.Run()
	log.Info("daoctl stopped", "reason", err)

	return serveErr
}
