package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"w3batch/internal/actions"
	"w3batch/internal/app/port"
	"w3batch/internal/app/provider"
	"w3batch/internal/client"
	"w3batch/internal/config"
	"w3batch/internal/infrastructure/cachestore"
	netclient "w3batch/internal/infrastructure/network/client"
	networkdefinition "w3batch/internal/infrastructure/network/definition"
	"w3batch/internal/infrastructure/proxypool"
	"w3batch/internal/infrastructure/restapi"
	"w3batch/internal/pkg/logger"
	"w3batch/internal/report"
	"w3batch/internal/service"
	"w3batch/pkg/metrics"
)

const defaultConfigPath = "config/w3batch.yaml"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "w3batch",
		Short:         "Configuration-driven wallet batch processor",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultPath := defaultConfigPath
	if env := os.Getenv("W3BATCH_CONFIG"); env != "" {
		defaultPath = env
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultPath, "Path to config file")

	runCmd := &cobra.Command{
		Use:   "run <action>",
		Short: "Run a configured action over the wallet list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(configPath, args[0])
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a starter config and wallet file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return writeStarterFiles(cmd, dir)
		},
	}

	root.AddCommand(runCmd)
	root.AddCommand(initCmd)
	return root
}

func runAction(configPath, actionName string) error {
	// Secrets referenced as ${VAR} in the config may live in a .env file.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	actionCfg, err := cfg.GetAction(actionName)
	if err != nil {
		return err
	}

	zapLogger, err := logger.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	logger.BridgeSlog(zapLogger)
	appLogger := logger.NewAdapter(zapLogger)

	metrics.MustRegisterMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	walletProvider := provider.NewWalletProvider(cfg.Wallets, appLogger)

	networks, err := networkdefinition.NewRegistry(cfg.Chains, appLogger)
	if err != nil {
		return err
	}

	cacheTTL := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
	store, err := cachestore.Open(cfg.Cache.Dir, actionCfg.Name, cacheTTL, appLogger)
	if err != nil {
		return err
	}

	var proxies port.ProxyPool
	if actionCfg.Proxy != "" {
		pool, err := proxypool.LoadPool(cfg.Proxies[actionCfg.Proxy].File, appLogger)
		if err != nil {
			return err
		}
		proxies = pool
	}

	dexClient := client.NewDEXScreenerClient(
		cfg.Pricing.BaseURL,
		time.Duration(cfg.Pricing.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
		cfg.Pricing.MaxTokensPerBatchRequest,
	)

	deps := actions.Deps{
		Cfg:      cfg,
		Cache:    store,
		Networks: networks,
		Clients:  netclient.NewEVMClientProvider(cfg.RPC, appLogger),
		Debank:   client.NewDebankClient(cfg.Debank, proxies, zapLogger),
		Prices:   service.NewPriceService(cfg.Pricing, dexClient, zapLogger),
		Catalog:  provider.NewTokenCatalog(appLogger),
		Logger:   appLogger,
	}

	handler, err := actions.Build(actionCfg, deps)
	if err != nil {
		return err
	}

	status := restapi.NewRunStatus()
	var srv *http.Server
	if cfg.Server.Enabled {
		router := restapi.SetupRouter(restapi.NewStatusHandler(cfg.Application, status), zapLogger)
		srv = &http.Server{
			Addr:         cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
			IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		}
		go func() {
			zapLogger.Info("HTTP server starting", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zapLogger.Fatal("Failed to start server", zap.Error(err))
			}
		}()
	}

	batchSvc := service.NewBatchService(walletProvider, zapLogger)

	status.Start(actionCfg.Name)
	rep, err := batchSvc.Run(ctx, actionCfg, handler)
	status.Finish(rep)
	if err != nil {
		shutdownServer(srv, zapLogger)
		return err
	}

	if actionCfg.CacheOnly {
		if ts, ok := store.UpdatedAt(); ok {
			rep.CacheAsOf = &ts
		}
	}

	if err := report.Render(os.Stdout, rep); err != nil {
		zapLogger.Error("Failed to render report", zap.Error(err))
	}

	if srv != nil {
		zapLogger.Info("Report stays available over HTTP, press Ctrl+C to exit",
			zap.String("addr", srv.Addr))
		<-ctx.Done()
	}
	shutdownServer(srv, zapLogger)
	return nil
}

func shutdownServer(srv *http.Server, zapLogger *zap.Logger) {
	if srv == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
}

const starterConfig = `application: w3batch

wallets:
  file: data/wallets.txt
  # filter: "airdrop-"
  # comment_marker: "#"

actions:
  balances:
    action: onchain-balance
    threads: 8
    prices: true
    tokens:
      - ethereum:native
      - ethereum:USDT
    filter:
      - "*:* > 0"

  portfolio:
    action: debank-snapshot
    threads: 4
    filter:
      - "*:* > $1"

  totals:
    action: debank-total
    threads: 4

# chains:
#   - name: Ethereum
#     rpc_urls:
#       - https://eth.llamarpc.com
#   - name: mychain
#     chain_id: 99999
#     native_symbol: MYC
#     rpc_urls:
#       - https://rpc.mychain.example

# proxies:
#   main:
#     file: data/proxies.txt

cache:
  ttl_minutes: 1440

logging:
  level: info

server:
  enabled: false
  port: ":8080"
`

const starterWallets = `# One wallet per line: an address or a private key, optionally followed
# by ",label". Private keys are only used to derive the address.
# 0x0000000000000000000000000000000000000000,example
`

const starterTokens = `[
  {"chainId": 1, "address": "0xdAC17F958D2ee523a2206206994597C13D831ec7", "name": "Tether USD", "symbol": "USDT", "decimals": 6},
  {"chainId": 1, "address": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "name": "USD Coin", "symbol": "USDC", "decimals": 6}
]
`

func writeStarterFiles(cmd *cobra.Command, dir string) error {
	files := []struct {
		path    string
		content string
		mode    os.FileMode
	}{
		{filepath.Join(dir, defaultConfigPath), starterConfig, 0o644},
		{filepath.Join(dir, "data", "wallets.txt"), starterWallets, 0o600},
		{filepath.Join(dir, "data", "tokens", "ethereum.json"), starterTokens, 0o644},
	}

	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", f.path)
		}
	}

	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(f.path, []byte(f.content), f.mode); err != nil {
			return err
		}
		cmd.Printf("Wrote %s\n", f.path)
	}
	return nil
}
