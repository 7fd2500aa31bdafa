package di

import (
	"fmt"

	drepo "FutScan/internal/domain/repository"
	domsvc "FutScan/internal/domain/service"
	"FutScan/internal/handler/api"
	internalrepo "FutScan/internal/repository"
	"FutScan/internal/services/indicators"
	"FutScan/internal/services/signal"
	"FutScan/internal/usecase"
	"FutScan/pkg/cache"
	"FutScan/pkg/config"
	xhttp "FutScan/pkg/http"
	pkgkafka "FutScan/pkg/kafka"
	"FutScan/pkg/logger"
	"FutScan/pkg/metrics"
	"FutScan/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideHTTPClient creates the shared outbound HTTP client.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(xhttp.WithTimeout(cfg.Exchanges.Timeout))
}

// ProvideMarketData builds the exchange clients in priority order and
// fronts them with the fallback manager.
func ProvideMarketData(cfg *config.Config, log *logger.Logger, client *xhttp.Client) (drepo.MarketData, error) {
	sources := make([]drepo.MarketData, 0, len(cfg.Exchanges.Priority))
	for _, name := range cfg.Exchanges.Priority {
		switch name {
		case "binance":
			sources = append(sources, internalrepo.NewBinanceClient(client))
		case "bybit":
			sources = append(sources, internalrepo.NewBybitClient(client))
		case "okx":
			sources = append(sources, internalrepo.NewOKXClient(client))
		default:
			return nil, fmt.Errorf("unknown exchange %q", name)
		}
	}
	return internalrepo.NewExchangeManager(log, sources...)
}

// ProvideCache picks the Redis cache when configured, otherwise the
// in-process fallback.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	return cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
}

// ProvideSignalConfig maps the YAML thresholds and weights onto the
// evaluator config.
func ProvideSignalConfig(cfg *config.Config) signal.Config {
	sc := signal.DefaultConfig()
	sc.RSIOversold = cfg.Signal.RSIOversold
	sc.RSIOverbought = cfg.Signal.RSIOverbought
	sc.FundingExtreme = cfg.Signal.FundingExtreme
	sc.FundingModerate = cfg.Signal.FundingModerate
	sc.LiqMinNotable = cfg.Signal.LiqMinNotable
	sc.LiqRatio = cfg.Signal.LiqRatio
	sc.TechnicalWeight = cfg.Signal.TechnicalWeight
	sc.FundingWeight = cfg.Signal.FundingWeight
	sc.LiquidationWeight = cfg.Signal.LiquidationWeight
	sc.MinScore = cfg.Signal.MinScore
	sc.DetailedThreshold = cfg.Signal.DetailedThreshold
	sc.TopN = cfg.Signal.TopN
	sc.MaxDetailed = cfg.Signal.MaxDetailed
	return sc
}

func ProvideTechnicalEvaluator(sc signal.Config) domsvc.TechnicalEvaluator {
	return signal.NewTechnicalEvaluator(sc)
}

func ProvideFundingEvaluator(sc signal.Config) domsvc.FundingEvaluator {
	return signal.NewFundingEvaluator(sc)
}

func ProvideLiquidationEvaluator(sc signal.Config) domsvc.LiquidationEvaluator {
	return signal.NewLiquidationEvaluator(sc)
}

func ProvideAggregator(sc signal.Config) domsvc.Aggregator {
	return signal.NewAggregator(sc)
}

func ProvideRanker(sc signal.Config) *signal.Ranker {
	return signal.NewRanker(sc)
}

func ProvideCalculator() *indicators.Calculator {
	return indicators.NewCalculator(indicators.DefaultConfig())
}

// ProvideLiquidationFeed picks the force-order stream or the trade-based
// estimator per configuration.
func ProvideLiquidationFeed(cfg *config.Config, log *logger.Logger, market drepo.MarketData) drepo.LiquidationFeed {
	if cfg.Liquidation.Mode == "stream" {
		return internalrepo.NewLiquidationStream(log,
			cfg.Liquidation.Window,
			cfg.Liquidation.ReconnectDelay,
			cfg.Liquidation.PingInterval,
		)
	}
	return internalrepo.NewTradeEstimator(market,
		cfg.Liquidation.MinNotional,
		cfg.Liquidation.Window,
		cfg.Liquidation.FetchLimit,
	)
}

// ProvideEventPublisher creates the Kafka publisher, or none when Kafka
// is disabled.
func ProvideEventPublisher(cfg *config.Config) (drepo.EventPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideNotifier creates the Telegram notifier, or a log-only fallback
// when Telegram is disabled.
func ProvideNotifier(cfg *config.Config, log *logger.Logger, client *xhttp.Client) drepo.Notifier {
	if !cfg.Telegram.Enabled {
		return internalrepo.NewLogNotifier(log)
	}
	return internalrepo.NewTelegramNotifier(client, cfg.Telegram.BotToken, cfg.Telegram.ChatID)
}

func ProvideAlertGate(cfg *config.Config, c cache.Service) drepo.AlertGate {
	return internalrepo.NewCooldownAlertGate(c, cfg.Telegram.Cooldown)
}

func ProvideSummaryStore(cfg *config.Config, c cache.Service) drepo.SummaryStore {
	// Keep the summary for two scan intervals so a slow scan never leaves
	// the API empty-handed.
	return internalrepo.NewCachedSummaryStore(c, 2*cfg.Scan.Interval)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

func ProvideScanUseCase(
	cfg *config.Config,
	market drepo.MarketData,
	feed drepo.LiquidationFeed,
	calc *indicators.Calculator,
	technical domsvc.TechnicalEvaluator,
	funding domsvc.FundingEvaluator,
	liq domsvc.LiquidationEvaluator,
	agg domsvc.Aggregator,
	ranker *signal.Ranker,
	publisher drepo.EventPublisher,
	store drepo.SummaryStore,
	m drepo.Metrics,
	log *logger.Logger,
) *usecase.ScanUseCase {
	timeframes := make([]drepo.Timeframe, 0, len(cfg.Scan.Timeframes))
	for _, tf := range cfg.Scan.Timeframes {
		timeframes = append(timeframes, drepo.NormalizeTimeframe(tf))
	}
	return usecase.NewScanUseCase(
		usecase.ScanConfig{
			Timeframes:  timeframes,
			TopSymbols:  cfg.Scan.TopSymbols,
			KlineLimit:  cfg.Scan.KlineLimit,
			Concurrency: cfg.Scan.Concurrency,
			Timeout:     cfg.Scan.Timeout,
		},
		market, feed, calc, technical, funding, liq, agg, ranker,
		publisher, store, m, log,
	)
}

func ProvideNotifyUseCase(notifier drepo.Notifier, gate drepo.AlertGate, log *logger.Logger) *usecase.NotifyUseCase {
	return usecase.NewNotifyUseCase(notifier, gate, log)
}

func ProvideHandler(
	log *logger.Logger,
	scan *usecase.ScanUseCase,
	notify *usecase.NotifyUseCase,
	store drepo.SummaryStore,
) xhttp.Handler {
	return api.NewOpportunitiesEchoHandler(log, scan, notify, store)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	scan *usecase.ScanUseCase,
	notify *usecase.NotifyUseCase,
	feed drepo.LiquidationFeed,
	publisher drepo.EventPublisher,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, log, scan, notify, feed, publisher, handler)
}
