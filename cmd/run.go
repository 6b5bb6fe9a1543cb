// MIT License
//
// Copyright (c) 2025-2026 icx-labs
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	goakt "github.com/tochemey/goakt/v4/actor"
	"github.com/tochemey/goakt/v4/log"
	"github.com/tochemey/goakt/v4/remote"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/icx-labs/localic/backend"
	"github.com/icx-labs/localic/caller"
	"github.com/icx-labs/localic/calls"
	"github.com/icx-labs/localic/canisters"
	"github.com/icx-labs/localic/deploy"
	"github.com/icx-labs/localic/domain"
	"github.com/icx-labs/localic/messages"
	"github.com/icx-labs/localic/persistence"
	"github.com/icx-labs/localic/service"
)

// defaultRates seeds the rates canister. Rates carry nine decimals.
var defaultRates = map[string]uint64{
	canisters.RatePair("ICP", "USD"): 12_340_000_000,
	canisters.RatePair("ICP", "EUR"): 11_210_000_000,
	canisters.RatePair("BTC", "USD"): 97_654_000_000_000,
}

func initTracer(ctx context.Context, res *resource.Resource, traceURL string) *sdktrace.TracerProvider {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(traceURL),
	)
	if err != nil {
		panic(err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	return tp
}

func initMeter(res *resource.Resource, port int, logger log.Logger) *metric.MeterProvider {
	metricExporter, err := prometheus.New()
	if err != nil {
		panic(err)
	}
	meterProvider := metric.NewMeterProvider(
		metric.WithReader(metricExporter),
		metric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
	}()
	logger.Infof("Prometheus server running on :%d", port)
	return meterProvider
}

func newStateStore(config *service.Config) persistence.Store {
	if config.MemoryStore {
		return persistence.NewMemoryStore()
	}
	return persistence.NewPostgresStore(&persistence.PostgresConfig{
		DBHost:     config.DBHost,
		DBPort:     config.DBPort,
		DBName:     config.DBName,
		DBUser:     config.DBUser,
		DBPassword: config.DBPassword,
	})
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the local replica with its caller and ledger services",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		logger := log.NewSlog(log.DebugLevel, os.Stdout)

		config, err := service.GetConfig()
		if err != nil {
			logger.Fatal(err)
			os.Exit(1)
		}

		tools := config.RequiredTools
		if len(tools) == 0 {
			tools = deploy.DefaultRequiredTools
		}
		if err := deploy.CheckPrerequisites(tools); err != nil {
			logger.Fatal(err)
			os.Exit(1)
		}

		res, err := resource.New(ctx,
			resource.WithHost(),
			resource.WithProcess(),
			resource.WithTelemetrySDK(),
			resource.WithAttributes(
				semconv.ServiceNameKey.String("localic"),
			),
		)
		if err != nil {
			logger.Fatal(err)
			os.Exit(1)
		}

		_ = initTracer(ctx, res, config.TraceURL)
		_ = initMeter(res, config.MetricsPort, logger)

		stateStore := newStateStore(config)
		if err := stateStore.Start(ctx); err != nil {
			logger.Fatal(err)
			os.Exit(1)
		}

		systemOpts := []goakt.Option{
			goakt.WithLogger(logger),
			goakt.WithExtensions(stateStore),
			goakt.WithActorInitMaxRetries(3),
		}
		if config.RemotingPort > 0 {
			cbor := remote.NewCBORSerializer()
			systemOpts = append(systemOpts,
				goakt.WithRemote(remote.NewConfig(config.RemotingHost, config.RemotingPort,
					remote.WithSerializers((*messages.Get)(nil), cbor),
					remote.WithSerializers((*messages.Set)(nil), cbor),
					remote.WithSerializers((*messages.GetAndSet)(nil), cbor),
					remote.WithSerializers((*messages.Increment)(nil), cbor),
					remote.WithSerializers((*messages.CounterValue)(nil), cbor),
					remote.WithSerializers((*messages.Ack)(nil), cbor),
					remote.WithSerializers((*messages.Transfer)(nil), cbor),
					remote.WithSerializers((*messages.TransferResult)(nil), cbor),
					remote.WithSerializers((*messages.BalanceOf)(nil), cbor),
					remote.WithSerializers((*messages.BalanceReply)(nil), cbor),
					remote.WithSerializers((*messages.GetFee)(nil), cbor),
					remote.WithSerializers((*messages.FeeReply)(nil), cbor),
					remote.WithSerializers((*messages.SignDigest)(nil), cbor),
					remote.WithSerializers((*messages.SignatureReply)(nil), cbor),
					remote.WithSerializers((*messages.GetRate)(nil), cbor),
					remote.WithSerializers((*messages.RateReply)(nil), cbor),
				)),
			)
		}

		actorSystem, err := goakt.NewActorSystem(config.SystemName, systemOpts...)
		if err != nil {
			logger.Fatal(err)
			os.Exit(1)
		}

		if err := actorSystem.Start(ctx); err != nil {
			logger.Fatal(err)
			os.Exit(1)
		}

		planOpts := []deploy.PlanOption{
			deploy.WithInitialBalance(domain.TokensFromE8s(config.InitialBalanceE8s)),
			deploy.WithTransferFee(domain.TokensFromE8s(config.TransferFeeE8s)),
		}
		if config.BackendSeed != "" {
			planOpts = append(planOpts, deploy.WithBackendSeed(config.BackendSeed))
		}
		plan, err := deploy.NewPlan(planOpts...)
		if err != nil {
			logger.Fatal(err)
			os.Exit(1)
		}

		if _, err := deploy.Provision(ctx, actorSystem, plan, defaultRates); err != nil {
			logger.Fatal(err)
			os.Exit(1)
		}

		logger.Info("Replica provisioned")
		logger.Infof("Minting account: %s", plan.Minting)
		logger.Infof("Backend principal: %s", plan.Backend.Principal())
		logger.Infof("Backend account: %s", plan.Recipient)

		owner := plan.Backend.Principal()
		if config.OwnerPrincipal != "" {
			owner, err = domain.PrincipalFromText(config.OwnerPrincipal)
			if err != nil {
				logger.Fatal(err)
				os.Exit(1)
			}
		}

		router := calls.NewRouter(actorSystem)
		callerService := service.NewCallerService(caller.New(router), config.CallerPort, logger)
		callerService.Start()

		ledgerService := service.NewLedgerService(
			backend.New(router, owner, plan.Recipient,
				backend.WithTransferFee(plan.Install.TransferFee)),
			config.LedgerPort,
			logger,
		)
		ledgerService.Start()

		sigs := make(chan os.Signal, 1)
		done := make(chan struct{}, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigs

			logger.Info("Shutting down...")
			if err := actorSystem.Stop(ctx); err != nil {
				logger.Errorf("error stopping actor system: %v", err)
			}

			if err := stateStore.Stop(ctx); err != nil {
				logger.Errorf("error stopping persistence: %v", err)
			}

			newCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			if err := callerService.Stop(newCtx); err != nil {
				logger.Errorf("error stopping caller service: %v", err)
			}
			if err := ledgerService.Stop(newCtx); err != nil {
				logger.Errorf("error stopping ledger service: %v", err)
			}

			done <- struct{}{}
		}()
		<-done
		logger.Info("Shutdown complete")
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
