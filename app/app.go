/*
 *    Copyright 2024 Malrelay Authors
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

package app

import (
	"context"
	"fmt"
	"io"
	adaptersin "malrelay/adapters/in"
	adaptersout "malrelay/adapters/out"
	"malrelay/common"
	"malrelay/config"
	"malrelay/domain/entities"
	portsout "malrelay/domain/ports/out"
	"malrelay/domain/services"
	"malrelay/domain/services/cleanup"
	"malrelay/domain/services/modules"
	"malrelay/domain/services/preprocess"
	"malrelay/domain/services/results"
	"malrelay/domain/services/stages"
	"malrelay/fileutils"
	relayhttp "malrelay/http"
	"malrelay/logging"
	"malrelay/metrics"
	"malrelay/pkg/awsutils"

	"net/http"
	"strings"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/uber-go/tally/v4"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"
)

//nolint:cyclop
func Start(ctx context.Context) error {
	appConfig, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Enable Datadog tracer
	tracer.Start()
	defer tracer.Stop()

	// Enable Datadog Profiler
	if err = profiler.Start(); err != nil {
		return err
	}
	defer profiler.Stop()

	logger, err := logging.NewZapLogger(appConfig.Analysis.DebugLog)
	if err != nil {
		return err
	}

	var metricsHandler http.Handler
	var metricsScope tally.Scope
	var metricsClose io.Closer

	if appConfig.HTTPServer.Metrics {
		metricsScope, metricsHandler, metricsClose = metrics.NewPrometheusScope()
		defer metricsClose.Close()
	} else {
		metricsScope, metricsHandler, _ = metrics.NewNoopScope()
	}

	var client awsutils.Clients
	session, err := client.Session(appConfig.Aws.Region, appConfig.Aws.Resolver)

	if err != nil {
		return fmt.Errorf("failed to initialize aws client. Error: %s, Region: %s, Resolver: %s", err, appConfig.Aws.Region, appConfig.Aws.Resolver)
	}

	cache := adaptersout.NewCache(appConfig.Redis.URL, appConfig.Redis.Password, appConfig.Redis.UseTLS)
	slackViewer := adaptersout.NewSlackViewer(appConfig.Notification.Slack.Webhook, appConfig.Notification.Slack.ChannelID, appConfig.Notification.Slack.Username)

	localStorageFactory := adaptersout.NewLocalStorageFactory(appConfig.Analysis.MaxStorageSize)
	remoteStorageFactory := adaptersout.NewRemoteStorageFactory(session, nil)

	sqsService := awsutils.SQS{}
	sqsService.Init(session, nil)

	downloadService := services.NewDownloadService(localStorageFactory, remoteStorageFactory, logger)
	extractService := services.NewExtractService(logger)
	findingsRepo := adaptersout.NewCacheFindingsRepo(cache, time.Duration(appConfig.Analysis.ResultTTL)*time.Second, logger)

	// Processing modules. A sandbox without credentials is left out of the
	// pipeline instead of failing startup.
	var processingModules []modules.ProcessingModule

	triageSandbox := adaptersout.NewTriageSandbox(adaptersout.TriageOptions{
		APIEndpoint:      appConfig.Modules.Triage.APIEndpoint,
		WebEndpoint:      appConfig.Modules.Triage.WebEndpoint,
		APIKey:           appConfig.Modules.Triage.APIKey,
		CollectDropfiles: appConfig.Modules.Triage.CollectDropfiles,
		CollectMemdumps:  appConfig.Modules.Triage.CollectMemdumps,
		CollectPcaps:     appConfig.Modules.Triage.CollectPcaps,
	}, common.NewRateLimiter(appConfig.Redis.URL, appConfig.Redis.Password, appConfig.Redis.UseTLS, common.RateLimitConfig{
		Minute: appConfig.Modules.Triage.MaxRPM,
		Key:    "triage",
	}))

	triageModule, err := modules.NewSandboxModule(triageSandbox, fileutils.Detonatable(), modules.SandboxOptions{
		WaitTimeout:   time.Duration(appConfig.Modules.Triage.WaitTimeout) * time.Second,
		WaitStep:      time.Duration(appConfig.Modules.Triage.WaitStep) * time.Second,
		CheckExisting: appConfig.Modules.Triage.CheckExisting,
	}, logger)
	if err != nil {
		logger.Infow("Triage module disabled", "reason", err)
	} else {
		processingModules = append(processingModules, triageModule)
	}

	unpacmeSandbox := adaptersout.NewUnpacMeSandbox(adaptersout.UnpacMeOptions{
		APIEndpoint:     appConfig.Modules.Unpacme.APIEndpoint,
		WebEndpoint:     appConfig.Modules.Unpacme.WebEndpoint,
		APIKey:          appConfig.Modules.Unpacme.APIKey,
		CollectUnpacked: appConfig.Modules.Unpacme.CollectUnpacked,
	}, common.NewRateLimiter(appConfig.Redis.URL, appConfig.Redis.Password, appConfig.Redis.UseTLS, common.RateLimitConfig{
		Minute: appConfig.Modules.Unpacme.MaxRPM,
		Key:    "unpacme",
	}))

	unpacmeModule, err := modules.NewSandboxModule(unpacmeSandbox, []fileutils.ContentType{fileutils.Executable}, modules.SandboxOptions{
		WaitTimeout:   time.Duration(appConfig.Modules.Unpacme.WaitTimeout) * time.Second,
		WaitStep:      time.Duration(appConfig.Modules.Unpacme.WaitStep) * time.Second,
		CheckExisting: appConfig.Modules.Unpacme.CheckExisting,
	}, logger)
	if err != nil {
		logger.Infow("UnpacMe module disabled", "reason", err)
	} else {
		processingModules = append(processingModules, unpacmeModule)
	}

	extractModule := modules.NewExtractModule(extractService, modules.ExtractOptions{
		MaximumExtractedFiles:    appConfig.Modules.Extract.MaximumExtractedFiles,
		MaximumAutomaticAnalyses: appConfig.Modules.Extract.MaximumAutomaticAnalyses,
	}, logger)
	processingModules = append(processingModules, extractModule)

	// Channels
	inputChannel := make(chan *entities.AnalysisRequest)
	cleanupChannel := make(chan *stages.Cleanup[entities.AnalysisRequest])

	// Preprocessors
	sizeFilter := preprocess.NewSizeFilter(appConfig.Analysis.SizeLimit, logger)
	downloader := preprocess.NewDownloader(downloadService)
	typeDetection := preprocess.NewTypeDetection(localStorageFactory, logger)
	preprocessHandler := preprocess.NewPreprocessHandler([]preprocess.Job{sizeFilter, downloader, typeDetection}, logger)

	// Modules
	moduleHandler := modules.NewModuleHandler(processingModules, localStorageFactory, logger)

	// Results
	storeService := results.NewStoreService(findingsRepo, logger)
	emergencyService := results.NewEmergencyService(appConfig.Analysis.ScoreThreshold, []portsout.Viewer{slackViewer}, logger)
	resultHandler := results.NewResultHandler([]results.Job{storeService, emergencyService}, logger)

	// Cleanups
	queueCleanup := cleanup.NewQueueCleanup(appConfig.Aws.Queue, sqsService, logger)
	storageCleanup := cleanup.NewStorageCleanup(localStorageFactory, logger)
	cleanupHandler := cleanup.NewCleanupHandler([]cleanup.Job{&queueCleanup, &storageCleanup}, logger)

	// Stages initialization
	preprocessStage := stages.NewStage[entities.AnalysisRequest, entities.AnalysisRequest](preprocessHandler, inputChannel, cleanupChannel, logger)
	moduleStage := stages.NewStage[entities.AnalysisRequest, entities.AnalysisResult](moduleHandler, preprocessStage.Output(), cleanupChannel, logger)
	resultStage := stages.NewStage[entities.AnalysisResult, entities.Empty](resultHandler, moduleStage.Output(), make(chan *stages.Cleanup[entities.AnalysisResult]), logger)
	cleanupStage := stages.NewStage[stages.Cleanup[entities.AnalysisRequest], entities.Empty](cleanupHandler, cleanupChannel, make(chan *stages.Cleanup[stages.Cleanup[entities.AnalysisRequest]]), logger)

	preprocessStage.Process(ctx)
	moduleStage.Process(ctx)
	resultStage.Process(ctx)
	cleanupStage.Process(ctx)

	resultHandler.HandleAsync(ctx, time.Duration(appConfig.Notification.UpdateInterval)*time.Second)

	scheduleService := services.NewScheduleService(localStorageFactory, inputChannel, logger)

	// Controllers
	queueController := adaptersin.NewQueueController(appConfig.Aws.Queue, localStorageFactory, inputChannel, sqsService, metricsScope, logger)
	go queueController.AsyncAnalyze(ctx)

	analysisController := adaptersin.NewAnalysisController(scheduleService, findingsRepo, logger)

	fiberConfig := relayhttp.FiberConfig{
		MaxRequestSize:    appConfig.HTTPServer.MaxRequestSize,
		AuthorizationKeys: appConfig.HTTPServer.AuthorizationKeys,
		Profiler:          appConfig.HTTPServer.Profiler,
		Metrics:           adaptor.HTTPHandler(metricsHandler),
		RequestLogger: func(c *fiber.Ctx) error {
			// Prevent generating lots of requests because of healthcheck
			if !strings.HasPrefix(c.Path(), "/healthcheck/") && !strings.HasPrefix(c.Path(), "/metrics") {
				logger.Infow("Received webapi request", "ip", c.IP(), "method", c.Method(), "url", c.BaseURL(), "path", c.Path(),
					"response_status", c.Response().StatusCode())
			}
			return c.Next()
		},
		Readiness: func(c *fiber.Ctx) error {
			if appConfig.Aws.Queue != "" {
				req, err := http.NewRequestWithContext(c.Context(), "GET", appConfig.Aws.Queue, http.NoBody)
				if err != nil {
					logger.Errorw("Failed to create SQS request in readiness.", "error", err)
					return c.Status(fiber.StatusServiceUnavailable).SendString(fmt.Sprintf("Failed to create request %s", err))
				}

				resp, err := http.DefaultClient.Do(req)
				if err != nil {
					logger.Errorw("Failed to connect to the SQS in readiness.", "error", err)
					return c.Status(fiber.StatusServiceUnavailable).SendString(fmt.Sprintf("SQS not connectable. %s", err))
				}
				defer resp.Body.Close()
			}

			_, err = cache.List("XXXXX")
			if err != nil {
				logger.Errorw("Failed to connect to the cache.", "error", err)
				return c.Status(fiber.StatusServiceUnavailable).SendString(fmt.Sprintf("Elasticache not connectable. %s", err))
			}

			return c.SendStatus(fiber.StatusOK)
		},
		Liveness: func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		},
		Handlers: []relayhttp.Handler{
			{HTTPMethod: "POST", Path: "/files", HandlerFunc: analysisController.AnalyzeFile},
			{HTTPMethod: "POST", Path: "/urls", HandlerFunc: analysisController.AnalyzeURL},
			{HTTPMethod: "POST", Path: "/objects", HandlerFunc: analysisController.AnalyzeObject},
			{HTTPMethod: "GET", Path: "/analyses/:id", HandlerFunc: analysisController.GetAnalysis},
		},
	}

	app, err := relayhttp.CreateFiberApp(fiberConfig, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize fiber framework. Error: %s", err)
	}

	return app.Listen(fmt.Sprintf(":%d", appConfig.HTTPServer.Port))
}
