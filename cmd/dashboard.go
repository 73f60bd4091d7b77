package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dumpersafety/dumperwatch/config"
	"github.com/dumpersafety/dumperwatch/dashboard"
	"github.com/dumpersafety/dumperwatch/database"
	"github.com/dumpersafety/dumperwatch/service"
	"github.com/dumpersafety/dumperwatch/web"
	"golang.org/x/sync/errgroup"
)

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Runs the dumperwatch dashboard server",
	Long:  `Runs the dumperwatch dashboard server`,
	Run: func(cmd *cobra.Command, args []string) {

		cfg := config.FromEnvfile()

		log.SetLevel(cfg.LogLevel)

		switch cfg.LogFormat {
		case config.LogFormatJSON:
			log.SetFormatter(&log.JSONFormatter{})
		default:
			log.SetFormatter(&log.TextFormatter{})
		}

		if cfg.TestModeEnabled {
			log.Info("TEST MODE ENABLED")
		}

		// Secrets Manager is only reached for when a secret path is
		// actually configured; local setups run without AWS credentials.
		var secretsManagerClient *secretsmanager.Client
		if cfg.Detect.SecretPath != "" || cfg.PostgresSecretPath != "" {
			awsConfig, err := awsconfig.LoadDefaultConfig(context.Background())
			if err != nil {
				log.Fatal(err)
			}
			secretsManagerClient = secretsmanager.NewFromConfig(awsConfig)
		}

		databaseURL := cfg.PostgresURL
		if databaseURL == "" && cfg.PostgresSecretPath != "" {
			// Get the DB secrets from AWS Secrets Manager
			result, err := secretsManagerClient.GetSecretValue(context.Background(), &secretsmanager.GetSecretValueInput{SecretId: aws.String(cfg.PostgresSecretPath)})
			if err != nil {
				log.Fatal(err.Error())
			}
			var pgSecrets config.PostgresSecretData
			err = json.Unmarshal([]byte(*result.SecretString), &pgSecrets)
			if err != nil {
				log.Fatalf("postgres secrets read error: %v", err)
			}
			databaseURL = pgSecrets.ConnectionString
		}

		/*
			Graceful shutdown is possible with errgroup + signal.NotifyContext
			NotifyContext returns a context that will close on OS signals to terminate the process
			errgroup uses that context, and also closes it in case a goroutine errors out
		*/
		ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGKILL)
		defer done()
		g, gCtx := errgroup.WithContext(ctx)

		detectService := service.NewDetectService(cfg, secretsManagerClient)

		var recorder dashboard.HistoryRecorder
		var historyReader web.HistoryReader
		if databaseURL != "" {
			db := database.NewDatabase(databaseURL)
			if err := db.Connect(gCtx); err != nil {
				log.Fatalf("error connecting to database: %v", err)
			}
			defer db.Disconnect()
			recorder = db
			historyReader = db
		} else {
			log.Info("no history store configured, detections will not be recorded")
		}

		dash := dashboard.New(detectService, recorder)

		server := web.NewServer(gCtx, cfg.Dashboard, dash, historyReader)
		log.Infof("dashboard listening on %s", server.Server.Addr)

		g.Go(func() error {
			if err := server.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		// ...and shut down the server if the dashboard needs to terminate
		g.Go(func() error {
			<-gCtx.Done()
			defer log.Info("exiting dashboard server")
			return server.Server.Shutdown(context.Background())
		})

		err := g.Wait()
		if err != nil {
			log.Errorf("caught error: %v", err)
		}
	},
}
