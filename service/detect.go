package service

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dumpersafety/dumperwatch/config"
	"github.com/dumpersafety/dumperwatch/detectapi"
	"github.com/dumpersafety/dumperwatch/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	log "github.com/sirupsen/logrus"
)

// DetectService is the detection request client: one upload-and-detect round
// trip per call, normalized into the result model for the media kind.
type DetectService struct {
	config    config.DetectConfig
	client    *detectapi.Client
	simulated bool
}

func NewDetectService(cfg config.Config, secretsManagerClient *secretsmanager.Client) *DetectService {
	apiKey := cfg.Detect.APIKey
	if cfg.Detect.SecretPath != "" {
		// Get the detection API key from AWS Secrets Manager
		result, err := secretsManagerClient.GetSecretValue(
			context.Background(),
			&secretsmanager.GetSecretValueInput{
				SecretId: aws.String(cfg.Detect.SecretPath),
			},
		)
		if err != nil {
			log.Fatal(err.Error())
		}
		var detectSecrets config.DetectSecretData
		err = json.Unmarshal([]byte(*result.SecretString), &detectSecrets)
		if err != nil {
			log.Panicf("detect secrets read error: %v", err)
		}
		apiKey = detectSecrets.ApiKey
	}

	client := detectapi.NewClient(apiKey, cfg.Detect.ApiURL)
	client.HTTPClient = &http.Client{Timeout: cfg.Detect.Timeout}
	log.Infof("detection client initialized. Host: %s", cfg.Detect.ApiURL.String())

	return &DetectService{
		config:    cfg.Detect,
		client:    client,
		simulated: cfg.TestModeEnabled,
	}
}

func (s *DetectService) Detect(ctx context.Context, kind model.Kind, file model.File) (*model.Result, error) {
	if s.simulated {
		log.WithField("kind", kind).WithField("file", file.Name).Info("test mode: simulating a detection round trip")
		return simulatedResult(kind), nil
	}
	switch kind {
	case model.KindVideo:
		resp, err := s.client.DetectVideo(ctx, file.Name, file.Data)
		if err != nil {
			return nil, err
		}
		return model.ResultFromVideoResponse(resp), nil
	default:
		resp, err := s.client.DetectImage(ctx, file.Name, file.Data)
		if err != nil {
			return nil, err
		}
		return model.ResultFromImageResponse(resp), nil
	}
}

// simulatedResult fabricates a plausible payload so the dashboard can be
// exercised without the backend running.
func simulatedResult(kind model.Kind) *model.Result {
	if kind == model.KindVideo {
		return model.ResultFromVideoResponse(&detectapi.VideoResponse{
			Success:   true,
			VideoInfo: detectapi.VideoInfo{TotalFrames: 90, ProcessedFrames: 6, FPS: 30},
			FrameResults: []detectapi.FrameResult{
				{Frame: 0, Timestamp: 0, Detections: 1, MaxHazard: 18.5, Details: &detectapi.FrameDetails{Classes: []string{"truck"}}},
				{Frame: 15, Timestamp: 0.5, Detections: 2, MaxHazard: 62.1, Details: &detectapi.FrameDetails{Classes: []string{"person", "truck"}}},
				{Frame: 30, Timestamp: 1.0, Detections: 2, MaxHazard: 83.4, Details: &detectapi.FrameDetails{Classes: []string{"person", "truck"}}},
			},
		})
	}
	return model.ResultFromImageResponse(&detectapi.ImageResponse{
		Success: true,
		Summary: detectapi.ImageSummary{
			TotalObjects:    2,
			MaxHazardScore:  81.3,
			ClassesDetected: []string{"person", "excavator"},
		},
		Detections: []detectapi.ImageDetection{
			{Class: "person", Confidence: 0.93, HazardScore: 81.3, HazardLevel: "CRITICAL", EstimatedDistance: "0-2m"},
			{Class: "excavator", Confidence: 0.77, HazardScore: 42.0, HazardLevel: "MEDIUM", EstimatedDistance: "5-8m"},
		},
	})
}
