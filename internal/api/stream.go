package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/supercam/internal/api/models"
	"github.com/smazurov/supercam/pkg/supercam"
)

// registerStreamRoutes registers capture session endpoints.
func (s *Server) registerStreamRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-status",
		Method:      http.MethodGet,
		Path:        "/api/status",
		Summary:     "Session Status",
		Description: "Get the capture session state and frame counters",
		Tags:        []string{"stream"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*models.StatusResponse, error) {
		status := s.camera.Status()
		return &models.StatusResponse{
			Body: models.StatusData{
				Open:      status.Open,
				Streaming: status.Streaming,
				Path:      status.Path,
				Captured:  status.Stats.Captured,
				Dropped:   status.Stats.Dropped,
				LastError: status.LastError,
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "start-stream",
		Method:      http.MethodPost,
		Path:        "/api/stream/start",
		Summary:     "Start Streaming",
		Description: "Open a camera and start capturing frames",
		Tags:        []string{"stream"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 502},
	}, func(ctx context.Context, input *models.StreamStartRequest) (*models.MessageResponse, error) {
		if err := s.camera.Start(input.Body.Path); err != nil {
			s.logger.Error("stream start failed", "device", input.Body.Path, "error", err)
			if errors.Is(err, supercam.ErrNotFound) {
				return nil, huma.Error404NotFound("no camera connected", err)
			}
			return nil, huma.Error502BadGateway("could not start streaming", err)
		}
		return &models.MessageResponse{
			Body: models.MessageData{Status: "ok", Message: "streaming started"},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "stop-stream",
		Method:      http.MethodPost,
		Path:        "/api/stream/stop",
		Summary:     "Stop Streaming",
		Description: "Stop capturing frames; the device stays open for a quick restart",
		Tags:        []string{"stream"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*models.MessageResponse, error) {
		s.camera.Stop()
		return &models.MessageResponse{
			Body: models.MessageData{Status: "ok", Message: "streaming stopped"},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-snapshot",
		Method:      http.MethodGet,
		Path:        "/api/snapshot",
		Summary:     "Snapshot",
		Description: "Capture the next complete frame as a JPEG image, starting streaming if needed",
		Tags:        []string{"stream"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 502, 504},
	}, func(ctx context.Context, input *struct{}) (*models.SnapshotResponse, error) {
		frame, err := s.camera.Snapshot(s.options.SnapshotTimeout)
		if err != nil {
			s.logger.Error("snapshot failed", "error", err)
			switch {
			case errors.Is(err, supercam.ErrNotFound):
				return nil, huma.Error404NotFound("no camera connected", err)
			case errors.Is(err, supercam.ErrTimeout):
				return nil, huma.Error504GatewayTimeout("no frame within timeout", err)
			default:
				return nil, huma.Error502BadGateway("snapshot failed", err)
			}
		}
		return &models.SnapshotResponse{
			ContentType: "image/jpeg",
			Body:        frame,
		}, nil
	})
}
