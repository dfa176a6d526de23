package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/supercam/internal/api/models"
)

// registerDeviceRoutes registers device enumeration endpoints.
func (s *Server) registerDeviceRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-devices",
		Method:      http.MethodGet,
		Path:        "/api/devices",
		Summary:     "List Devices",
		Description: "Enumerate connected SuperCamera devices, qualified matches first",
		Tags:        []string{"devices"},
		Security:    withAuth(),
		Errors:      []int{401, 500},
	}, func(ctx context.Context, input *struct{}) (*models.DevicesResponse, error) {
		devices, err := s.camera.Devices()
		if err != nil {
			s.logger.Error("device enumeration failed", "error", err)
			return nil, huma.Error500InternalServerError("device enumeration failed", err)
		}

		resp := &models.DevicesResponse{}
		resp.Body.Devices = make([]models.DeviceData, 0, len(devices))
		for _, d := range devices {
			resp.Body.Devices = append(resp.Body.Devices, models.DeviceData{
				Path:        d.Path,
				VendorID:    d.VendorID,
				ProductID:   d.ProductID,
				Description: d.Description,
				Qualified:   d.Qualified,
			})
		}
		resp.Body.Count = len(devices)
		return resp, nil
	})
}
