// Package models holds the request and response shapes for the HTTP API.
package models

// HealthData reports service liveness.
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

// HealthResponse wraps HealthData for Huma.
type HealthResponse struct {
	Body HealthData
}

// DeviceData describes one enumerated camera.
type DeviceData struct {
	Path        string `json:"path" example:"/dev/bus/usb/001/004" doc:"USB device node path"`
	VendorID    uint16 `json:"vendor_id" example:"11491" doc:"USB vendor identifier"`
	ProductID   uint16 `json:"product_id" example:"14376" doc:"USB product identifier"`
	Description string `json:"description" example:"Useeplus SuperCamera" doc:"Human-readable description"`
	Qualified   bool   `json:"qualified" example:"true" doc:"Whether the device exposes the streaming interface"`
}

// DevicesResponse lists connected cameras.
type DevicesResponse struct {
	Body struct {
		Devices []DeviceData `json:"devices" doc:"Connected cameras, qualified first"`
		Count   int          `json:"count" example:"1" doc:"Number of devices"`
	}
}

// StreamStartBody selects the device to stream from.
type StreamStartBody struct {
	Path string `json:"path,omitempty" example:"/dev/bus/usb/001/004" doc:"Device path; empty selects the first qualified camera"`
}

// StreamStartRequest wraps StreamStartBody for Huma.
type StreamStartRequest struct {
	Body StreamStartBody
}

// StatusData is the capture session state.
type StatusData struct {
	Open      bool   `json:"open" example:"true" doc:"Whether a device is open"`
	Streaming bool   `json:"streaming" example:"true" doc:"Whether frames are being captured"`
	Path      string `json:"path,omitempty" example:"/dev/bus/usb/001/004" doc:"Active device path"`
	Captured  uint64 `json:"captured" example:"1452" doc:"Frames captured this run"`
	Dropped   uint64 `json:"dropped" example:"3" doc:"Frames dropped this run"`
	LastError string `json:"last_error,omitempty" example:"" doc:"Most recent session error"`
}

// StatusResponse wraps StatusData for Huma.
type StatusResponse struct {
	Body StatusData
}

// SnapshotResponse carries one JPEG frame.
type SnapshotResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// LogEntryData is one historical log line.
type LogEntryData struct {
	Timestamp  string         `json:"timestamp" example:"2026-08-31T10:30:00Z" doc:"Entry timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"camera" doc:"Originating module"`
	Message    string         `json:"message" example:"streaming started" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured attributes"`
}

// LogsResponse lists recent log entries.
type LogsResponse struct {
	Body struct {
		Entries []LogEntryData `json:"entries" doc:"Log entries, oldest first"`
		Count   int            `json:"count" example:"120" doc:"Number of entries"`
	}
}

// VersionData reports build metadata.
type VersionData struct {
	Version   string `json:"version" example:"1.2.0" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc1234" doc:"Git commit hash"`
	BuildDate string `json:"build_date" example:"2026-08-31T00:00:00Z" doc:"Build timestamp"`
	GoVersion string `json:"go_version" example:"go1.24.11" doc:"Go toolchain version"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"Target platform"`
}

// VersionResponse wraps VersionData for Huma.
type VersionResponse struct {
	Body VersionData
}

// MessageData is a generic operation acknowledgement.
type MessageData struct {
	Status  string `json:"status" example:"ok" doc:"Operation status"`
	Message string `json:"message" example:"streaming stopped" doc:"Detail message"`
}

// MessageResponse wraps MessageData for Huma.
type MessageResponse struct {
	Body MessageData
}
