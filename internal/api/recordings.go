package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/vigila-io/vigilfetch/internal/transfer"
	"github.com/vigila-io/vigilfetch/internal/utils"
)

// SearchParams filters the recording catalog. Zero-valued filters are
// omitted so the server treats them as unset.
type SearchParams struct {
	CameraID  int    `json:"camera_id,omitempty"`
	Date      string `json:"date,omitempty"`       // YYYY-MM-DD
	StartTime string `json:"start_time,omitempty"` // HH:MM
	EndTime   string `json:"end_time,omitempty"`   // HH:MM
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
}

type Recording struct {
	ID              string    `json:"id"`
	CameraID        int       `json:"camera_id"`
	CameraName      string    `json:"camera_name"`
	FolderName      string    `json:"folder_name"`
	Filename        string    `json:"filename"`
	StartTime       LocalTime `json:"start_time"`
	DurationSeconds int       `json:"duration_seconds"`
	FileSizeMB      float64   `json:"file_size_mb"`
	FilePath        string    `json:"file_path"`
}

type RecordingPage struct {
	Recordings []Recording `json:"recordings"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// CameraRecordings describes one camera folder on the recorder. CameraID
// is nil for folders with no registered camera.
type CameraRecordings struct {
	FolderName     string `json:"folder_name"`
	CameraID       *int   `json:"camera_id"`
	CameraName     string `json:"camera_name"`
	RecordingCount int    `json:"recording_count"`
}

type DeleteResult struct {
	Success bool   `json:"success"`
	Deleted string `json:"deleted"`
}

type BulkDeleteResult struct {
	DeletedCount int               `json:"deleted_count"`
	Deleted      []string          `json:"deleted"`
	Errors       []BulkDeleteError `json:"errors"`
}

type BulkDeleteError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BulkDownloadBody is the download-bulk request payload. Note: delete-bulk
// takes a bare id array instead; the two endpoints are not symmetric.
type BulkDownloadBody struct {
	RecordingIDs []string `json:"recording_ids"`
}

// SplitRecordingID splits a "folder::filename" recording id into its parts.
func SplitRecordingID(id string) (string, string, error) {
	parts := strings.SplitN(id, utils.RecordingIDSeparator, 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid recording id %q: expected folder::filename", id)
	}
	return parts[0], parts[1], nil
}

func (c *Client) SearchRecordings(ctx context.Context, params SearchParams) (*RecordingPage, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 50
	}
	var page RecordingPage
	if err := c.do(ctx, http.MethodPost, "/recordings/search", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) CamerasWithRecordings(ctx context.Context) ([]CameraRecordings, error) {
	var cameras []CameraRecordings
	if err := c.do(ctx, http.MethodGet, "/recordings/cameras-with-recordings", nil, &cameras); err != nil {
		return nil, err
	}
	return cameras, nil
}

// RecordingDates lists the days a camera has footage for, newest first.
func (c *Client) RecordingDates(ctx context.Context, cameraID int) ([]string, error) {
	var dates []string
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/recordings/dates/%d", cameraID), nil, &dates); err != nil {
		return nil, err
	}
	return dates, nil
}

func (c *Client) DeleteRecording(ctx context.Context, recordingID string) (*DeleteResult, error) {
	if _, _, err := SplitRecordingID(recordingID); err != nil {
		return nil, err
	}
	var result DeleteResult
	if err := c.do(ctx, http.MethodDelete, "/recordings/"+url.PathEscape(recordingID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteRecordings(ctx context.Context, recordingIDs []string) (*BulkDeleteResult, error) {
	if len(recordingIDs) == 0 {
		return nil, fmt.Errorf("no recording ids given")
	}
	var result BulkDeleteResult
	if err := c.do(ctx, http.MethodPost, "/recordings/delete-bulk", recordingIDs, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DownloadRequest builds the streaming transfer for one recording. The
// artifact keeps the clip's name with a .zip extension.
func (c *Client) DownloadRequest(recordingID string) (transfer.Request, error) {
	folder, filename, err := SplitRecordingID(recordingID)
	if err != nil {
		return transfer.Request{}, err
	}
	return transfer.Request{
		URL:       c.url("/recordings/download/" + url.PathEscape(folder) + "/" + url.PathEscape(filename)),
		Method:    http.MethodGet,
		Header:    c.transferHeader(),
		Filename:  zipName(filename),
		ItemCount: 1,
	}, nil
}

// BulkDownloadRequest builds the streaming transfer for an archive of many
// recordings, named with the same timestamp scheme the dashboard uses.
func (c *Client) BulkDownloadRequest(recordingIDs []string) (transfer.Request, error) {
	if len(recordingIDs) == 0 {
		return transfer.Request{}, fmt.Errorf("no recording ids given")
	}
	for _, id := range recordingIDs {
		if _, _, err := SplitRecordingID(id); err != nil {
			return transfer.Request{}, err
		}
	}
	body, err := json.Marshal(BulkDownloadBody{RecordingIDs: recordingIDs})
	if err != nil {
		return transfer.Request{}, fmt.Errorf("error encoding request body: %v", err)
	}
	header := c.transferHeader()
	header.Set("Content-Type", "application/json")
	return transfer.Request{
		URL:       c.url("/recordings/download-bulk"),
		Method:    http.MethodPost,
		Header:    header,
		Body:      body,
		Filename:  fmt.Sprintf("recordings_%s.zip", time.Now().Format("20060102_150405")),
		ItemCount: len(recordingIDs),
	}, nil
}

func (c *Client) transferHeader() http.Header {
	header := make(http.Header)
	header.Set("Accept", "application/zip")
	if c.userID != "" {
		header.Set("X-User-Id", c.userID)
	}
	return header
}

func zipName(filename string) string {
	return strings.TrimSuffix(filename, path.Ext(filename)) + ".zip"
}
