package api

import (
	"sheetsplit/app"
	"sheetsplit/internal/errors"
)

// SplitResponse is the JSON body returned by POST /api/split
type SplitResponse struct {
	TotalRows int                `json:"total_rows"`
	Chunks    []app.ChunkSummary `json:"chunks"`
	Messages  []app.Message      `json:"messages"`
	Downloads []DownloadPayload  `json:"downloads"`
}

// DownloadPayload carries one encoded workbook; Data is base64 in JSON
type DownloadPayload struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Rows        int    `json:"rows"`
	Data        []byte `json:"data"`
}

// ErrorResponse is returned for rejected or failed uploads
type ErrorResponse struct {
	Error    string        `json:"error"`
	Code     string        `json:"code,omitempty"`
	Messages []app.Message `json:"messages,omitempty"`
}

func newErrorResponse(err error) ErrorResponse {
	return ErrorResponse{Error: err.Error(), Code: errors.GetCode(err)}
}

func newSplitResponse(result *app.Result) SplitResponse {
	resp := SplitResponse{
		TotalRows: result.TotalRows,
		Chunks:    result.Chunks,
		Messages:  result.Messages,
		Downloads: make([]DownloadPayload, 0, len(result.Downloads)),
	}
	for _, dl := range result.Downloads {
		resp.Downloads = append(resp.Downloads, DownloadPayload{
			Name:        dl.Name,
			ContentType: dl.ContentType,
			Rows:        dl.Rows,
			Data:        dl.Data,
		})
	}
	return resp
}
