package models

import "strings"

// ConversionRequest is what a caller hands to the pipeline, regardless of
// whether it arrived as query parameters or a JSON body.
type ConversionRequest struct {
	SourceURL         string
	RequestedFileName string
}

// VideoRef identifies the source video. Synthetic is set when the URL looked
// like YouTube but carried no identifier and a time-based one was substituted.
type VideoRef struct {
	ID        string
	Synthetic bool
}

// AudioArtifact holds downloaded audio for the lifetime of one request.
type AudioArtifact struct {
	Data        []byte
	SizeBytes   int
	Provider    string
	ContentType string
}

// StoredObject is a record in the content store at Path on Branch.
type StoredObject struct {
	Path           string
	Branch         string
	RevisionMarker string
}

// IsUpdate reports whether a write of this object replaces an existing one.
func (o StoredObject) IsUpdate() bool {
	return o.RevisionMarker != ""
}

type ConversionResult struct {
	PublicURL string
	Title     string
	FileName  string
}

// ObjectPath returns the deterministic store path for a file name.
func ObjectPath(fileName string) string {
	return "mp3/" + strings.TrimPrefix(fileName, "/")
}

type ConvertRequestBody struct {
	YoutubeURL  string `json:"youtubeUrl" form:"youtubeUrl"`
	YoutubeLink string `json:"youtubelink,omitempty" form:"youtubelink"`
	FileName    string `json:"fileName,omitempty" form:"fileName"`
}

// ConvertSuccessResponse carries the same values under several keys: the
// in-game client reads error/file/title, the browser UI reads
// success/downloadUrl/fileName.
type ConvertSuccessResponse struct {
	Error       int    `json:"error"`
	File        string `json:"file"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	StreamLink  string `json:"streamLink"`
	Name        string `json:"name"`
	VideoTitle  string `json:"videoTitle"`
	Success     bool   `json:"success"`
	DownloadURL string `json:"downloadUrl"`
	FileName    string `json:"fileName"`
}

type ConvertErrorResponse struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}

func NewConvertSuccessResponse(result *ConversionResult) ConvertSuccessResponse {
	return ConvertSuccessResponse{
		Error:       0,
		File:        result.PublicURL,
		Title:       result.Title,
		URL:         result.PublicURL,
		StreamLink:  result.PublicURL,
		Name:        result.Title,
		VideoTitle:  result.Title,
		Success:     true,
		DownloadURL: result.PublicURL,
		FileName:    result.FileName,
	}
}

func NewConvertErrorResponse(message string) ConvertErrorResponse {
	return ConvertErrorResponse{Error: 1, Message: message}
}
