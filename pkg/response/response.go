package response

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`           // "success" or "error"
	StatusCode int         `json:"status_code"`      // HTTP status code
	RunID      string      `json:"run_id,omitempty"` // Report run that produced Data
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     StatusSuccess,
		StatusCode: statusCode,
		Data:       data,
	}
}

// SuccessForRun tags the data with the report run it was computed in
func SuccessForRun(statusCode int, runID string, data interface{}) Response {
	resp := Success(statusCode, data)
	resp.RunID = runID
	return resp
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     StatusError,
		StatusCode: statusCode,
		Error:      err,
	}
}
