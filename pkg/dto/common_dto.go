package dto

// RequestMeta is the network metadata of the caller, recorded with every
// failure written to the error log.
type RequestMeta struct {
	UserAgent string
	IPAddress string
	RequestID string
}

// MessageResponse is the envelope of every acknowledgement and error body.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
