package dto

// ErrorResponse carries a machine-readable reason code alongside the human
// message so clients never have to compare message text.
type ErrorResponse struct {
	Code    string   `json:"code,omitempty"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
