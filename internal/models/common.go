package models

// APIResponse is the envelope every JSON endpoint returns.
type APIResponse struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data,omitempty"`
}
