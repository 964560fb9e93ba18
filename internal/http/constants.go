package http

const (
	KEY_HEADER_CONTENT_TYPE       = "Content-Type"
	KEY_HEADER_AUTHORIZATION      = "Authorization"
	KEY_HEADER_REQUEST_ID         = "X-Request-ID"
	KEY_HEADER_CLIENT_TOKEN       = "X-Client-Token"
	VALUE_HEADER_APPLICATION_JSON = "application/json"
)
