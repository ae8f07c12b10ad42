package errors

// ErrorCode identifies an error class in API responses and logs
type ErrorCode int32

const (
	ErrorCode_HTTP_OK          ErrorCode = 200
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_CONFLICT         ErrorCode = 1003
	ErrorCode_UNAUTHENTICATED  ErrorCode = 1004
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1005

	ErrorCode_AUTH_INVALID_TOKEN ErrorCode = 2001
	ErrorCode_AUTH_TOKEN_EXPIRED ErrorCode = 2002

	// Evaluation taxonomy
	ErrorCode_INPUT_INVALID         ErrorCode = 3001
	ErrorCode_PROVIDER_FAILED       ErrorCode = 3002
	ErrorCode_SCHEMA_INVALID        ErrorCode = 3003
	ErrorCode_PERSISTENCE_FAILED    ErrorCode = 3004
	ErrorCode_CONFIGURATION_MISSING ErrorCode = 3005

	// Review session
	ErrorCode_SESSION_NOT_FOUND  ErrorCode = 4001
	ErrorCode_BATCH_IN_PROGRESS  ErrorCode = 4002
	ErrorCode_SELECTION_EMPTY    ErrorCode = 4003
	ErrorCode_DB_QUERY_FAILED    ErrorCode = 5001
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:               "HTTP_OK",
	ErrorCode_INTERNAL:              "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:      "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:             "NOT_FOUND",
	ErrorCode_CONFLICT:              "CONFLICT",
	ErrorCode_UNAUTHENTICATED:       "UNAUTHENTICATED",
	ErrorCode_INVALID_PAYLOAD:       "INVALID_PAYLOAD",
	ErrorCode_AUTH_INVALID_TOKEN:    "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:    "AUTH_TOKEN_EXPIRED",
	ErrorCode_INPUT_INVALID:         "INPUT_INVALID",
	ErrorCode_PROVIDER_FAILED:       "PROVIDER_FAILED",
	ErrorCode_SCHEMA_INVALID:        "SCHEMA_INVALID",
	ErrorCode_PERSISTENCE_FAILED:    "PERSISTENCE_FAILED",
	ErrorCode_CONFIGURATION_MISSING: "CONFIGURATION_MISSING",
	ErrorCode_SESSION_NOT_FOUND:     "SESSION_NOT_FOUND",
	ErrorCode_BATCH_IN_PROGRESS:     "BATCH_IN_PROGRESS",
	ErrorCode_SELECTION_EMPTY:       "SELECTION_EMPTY",
	ErrorCode_DB_QUERY_FAILED:       "DB_QUERY_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
