package middleware

type ctxKey string

const (
	ContextUserID    ctxKey = "user_id"
	ContextEmail     ctxKey = "email"
	ContextRequestID ctxKey = "request_id"
)
