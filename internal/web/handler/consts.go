package handler

const (
	// APIPath is the prefix of the JSON api route group.
	APIPath = "/api"

	// CheckAlivePath is the liveness check path.
	CheckAlivePath = "/checkalive"

	// MetricsPath is the prometheus scrape path.
	MetricsPath = "/metrics"

	// MsgInvalidBody is returned when a request body cannot be parsed.
	MsgInvalidBody = "Invalid request body"

	// MsgInvalidPathParam is returned when a route parameter is not a valid escape sequence.
	MsgInvalidPathParam = "Invalid path parameter"
)
