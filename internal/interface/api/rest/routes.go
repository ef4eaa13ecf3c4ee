package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	RouteUsers          = RouteApiV1 + "/users"
	RouteUserByEmail    = RouteUsers + "/by-email/:email"
	RouteUser           = RouteUsers + "/:user_id"
	RouteUserActivate   = RouteUser + "/activate"
	RouteUserDeactivate = RouteUser + "/deactivate"

	// ops
	RouteRoot    = "/"
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
