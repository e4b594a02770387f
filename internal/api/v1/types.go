package apiv1

// Pong is the ping endpoint response.
type Pong struct {
	Ping string `json:"ping"`
}
