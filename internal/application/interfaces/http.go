package interfaces

import "net/http"

// HTTPHandler is implemented by the transport layer.
type HTTPHandler interface {
	http.Handler
}
