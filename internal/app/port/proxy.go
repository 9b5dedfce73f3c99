package port

// ProxyPool rotates through proxy endpoints for outbound HTTP fetches.
type ProxyPool interface {
	// Next returns the next endpoint in rotation.
	Next() string
	Size() int
}
