package entrez

import "fmt"

// StatusError is returned when E-utilities answers with a non-200 status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: HTTP error %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: HTTP error %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// ServiceError is an <ERROR> element reported inside a 200 response.
type ServiceError struct {
	Endpoint string
	Message  string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Endpoint, e.Message)
}
