package repositories

import "context"

// CallRouter abstracts the ML call-routing collaborator. It classifies a
// transcript into the department the call should be forwarded to.
type CallRouter interface {
	Route(ctx context.Context, transcript string) (string, error)
}
