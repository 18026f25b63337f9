package llm

import "context"

// Request is what the engine hands to the text-generation collaborator. The
// system context is the full grounding prompt; the engine never alters the
// prose that comes back.
type Request struct {
	SystemContext string
	UserQuery     string
	Role          string
}

// Response carries the generated prose.
type Response struct {
	Text string
}

// Responder generates an answer from a grounding context and a user query.
type Responder interface {
	Respond(ctx context.Context, req Request) (Response, error)
}
