// Package apiutil is the HTTP request gateway shared by the typed service
// clients. It issues GET and POST calls, collapses every failure class
// (transport, status, JSON parsing) into a single RequestError and
// validates generic payloads against typed schemas.
//
//	data, err := apiutil.Request(ctx, url, apiutil.MethodPost, &apiutil.RequestOptions{
//		Body: map[string]any{"task_id": taskID},
//	})
//	if err != nil {
//		return err
//	}
//	resp, err := apiutil.Validate[DialogueResponse](ctx, data)
//
// The gateway never retries; callers that need retries implement them on
// top. Calls suspend only at the network boundary and the per-call client
// is closed on every exit path.
package apiutil
