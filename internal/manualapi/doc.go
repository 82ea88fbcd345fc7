// Package manualapi provides an HTTP client for the TechGuide manual lookup
// service.
//
// A lookup is a single POST of {"device": "<name>"} to the search endpoint.
// The response envelope is {"success": bool, "<field>": payload, "error": msg}
// where the payload field depends on the deployment:
//
//   - html / markdown: an inline manual body (Content)
//   - steps: a structured step list (Steps)
//   - manual_id: an identifier to probe and load (Redirect)
//
// # Usage Example
//
//	client := manualapi.NewClient("http://192.168.1.20:5000")
//	client.Field = manualapi.FieldManualID
//	client.SearchPath = manualapi.GenerationSearchPath
//
//	result, err := client.Search(ctx, "Samsung TV")
//	if err != nil {
//	    fmt.Println(manualapi.UserMessage(err))
//	    return
//	}
//	if r, ok := result.(manualapi.Redirect); ok {
//	    if err := client.Probe(ctx, r.ManualID); err != nil {
//	        return err
//	    }
//	    content, err := client.LoadManual(ctx, r.ManualID)
//	    ...
//	}
//
// # Error Handling
//
// Every failure is an *Error with an ErrorKind: validation, transport,
// malformed response, application, verification or export. Transport errors
// are further classified (timeout, connection refused, DNS, unreachable).
// UserMessage maps any error to the single line shown to the user.
//
// The client never retries a lookup: one submission issues one request.
package manualapi
