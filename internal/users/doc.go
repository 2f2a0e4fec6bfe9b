// Package users provides an HTTP client for a JSON users collection.
//
// # Overview
//
// The roster UI reads and mutates a remote list of user records. This package
// owns the wire side of that: URL construction, JSON encoding, status
// handling and recognising canceled requests.
//
// # Client Usage
//
//	client, err := users.NewClient("https://jsonplaceholder.typicode.com", users.Options{})
//	if err != nil {
//		return err
//	}
//	list, err := client.List(ctx)
//	if users.IsCanceled(err) {
//		return nil // torn down while loading
//	}
//
// # Endpoints
//
// All paths hang off BasePath, appended to any path prefix of the base URL:
//
//	GET    /users        List
//	POST   /users/       Create
//	PATCH  /users/{id}   Update (full record body)
//	DELETE /users/{id}   Delete
//
// # Errors
//
// Responses with a status >= 400 become *StatusError whose message matches
// what the UI shows verbatim ("Request failed with status code 404").
// A request aborted through its context yields an error matching ErrCanceled;
// a client timeout does not.
//
// Every request carries a fresh X-Request-ID which is also attached to the
// zap log entry for that request.
package users
