// Package library provides an HTTP client for the library backend REST API.
//
// # Overview
//
// The client is the console's only boundary to the backend. It maps typed Go
// calls onto REST requests and decodes the JSON answers; it performs no
// business logic, no retries and no caching. Inventory counts, fines and
// overdue bookkeeping are owned by the backend.
//
// # Resources
//
//   - borrows.go: /borrows lending records (create, return, list, overdue,
//     by status, search, user history, total fine)
//   - books.go: /books catalog CRUD and copy adjustments
//   - members.go: /users member CRUD and name search
//   - dashboard.go: /dashboard statistics and the /chat/query assistant
//   - types.go: payload types mirroring the backend schema
//
// # Client Usage
//
//	client, err := library.NewClient("http://localhost:8082",
//		library.WithTimeout(10*time.Second))
//	if err != nil {
//		return err
//	}
//	records, err := client.ListBorrows(ctx)
//
// Construction is explicit. Tests inject an httptest server URL or their own
// *http.Client with WithHTTPClient; there is no package-level instance.
//
// # Error Handling
//
// Every failed call returns a *RequestError naming the operation. Status is
// the HTTP status when the backend answered, zero otherwise. The response
// body of a failed call is discarded unread, so "not found", "validation
// failed" and "server error" look alike to callers:
//
//	if library.IsRequestError(err) {
//		// operation did not complete; keep the previous view
//	}
//
// # Dates and Money
//
// Dates stay as transport strings on the payload types and are parsed on
// demand with ParseTime, which reads every shape the backend emits as local
// wall-clock time. Fine amounts decode into decimal.Decimal so the backend's
// rounding is displayed untouched.
package library
