// Package client talks to the remote identity service.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) for the three
//     remote operations the session core needs: Authenticate,
//     RegisterPrivilegedUser and ListUsers.
//  2. An HTTP/JSON implementation (see HTTPClient) that attaches the stored
//     bearer token, tags requests with an X-Request-ID, traces them through an
//     otelhttp transport and normalizes the service's response shapes.
//  3. TokenExpiry, a best-effort reader of the exp claim of JWT tokens.
//
// # Error Handling
//
// A request the service answered with a non-2xx status yields a *ServiceError
// whose Kind is ErrAuthentication, ErrRegistration or ErrDirectoryFetch and
// whose Error() is the service's message verbatim. A request that never got a
// usable answer (network failure, unreadable or malformed body) yields a
// *TransportError matching ErrTransport. Callers tell the two apart with
// errors.Is.
//
// # Side effects
//
// A successful Authenticate persists the token and the normalized user via
// the CredentialStore before returning. No other operation writes to it.
package client
