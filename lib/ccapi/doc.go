// Package ccapi is a client for the Cloud Commerce Pro back office.
//
// The back office has no public API, the client logs in through the same
// login form a browser uses and then calls the .ashx handlers behind the
// back office's pages. Every operation has the same structure:
//  1. make assertions on input validity.
//  2. transform input into form values (method, query, body).
//  3. make request, logging in again once if the session has expired.
//  4. make assertions on the reply (status, "Success" acknowledgements).
//  5. transform the JSON, html fragment or "^^" record into an output
//     structure.
//
// The subpackages group the handlers by the back office page they belong
// to, core holds the session and the shared reply parsing.
package ccapi
