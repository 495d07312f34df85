// Package robot provides the HTTP transport shared by the robot platform
// clients.
//
// Every robot operation is described by a Request: a name, an HTTP method,
// a path below the server's base URL and an optional JSON body. Platform
// packages build Requests with small deterministic constructors and send
// them through a Client, which handles encoding, status checks, decoding
// and response validation.
package robot
