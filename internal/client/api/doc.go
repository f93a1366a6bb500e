// Package api contains the resilient authenticated API client for the
// medilink backend.
//
// # Overview
//
// The package provides:
//  1. A Client facade (see Client) wiring the pieces together: per-role
//     token lifecycle (AuthController), request construction/execution/
//     classification (Pipeline) driven by a bounded retry state machine
//     (RetryPolicy), multipart uploads with progress (UploadController),
//     two real-time channels (ChatStream, StatusSocket) and availability
//     tracking (ConnectivityMonitor).
//  2. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrInvalidURL, ErrInvalidRequest, ErrInvalidResponse,
// ErrDecoding, ErrAuthenticationFailed. Server rejections and transport
// failures carry payloads and are matched with errors.As: ServerError,
// NetworkError.
//
// Concurrency & Contexts
//
// The Client is safe for concurrent use. All operations accept
// context.Context and honor cancellation/timeouts, including backoff
// sleeps. Concurrent authenticated calls during a cold start may each log
// in independently; the last persisted token wins.
//
// See Also
//
//   - Facade:   Client
//   - Auth:     AuthController
//   - Requests: Pipeline, RequestDescriptor, RetryPolicy
//   - Uploads:  UploadController, UploadRequest
//   - Streams:  ChatStream, StatusSocket, StreamSession
//   - Network:  ConnectivityMonitor, ConnectivityState
package api
