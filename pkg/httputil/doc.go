// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Response Helpers
//
//	httputil.WriteJSON(w, http.StatusOK, data)
//	httputil.WriteSuccess(w, snapshot)
//	httputil.WriteBadRequest(w, "Invalid input")
//	httputil.WriteNotFoundError(w, "project not found")
//
// # Request Parsing
//
// Bodies are decoded strictly and checked against their validate tags:
//
//	var req SortRequest
//	if !httputil.DecodeAndValidate(w, r, &req) {
//		return // Error response already written
//	}
//
// # Middleware
//
//	httputil.Chain(
//		httputil.RequestIDMiddleware,
//		httputil.LoggingMiddleware(logger),
//		httputil.RecoveryMiddleware(logger),
//		httputil.SecureHeadersMiddleware(false),
//		httputil.RateLimitMiddleware(100, time.Minute),
//		httputil.MaxBytesMiddleware(1<<20),
//	)
package httputil
