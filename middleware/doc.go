// Package middleware adapts otpAuth assertions to net/http.
//
// [RequireAssertion] reads "Authorization: Bearer <assertion>", calls
// Engine.VerifyAssertion and stores the verified claims in the request
// context, where [ClaimsFromContext] finds them.
//
// # What this package must NOT do
//
//   - Parse or sign tokens directly (delegates to Engine).
//   - Touch the identity registry.
package middleware
