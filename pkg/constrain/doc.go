// Package constrain implements the runtime contract of generated
// validation: the fail-fast conversion from unconstrained values to
// constrained ones, the closed ConstraintViolation sum type, and the
// deterministic rendering of a violation into a path-qualified
// ValidationExceptionField.
//
// Generated code links against the message helpers and wire types in this
// package; the dynamic Engine is the reference semantics every generated
// conversion must match. Conversion and rendering are pure over owned
// inputs, so one engine may serve any number of concurrent requests.
package constrain
