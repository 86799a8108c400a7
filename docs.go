// Package sdk is a shared library for our Golang services.
//
// Development Status: geep-go-sdk is designed for internal use. Since it
// uses Semantic Versioning (https://semver.org/) it is safe to use, but expect
// big changes between major version updates.
//
// The SDK bundles the plumbing every service in the cluster needs, so the
// services themselves only carry their domain logic:
//
//   - pkg/settings loads the environment configuration every other package
//     reads from.
//   - pkg/logutil bootstraps the process-wide logging and tracing stack and
//     carries request-scoped loggers through contexts.
//   - pkg/instutil holds the OpenTelemetry tracer and Prometheus metrics
//     wiring behind logutil.
//   - pkg/pgutil provides the Postgres connection pool with IAM
//     authentication and a generic repository for entity types.
//   - pkg/apiutil is the HTTP gateway for service-to-service calls,
//     including response validation against typed schemas.
//   - pkg/dialogueutil is the typed client for the dialogue service, built
//     on apiutil.
//   - pkg/llmutil holds the structured-output schemas shared between the
//     LLM service and its consumers.
//   - pkg/authutil extracts user claims from gateway-verified JWTs.
//   - pkg/textutil repairs and sanitises text from external sources.
//   - pkg/cmdutil reduces the boilerplate of service entry points.
//   - pkg/testutil contains golden-file helpers for tests.
package sdk
