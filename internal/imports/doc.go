// Package imports infers external package dependencies from JavaScript and
// TypeScript source text.
//
// The scan is regex-based, not a real parser: it recognizes ES
// `import ... from`, bare `import 'x'`, CommonJS `require('x')`, and dynamic
// `import('x')`, and is documented best-effort. Re-export chains, computed
// requires, and conditionals inside dead code will be missed or
// over-matched; that is acceptable for pre-seeding an install, since the
// package manager resolves the real graph anyway.
//
// Scanning never fails on malformed source, is idempotent, and has no side
// effects.
package imports
