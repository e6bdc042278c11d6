// Package services implements the driving port interfaces.
// Services contain the core business logic: parser selection and the
// import orchestration that fans items out and merges the outcomes.
//
// Services are pure Go with no external dependencies.
package services
