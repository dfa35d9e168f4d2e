// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. Candidate scoring runs on an
// ants worker pool; everything else depends only on the ports.
package services
