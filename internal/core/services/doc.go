// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Two workflows live here. ReviewSubmissionService is the sequential write
// path: resolve restaurant, find or create dish, record review. It is not
// transactional; steps that completed before a failure stay committed.
// SafetyAnnotationService is the concurrent read path that classifies each
// review of a dish and never fails because of a single review.
//
// Services are pure Go with no CGO.
package services
