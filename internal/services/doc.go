// Package services implements the business logic layer of the GameLens
// application. It provides a clean separation between HTTP handlers and data
// access, ensuring that business rules are centralized and testable.
//
// # Architecture
//
// Services follow these architectural principles:
//
//	1. Interface-driven design for testability
//	2. Context propagation for cancellation
//	3. Dependency injection for loose coupling
//	4. Domain-focused methods that encapsulate business rules
//
// # Service Layer Responsibilities
//
// The service layer is responsible for:
//
//	- Applying filter criteria before every aggregation
//	- Orchestrating the dataset repository and the analytics package
//	- Error handling and transformation
//	- Cross-cutting concerns (logging)
//
// # Available Services
//
// The package provides one core service:
//
//	- AnalyticsService: filters the dataset and runs rollups, trends,
//	  country shares, overlap rankings and digests over it
//
// # Testing
//
// Services are tested by supplying a fixture RecordSource:
//
//	source := &fixtureSource{records: fixtureRecords()}
//	service := NewAnalyticsServiceWithLogger(source, logger)
//
//	stats, err := service.GenreRollup(ctx, analytics.Criteria{})
package services
