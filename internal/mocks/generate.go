// Package mocks provides gomock implementations of the core ports for tests.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockJobsAPI(ctrl)
//	api.EXPECT().ListJobs(gomock.Any(), gomock.Any()).Return(page, nil)
package mocks

// Generate MockJobsAPI: ListJobs, FetchPage, TriggerScrape, CreateCheckoutSession, BaseURL
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=jobs_api_mock.go github.com/target/jobboard-ui/internal/core JobsAPI

// Generate MockViewStateStore: Get, Update, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=view_state_store_mock.go github.com/target/jobboard-ui/internal/core ViewStateStore
