package ports

// Logger defines the interface for the diagnostics sink. The engine only
// reports failures and traces through it; it never formats domain logic
// around it.
//
//go:generate go run go.uber.org/mock/mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(err error)
}
