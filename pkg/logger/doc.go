// Package logger builds log/slog loggers for the service.
//
// New assembles a JSON or text handler, attaches static attributes (service,
// env) and wraps it with LogHandlerDecorator so request-scoped values such as
// the request ID are added to every record logged with a context.
//
// The attribute helpers (UserID, Email, Purpose, Factor, Component, Error)
// keep key names consistent across packages. Email masks the address before
// it is logged.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "mfad"),
//	    logger.WithContextExtractors(requestIDExtractor),
//	)
//	log.InfoContext(ctx, "user registered", logger.UserID(id), logger.Email(email))
package logger
