// Package logger provee un logger Zap singleton con scoping por contexto.
//
// Init se llama una vez en main. Los middlewares HTTP inyectan con ToContext un
// logger con request_id, method, path, tenant_id y account_id; services y stores
// lo recuperan con From(ctx). Sin logger en el contexto, From cae al singleton.
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Login"))
//	log.Warn("login rejected", logger.Reason("inactive"))
package logger
