// Package binder decodes HTTP request bodies into typed request structs for
// handler.Wrap.
//
//	http.HandleFunc("/login", handler.Wrap(h.login,
//		handler.WithBinders[LoginRequest](binder.JSON()),
//	))
package binder
