// Package handler turns typed request handlers into http.HandlerFunc values
// for a JSON API.
//
// A handler receives a bound, typed request and returns a Response:
//
//	type loginRequest struct {
//		Email    string `json:"email"`
//		Password string `json:"password"`
//	}
//
//	func login(ctx handler.Context, req loginRequest) handler.Response {
//		res, err := svc.Login(ctx, req.Email, req.Password)
//		if err != nil {
//			return handler.Error(err)
//		}
//		return handler.JSON(res)
//	}
//
//	r.Post("/login", handler.Wrap(login, handler.WithBinders[loginRequest](binder.JSON())))
//
// Every body uses the same envelope: {"data": ...} on success and
// {"error": {"code", "message", "details"}} on failure. Binding and handler
// errors go through an ErrorHandler that classifies them into an HTTPError.
package handler
