// Package mfa exposes pkg/mfa over a JSON HTTP API built on chi.
//
// Routes:
//
//	POST /register          {email, password}                 201 {user_id}
//	POST /login             {email, password}                 200 session or temp token
//	POST /mfa/enable        Bearer session                    200 {secret, provisioning_uri, qr_code}
//	POST /mfa/confirm       Bearer session, {code}            200 {confirmed}
//	POST /mfa/totp/verify   {temp_token, code}                200 session
//	POST /mfa/email/send    {email}                           202 uniform ack
//	POST /mfa/email/verify  {email, code, temp_token?}        200 session
//	POST /mfa/verify        {temp_token, factor, code}        200 session
//	GET  /profile           Bearer session                    200 profile
//	GET  /health/live, GET /health/ready
package mfa
