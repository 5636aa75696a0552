package mfa

import (
	"net/http"

	"github.com/dmitrymomot/mfakit/handler"
	"github.com/dmitrymomot/mfakit/pkg/jwt"
	"github.com/dmitrymomot/mfakit/pkg/mfa"
)

func (h *Handlers) register(ctx handler.Context, req credentialsRequest) handler.Response {
	id, err := h.svc.Register(ctx, req.Email, req.Password)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(registerResponse{UserID: id}, handler.WithStatus(http.StatusCreated))
}

func (h *Handlers) login(ctx handler.Context, req credentialsRequest) handler.Response {
	res, err := h.svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(loginResponse{
		SessionToken:         res.SessionToken,
		TempToken:            res.TempToken,
		RequiresSecondFactor: res.RequiresSecondFactor,
		Factors:              res.Factors,
		ExpiresAt:            res.ExpiresAt,
	})
}

func (h *Handlers) enableMFA(ctx handler.Context, _ struct{}) handler.Response {
	enr, err := h.svc.EnableMFA(ctx, bearer(ctx))
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(enrollmentResponse{
		Secret:          enr.Secret,
		ProvisioningURI: enr.KeyURI,
		QRCode:          enr.QRCode,
	})
}

func (h *Handlers) confirmMFA(ctx handler.Context, req confirmRequest) handler.Response {
	if err := h.svc.ConfirmMFA(ctx, bearer(ctx), req.Code); err != nil {
		return handler.Error(err)
	}
	return handler.JSON(confirmResponse{Confirmed: true})
}

func (h *Handlers) verifyTOTP(ctx handler.Context, req verifyTOTPRequest) handler.Response {
	s, err := h.svc.VerifyTOTP(ctx, req.TempToken, req.Code)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(newSessionResponse(s))
}

func (h *Handlers) verifySecondFactor(ctx handler.Context, req verifyFactorRequest) handler.Response {
	s, err := h.svc.VerifySecondFactor(ctx, req.TempToken, mfa.SecondFactor{Kind: req.Factor, Code: req.Code})
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(newSessionResponse(s))
}

// sendEmailOTP answers the same way for known and unknown addresses.
func (h *Handlers) sendEmailOTP(ctx handler.Context, req sendEmailOTPRequest) handler.Response {
	if err := h.svc.SendEmailOTP(ctx, req.Email); err != nil {
		return handler.Error(err)
	}
	return handler.JSON(
		ackResponse{Message: "if the address is registered, a code has been sent"},
		handler.WithStatus(http.StatusAccepted),
	)
}

func (h *Handlers) verifyEmailOTP(ctx handler.Context, req verifyEmailOTPRequest) handler.Response {
	s, err := h.svc.VerifyEmailOTP(ctx, req.Email, req.Code, req.TempToken)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(newSessionResponse(s))
}

func (h *Handlers) profile(ctx handler.Context, _ struct{}) handler.Response {
	p, err := h.svc.GetProfile(ctx, bearer(ctx))
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(profileResponse{
		ID:           p.ID,
		Email:        p.Email,
		MFAEnabled:   p.MFAEnabled,
		TOTPEnrolled: p.TOTPEnrolled,
		CreatedAt:    p.CreatedAt,
	})
}

// bearer returns the token admitted by the session middleware.
func bearer(ctx handler.Context) string {
	token, _ := jwt.GetToken(ctx)
	return token
}
