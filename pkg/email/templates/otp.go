package templates

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"
)

// OTPEmailData is the content of the one-time code email.
type OTPEmailData struct {
	ProductName string
	Code        string
	ValidFor    time.Duration
}

// OTPEmail renders the one-time code email body. Values are HTML-escaped.
func OTPEmail(data OTPEmailData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		minutes := int(data.ValidFor.Round(time.Minute) / time.Minute)
		_, err := fmt.Fprintf(w,
			`<!doctype html><html><body style="font-family:sans-serif">`+
				`<p>Use this code to sign in to %s:</p>`+
				`<p style="font-size:28px;letter-spacing:6px;font-weight:bold">%s</p>`+
				`<p>It expires in %d minutes and can be used once. If you did not request it, ignore this email.</p>`+
				`</body></html>`,
			templ.EscapeString(data.ProductName),
			templ.EscapeString(data.Code),
			minutes,
		)
		return err
	})
}
