// Command totpkey is a helper for operating mfakit by hand.
//
//	totpkey key                                  print a new TOTP_ENCRYPTION_KEY
//	totpkey secret -account a@b.c [-issuer x]    new secret, key URI and terminal QR code
//	totpkey code -secret S [-key K] [-at RFC3339] current code; with -key, S is a stored (encrypted) secret
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrymomot/mfakit/pkg/qrcode"
	"github.com/dmitrymomot/mfakit/pkg/totp"
)

var errUsage = errors.New("usage: totpkey key | secret -account EMAIL [-issuer NAME] | code -secret SECRET [-key KEY] [-at TIME]")

func main() {
	if err := run(os.Args[1:], os.Stdout, time.Now); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer, now func() time.Time) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "key":
		key, err := totp.GenerateEncodedEncryptionKey()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, key)
		return nil
	case "secret":
		return newSecret(args[1:], out)
	case "code":
		return currentCode(args[1:], out, now)
	default:
		return errUsage
	}
}

func newSecret(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("secret", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	account := fs.String("account", "", "account name shown in the authenticator app")
	issuer := fs.String("issuer", "mfakit", "issuer shown in the authenticator app")
	noQR := fs.Bool("no-qr", false, "skip the terminal QR code")
	if err := fs.Parse(args); err != nil {
		return errors.Join(errUsage, err)
	}

	secret, err := totp.GenerateSecretKey()
	if err != nil {
		return err
	}
	uri, err := totp.Provision(totp.ProvisionParams{Secret: secret, AccountName: *account, Issuer: *issuer})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "secret: %s\nuri:    %s\n", secret, uri)
	if *noQR {
		return nil
	}
	qr, err := qrcode.Terminal(uri)
	if err != nil {
		return err
	}
	fmt.Fprint(out, qr)
	return nil
}

func currentCode(args []string, out io.Writer, now func() time.Time) error {
	fs := flag.NewFlagSet("code", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	secret := fs.String("secret", "", "base32 secret, or the stored value when -key is set")
	key := fs.String("key", "", "base64 TOTP_ENCRYPTION_KEY used to open a stored secret")
	at := fs.String("at", "", "RFC 3339 time to compute the code for (default now)")
	if err := fs.Parse(args); err != nil {
		return errors.Join(errUsage, err)
	}
	if *secret == "" {
		return errUsage
	}

	plain := *secret
	if *key != "" {
		c, err := totp.NewSecretCipherFromString(*key)
		if err != nil {
			return err
		}
		if plain, err = c.Decrypt(*secret); err != nil {
			return err
		}
	}

	t := now()
	if *at != "" {
		parsed, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			return errors.Join(errUsage, err)
		}
		t = parsed
	}

	code, err := totp.GenerateCodeAt(plain, t)
	if err != nil {
		return err
	}
	remaining := totp.DefaultPeriod - t.Unix()%totp.DefaultPeriod
	fmt.Fprintf(out, "%s (valid for %ds)\n", code, remaining)
	return nil
}
