package email

// Driver selects how one-time codes leave the process.
type Driver string

const (
	DriverPostmark Driver = "postmark" // Postmark transactional API
	DriverFile     Driver = "file"     // HTML + JSON files in DevDir
	DriverLog      Driver = "log"      // code written to the logger
)

// Config holds email delivery configuration. Postmark tokens are only
// required by the postmark driver.
type Config struct {
	Driver               Driver `env:"EMAIL_DRIVER" envDefault:"log"`
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"no-reply@mfakit.local"`
	SupportEmail         string `env:"SUPPORT_EMAIL" envDefault:"support@mfakit.local"`
	DevDir               string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
	ProductName          string `env:"EMAIL_PRODUCT_NAME" envDefault:"mfakit"`
	Subject              string `env:"EMAIL_OTP_SUBJECT" envDefault:"Your sign-in code"`
}
