package classifier

// DefaultPhrases is the builtin fraud-indicator list: payment and credential
// terms, authority-impersonation phrases, and remote-access tool names.
// Non-English phrases are matched as opaque substrings, not tokenized.
var DefaultPhrases = []string{
	// Payment / credential capture
	"otp",
	"one time password",
	"cvv",
	"card number",
	"debit card",
	"credit card",
	"pin number",
	"atm pin",
	"upi pin",
	"net banking password",
	"bank account number",
	"ifsc",
	"gift card",
	"wire transfer",
	"bitcoin",
	"crypto wallet",

	// Authority impersonation / pressure
	"kyc",
	"account will be blocked",
	"account suspended",
	"income tax department",
	"customs office",
	"police case",
	"arrest warrant",
	"legal action",
	"refund department",
	"lottery winner",
	"electricity bill disconnect",

	// Remote-access tools
	"anydesk",
	"teamviewer",
	"quick support",
	"screen share",
	"remote access",

	// Hindi transliterations commonly heard on scam calls
	"khata band ho jayega",
	"paise bhejo",
	"turant payment",
}
