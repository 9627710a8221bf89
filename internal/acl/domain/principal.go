package domain

// Principal is an authenticated caller identity. It is a closed set of two
// shapes: an automation client authenticated by certificate and an operator
// user authenticated by password.
type Principal interface {
	// PrincipalName returns the identity recorded as creator or updater on
	// rows this principal writes.
	PrincipalName() string

	// IsAutomation reports whether the principal is a certificate-backed
	// client rather than a human operator.
	IsAutomation() bool
}

// AutomationClient is the principal of a request authenticated with a client
// certificate. ClientID refers to the client row the certificate resolved to,
// and Automation carries that row's automation flag.
type AutomationClient struct {
	ClientID   int64
	Name       string
	Automation bool
}

// PrincipalName returns the client name from the certificate.
func (a AutomationClient) PrincipalName() string { return a.Name }

// IsAutomation reports whether the client row is marked for automation.
// Certificate-backed clients without the flag can read secrets but cannot
// reach the automation mutation surface.
func (a AutomationClient) IsAutomation() bool { return a.Automation }

// OperatorUser is the principal of a request authenticated with operator
// credentials.
type OperatorUser struct {
	Username string
}

// PrincipalName returns the operator's username.
func (o OperatorUser) PrincipalName() string { return o.Username }

// IsAutomation always reports false for human operators.
func (o OperatorUser) IsAutomation() bool { return false }
