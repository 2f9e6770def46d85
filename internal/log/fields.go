package log

// Common field names for structured logging
const (
	FieldComponent      = "component"
	FieldRequestID      = "request_id"
	FieldClientIP       = "client_ip"
	FieldMethod         = "method"
	FieldPath           = "path"
	FieldQuery          = "query"
	FieldStatusCode     = "status_code"
	FieldDuration       = "duration_ms"
	FieldUserAgent      = "user_agent"
	FieldSuccess        = "success"
	FieldError          = "error"
	FieldOperation      = "operation"
	FieldLocation       = "location"
	FieldBackend        = "backend"
	FieldCreditIndex    = "credit_index"
	FieldStatementIndex = "statement_index"
	FieldPaymentIndex   = "payment_index"
	FieldCreditName     = "credit_name"
	FieldAmountCents    = "amount_cents"
	FieldClosingDate    = "closing_date"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentLedger    = "ledger"
	ComponentRecords   = "records"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentRollover  = "rollover"
	ComponentSecurity  = "security"
	ComponentRateLimit = "rate_limit"
	ComponentTrace     = "trace"
	ComponentBackend   = "backend"
)

// Operations defines standard operation names
const (
	OpRead            = "read"
	OpUpdateStatement = "update_statement"
	OpReplacePayments = "replace_payments"
	OpUpdatePayment   = "update_payment"
	OpAddPayment      = "add_payment"
	OpNextStatements  = "next_statements"
	OpSave            = "save"
	OpMirror          = "mirror"
	OpShutdown        = "shutdown"
	OpStartup         = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithRequestID(requestID string) LogFields {
	if requestID != "" {
		f[FieldRequestID] = requestID
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithIndices adds the credit/statement/payment position a request
// addressed. Negative values are left out.
func (f LogFields) WithIndices(credit, statement, payment int) LogFields {
	if credit >= 0 {
		f[FieldCreditIndex] = credit
	}
	if statement >= 0 {
		f[FieldStatementIndex] = statement
	}
	if payment >= 0 {
		f[FieldPaymentIndex] = payment
	}
	return f
}

func (f LogFields) WithHTTPRequest(method, path, query, userAgent string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	if query != "" {
		f[FieldQuery] = query
	}
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	return f
}

func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = statusCode < 400
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
