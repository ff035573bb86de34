package rules

// Thresholds referenced by table predicates.
const (
	// bulkRecordThreshold is the record count at which a debug endpoint
	// counts as bulk data exposure.
	bulkRecordThreshold = 50

	// multipleIDThreshold is the record count at which a debug endpoint
	// counts as exposing multiple identifiers.
	multipleIDThreshold = 10

	// gapRuleMinWords gates the quality-gap rules: prompts shorter than
	// this are not flagged for omitting tests, error handling, or logging.
	gapRuleMinWords = 20
)

// Shared context predicates.
var (
	logMention = anyOf(
		pattern(`\blog(?:s|ging|ged)?\b`),
		phrase("log file"),
		phrase("audit trail"),
	)

	debugEndpoint = anyOf(
		phrase("/debug"),
		pattern(`\bdebug\w*\s+(?:endpoint|route|page|url|path|view|api)\b`),
		phrase("debug mode"),
	)

	noAuthPhrase = anyOf(
		phrase("no auth"),
		phrase("without auth"),
		phrase("skip auth"),
		phrase("skips auth"),
		phrase("bypass auth"),
		phrase("bypasses auth"),
		phrase("doesn't need auth"),
		phrase("does not need auth"),
		phrase("no login"),
		phrase("without login"),
		phrase("unauthenticated"),
		phrase("anyone can"),
	)
)

// DefaultTable returns the built-in rule table. Order matters: rules are
// evaluated top to bottom, and within a group the first match wins, so each
// group lists its most specific or most severe rule first.
func DefaultTable() Table {
	return Table{
		// Sensitive data in logs. These two are independent so a prompt
		// that logs both passwords and emails reports both.
		{
			Code:     "SEC_LOGS_PASSWORDS",
			Category: Security,
			Severity: Blocker,
			Match: allOf(logMention, anyOf(
				phrase("password"),
				phrase("credential"),
				phrase("secret"),
			)),
			Unless: anyOf(
				phrase("never log"),
				phrase("don't log"),
				phrase("do not log"),
				phrase("mask"),
				phrase("redact"),
				phrase("scrub"),
			),
			Message:    "The prompt asks for passwords, credentials, or secrets to be written to logs.",
			Suggestion: "Never write credentials to logs. Mask or drop sensitive fields before they reach any log sink.",
		},
		{
			Code:     "SEC_LOGS_PII_EMAIL",
			Category: Security,
			Severity: Error,
			Match: allOf(logMention, anyOf(
				phrase("email"),
				phrase("e-mail"),
			)),
			Unless: anyOf(
				phrase("mask"),
				phrase("redact"),
				phrase("hash the email"),
				phrase("never log"),
			),
			Message:    "The prompt asks for email addresses to be written to logs, which is PII.",
			Suggestion: "Log an opaque user identifier instead of the email address, or redact the local part.",
		},

		// Debug endpoints exposing configuration. Most specific first: a
		// full config dump outranks generic secret exposure.
		{
			Code:     "SEC_DEBUG_DUMPS_CONFIG",
			Category: Security,
			Severity: Blocker,
			Group:    "debug-config-exposure",
			Match: allOf(debugEndpoint, anyOf(
				phrase("dump"),
				phrase("expose"),
				phrase("print"),
				phrase("return"),
				phrase("show"),
				phrase("leak"),
			), phrase("config")),
			Message:    "A debug endpoint dumps application configuration, which typically includes secrets.",
			Suggestion: "Remove the config dump. If runtime inspection is needed, expose an allowlisted, secret-free subset behind authentication.",
		},
		{
			Code:     "SEC_DEBUG_EXPOSES_SECRETS",
			Category: Security,
			Severity: Blocker,
			Group:    "debug-config-exposure",
			Match: allOf(debugEndpoint, anyOf(
				phrase("environment variable"),
				phrase("env var"),
				phrase("secret"),
				phrase("credential"),
				phrase("api key"),
				phrase("private key"),
			)),
			Message:    "A debug endpoint exposes environment variables or secrets.",
			Suggestion: "Never expose environment state through HTTP. Keep secrets in the secret manager and off every response path.",
		},

		// Debug endpoints exposing data, tiered by blast radius.
		{
			Code:     "SEC_DEBUG_PAYOUT_DUMP",
			Category: Security,
			Severity: Blocker,
			Group:    "debug-data-exposure",
			Match: allOf(debugEndpoint, anyOf(
				phrase("payout"),
				phrase("payment"),
				phrase("balance"),
				phrase("transaction"),
				phrase("financial"),
			)),
			Message:    "A debug endpoint exposes financial data such as payouts, balances, or transactions.",
			Suggestion: "Remove financial data from debug surfaces entirely and audit every access to it.",
		},
		{
			Code:     "SEC_DEBUG_EXPOSES_BULK_DATA",
			Category: Security,
			Severity: Blocker,
			Group:    "debug-data-exposure",
			Match: allOf(debugEndpoint, anyOf(
				recordCountAtLeast(bulkRecordThreshold),
				phrase("all users"),
				phrase("all records"),
				phrase("every user"),
				phrase("entire table"),
				phrase("all rows"),
				phrase("full database"),
			)),
			Message:    "A debug endpoint returns bulk records, which amounts to a data-exfiltration path.",
			Suggestion: "Cap debug output to single, explicitly requested records behind authentication, or drop the endpoint.",
		},
		{
			Code:     "SEC_DEBUG_EXPOSES_PII",
			Category: Security,
			Severity: Error,
			Group:    "debug-data-exposure",
			Match: allOf(debugEndpoint, anyOf(
				phrase("email"),
				phrase("phone number"),
				phrase("home address"),
				phrase("ssn"),
				phrase("social security"),
				phrase("date of birth"),
				phrase("personal data"),
				phrase("pii"),
			)),
			Message:    "A debug endpoint returns personally identifiable information.",
			Suggestion: "Strip PII from debug output; return opaque identifiers only.",
		},
		{
			Code:       "SEC_DEBUG_EXPOSES_MULTIPLE_IDS",
			Category:   Security,
			Severity:   Error,
			Group:      "debug-data-exposure",
			Match:      allOf(debugEndpoint, recordCountAtLeast(multipleIDThreshold)),
			Message:    "A debug endpoint enumerates multiple user or record identifiers.",
			Suggestion: "Limit debug lookups to one identifier at a time and require authentication.",
		},

		// Weak password hashing, worst first.
		{
			Code:     "SEC_WEAK_HASH_MD5",
			Category: Security,
			Severity: Blocker,
			Group:    "weak-password-hash",
			Match: allOf(phrase("md5"), anyOf(
				phrase("password"),
				phrase("hash"),
			)),
			Message:    "MD5 is cryptographically broken and must not be used for passwords or integrity.",
			Suggestion: "Use bcrypt, scrypt, or argon2 for passwords; SHA-256 or better for integrity checks.",
		},
		{
			Code:     "SEC_WEAK_PASSWORD_HASH_SHA256",
			Category: Security,
			Severity: Error,
			Group:    "weak-password-hash",
			Match: allOf(
				anyOf(phrase("sha-256"), phrase("sha256"), phrase("sha 256")),
				phrase("password"),
				anyOf(phrase("hash"), phrase("hashing"), phrase("hashed"), phrase("digest")),
			),
			Unless: anyOf(
				phrase("bcrypt"),
				phrase("scrypt"),
				phrase("argon2"),
				phrase("pbkdf2"),
			),
			Message:    "SHA-256 is a fast hash; even salted it is unsuitable for passwords because it invites offline brute force.",
			Suggestion: "Hash passwords with a deliberately slow KDF: bcrypt, scrypt, or argon2id.",
		},

		// Transport security.
		{
			Code:     "SEC_HTTP_FOR_AUTH",
			Category: Security,
			Severity: Blocker,
			Match: allOf(pattern(`\bhttp\b`), anyOf(
				phrase("login"),
				pattern(`\bauth(?:entication|orization|n|z)?\b`),
				phrase("credential"),
				phrase("password"),
				phrase("token"),
				phrase("sign in"),
				phrase("session"),
			)),
			Unless: anyOf(
				phrase("https"),
				phrase("tls"),
				phrase("ssl"),
			),
			Message:    "Authentication traffic is specified over plain HTTP, exposing credentials on the wire.",
			Suggestion: "Serve all authentication flows exclusively over HTTPS/TLS, including internal hops.",
		},

		// Credential storage.
		{
			Code:     "SEC_PLAINTEXT_PASSWORDS",
			Category: Security,
			Severity: Blocker,
			Match: allOf(anyOf(
				phrase("plain text"),
				phrase("plaintext"),
				phrase("clear text"),
				phrase("cleartext"),
				phrase("unencrypted"),
			), anyOf(
				phrase("password"),
				phrase("credential"),
			)),
			Unless: anyOf(
				phrase("never store"),
				phrase("never be stored"),
				phrase("not store"),
				phrase("not be stored"),
				phrase("don't store"),
				phrase("no plaintext"),
			),
			Message:    "Passwords are to be stored in plain text, making every account recoverable by anyone with database access.",
			Suggestion: "Store only slow-KDF hashes (bcrypt/scrypt/argon2) and use a reset flow instead of recovering passwords.",
		},

		// Secret handling, hardcoding outranks config-file placement.
		{
			Code:     "SEC_HARDCODED_SECRET",
			Category: Security,
			Severity: Blocker,
			Group:    "secret-handling",
			Match: anyOf(
				allOf(anyOf(
					phrase("hardcode"),
					phrase("hard-code"),
					phrase("hard code"),
					phrase("hardcoded"),
					phrase("hard-coded"),
				), anyOf(
					phrase("secret"),
					phrase("api key"),
					phrase("apikey"),
					phrase("token"),
					phrase("password"),
					phrase("credential"),
					phrase("connection string"),
				)),
				phrase("embed the api key"),
				phrase("embed the secret"),
				phrase("api key directly in the"),
			),
			Message:    "Secrets are to be hardcoded into source, where they leak through version control and builds.",
			Suggestion: "Inject secrets at runtime from environment variables or a secret manager; never commit them.",
		},
		{
			Code:     "SEC_SECRETS_IN_CONFIG_FILE",
			Category: Security,
			Severity: Error,
			Group:    "secret-handling",
			Match: allOf(anyOf(
				phrase("secret"),
				phrase("api key"),
				phrase("credential"),
				phrase("password"),
			), anyOf(
				phrase("config file"),
				phrase("settings file"),
				phrase("config.json"),
				phrase("settings.json"),
				phrase("in the config"),
			)),
			Unless: anyOf(
				phrase("vault"),
				phrase("encrypted"),
				phrase("environment variable"),
				phrase("env var"),
			),
			Message:    "Secrets are to be kept in a config file, which tends to get committed and copied.",
			Suggestion: "Keep config files secret-free; reference secrets from the environment or a secret manager.",
		},

		// Access control.
		{
			Code:     "SEC_ADMIN_BACKDOOR",
			Category: Security,
			Severity: Blocker,
			Match: anyOf(
				phrase("backdoor"),
				phrase("back door"),
				phrase("master password"),
				allOf(phrase("admin"), anyOf(
					phrase("bypass auth"),
					phrase("bypasses auth"),
					phrase("skip auth"),
					phrase("skips auth"),
					phrase("without auth"),
				)),
			),
			Message:    "The prompt asks for an admin backdoor or authentication bypass.",
			Suggestion: "Remove the bypass. Use ordinary authenticated admin accounts, including in test environments.",
		},
		{
			Code:     "SEC_UNAUTH_DELETE",
			Category: Security,
			Severity: Blocker,
			Group:    "missing-auth",
			Match: allOf(anyOf(
				phrase("delete"),
				phrase("drop"),
				phrase("wipe"),
				phrase("truncate"),
				phrase("remove all"),
			), noAuthPhrase),
			Message:    "A destructive operation is reachable without authentication.",
			Suggestion: "Require authentication and an explicit authorization check before any destructive operation.",
		},
		{
			Code:     "SEC_NO_AUTH_INTERNAL",
			Category: Security,
			Severity: Error,
			Group:    "missing-auth",
			Match: allOf(anyOf(
				phrase("internal endpoint"),
				phrase("internal api"),
				phrase("internal service"),
				phrase("internal tool"),
				phrase("admin endpoint"),
				phrase("admin panel"),
				phrase("admin route"),
			), noAuthPhrase),
			Message:    "An internal or admin surface is specified without authentication; internal networks are not a trust boundary.",
			Suggestion: "Authenticate internal and admin endpoints the same way as public ones.",
		},
		{
			Code:     "SEC_GET_FOR_AUTH",
			Category: Security,
			Severity: Error,
			Match: anyOf(
				allOf(anyOf(
					phrase("get request"),
					phrase("get endpoint"),
					phrase("http get"),
					phrase("via get"),
					pattern(`\bget /`),
				), anyOf(
					phrase("login"),
					phrase("sign in"),
					phrase("password"),
					phrase("credential"),
				)),
				phrase("password in the url"),
				phrase("credentials in the url"),
				phrase("password in the query"),
				phrase("credentials in the query"),
			),
			Message:    "Credentials are to be sent via GET, so they end up in URLs, proxies, and access logs.",
			Suggestion: "Send credentials in the body of a POST over HTTPS only.",
		},
		{
			Code:     "SEC_AUTH_DEFERRED",
			Category: Security,
			Severity: Warning,
			Match: anyOf(
				pattern(`\b(?:auth|authentication|authorization|login|security)\b[^.!?]{0,40}\b(?:later|afterwards|eventually|at the end|in a follow-?up)\b`),
				phrase("skip auth for now"),
				phrase("no auth for now"),
				phrase("leave auth out"),
				phrase("worry about security later"),
			),
			Message:    "Authentication is deferred to later, which usually means endpoints ship unprotected.",
			Suggestion: "Wire authentication scaffolding in from the first endpoint, even if providers come later.",
		},
		{
			Code:     "SEC_TRUSTS_GATEWAY_HEADER",
			Category: Security,
			Severity: Error,
			Match: anyOf(
				phrase("x-user-id"),
				phrase("x-forwarded-user"),
				allOf(phrase("header"), anyOf(
					phrase("gateway"),
					phrase("proxy"),
					phrase("load balancer"),
				), anyOf(
					phrase("trust"),
					phrase("user id"),
					phrase("identity"),
					phrase("auth"),
				)),
			),
			Unless: anyOf(
				phrase("verify"),
				phrase("verified"),
				phrase("signed"),
				phrase("signature"),
				phrase("mtls"),
				phrase("mutual tls"),
			),
			Message:    "User identity is taken from a gateway-injected header without verification; anyone who can reach the service can impersonate anyone.",
			Suggestion: "Verify a signed token end to end, or enforce mTLS between gateway and service before trusting identity headers.",
		},
		{
			Code:     "SEC_MISSING_INPUT_VALIDATION",
			Category: Security,
			Severity: Warning,
			Match: anyOf(
				phrase("no input validation"),
				phrase("without input validation"),
				phrase("skip input validation"),
				phrase("skip validation"),
				phrase("don't validate"),
				phrase("do not validate"),
				phrase("accept any input"),
				phrase("without validating"),
			),
			Message:    "The prompt explicitly waives input validation.",
			Suggestion: "Validate type, length, and range at every trust boundary; reject rather than sanitize where possible.",
		},

		// Storage architecture. Contradiction outranks plain vagueness, and
		// "don't use a database" must not also read as "a database".
		{
			Code:     "ARCH_CONFLICTING_STORAGE",
			Category: Arch,
			Severity: Warning,
			Group:    "storage-architecture",
			Match: allOf(anyOf(
				phrase("no database"),
				phrase("without a database"),
				phrase("don't use a database"),
				phrase("not use any database"),
			), anyOf(
				phrase("persist"),
				phrase("store"),
				phrase("save"),
				phrase("retain"),
			)),
			Message:    "The prompt rules out a database while also requiring persistence.",
			Suggestion: "Pick one: name a storage mechanism (file, embedded store, managed service) or drop the persistence requirement.",
		},
		{
			Code:     "ARCH_VAGUE_DATABASE",
			Category: Arch,
			Severity: Warning,
			Group:    "storage-architecture",
			Match: anyOf(
				phrase("a database"),
				phrase("some database"),
				phrase("database of some kind"),
				phrase("any database"),
				phrase("store stuff"),
				phrase("some kind of storage"),
			),
			Unless: anyOf(
				phrase("postgres"),
				phrase("mysql"),
				phrase("mariadb"),
				phrase("mongodb"),
				phrase("sqlite"),
				phrase("redis"),
				phrase("dynamodb"),
				phrase("cassandra"),
				phrase("cockroach"),
				phrase("sql server"),
			),
			Message:    "Storage is specified only as \"a database\", leaving schema, consistency, and operational choices open.",
			Suggestion: "Name the engine and sketch the core tables or collections, even roughly.",
		},

		// Ambiguity.
		{
			Code:     "AMBIG_VAGUE_REQUIREMENT",
			Category: Ambig,
			Severity: Warning,
			Match: distinctAtLeast(2,
				"or something",
				"somehow",
				"figure out",
				"make it nice",
				"make it pop",
				"user friendly",
				"user-friendly",
				"fast and scalable",
				"do the right thing",
				"should just work",
				"something like",
			),
			Message:    "Multiple requirements are stated in vague terms that cannot be implemented or verified as written.",
			Suggestion: "Replace each vague phrase with a concrete, testable statement of the expected behavior.",
		},
		{
			Code:     "AMBIG_UNDEFINED_SCOPE",
			Category: Ambig,
			Severity: Info,
			Match: anyOf(
				phrase("and so on"),
				phrase("and more"),
				phrase("you decide"),
				phrase("tbd"),
				phrase("to be decided"),
				phrase("to be determined"),
			),
			Message:    "Parts of the scope are left open-ended.",
			Suggestion: "Enumerate the full list now, or explicitly defer named items to a later iteration.",
		},

		// Quality gaps. Gated on prompt length so one-line prompts are not
		// penalized for brevity.
		{
			Code:     "QUAL_NO_TESTING",
			Category: Quality,
			Severity: Warning,
			Match: allOf(
				minWords(gapRuleMinWords),
				not(anyOf(
					pattern(`\btest(?:s|ing|ed)?\b`),
					pattern(`\btdd\b`),
					pattern(`\bqa\b`),
					phrase("quality assurance"),
				)),
			),
			Message:    "The prompt never mentions testing.",
			Suggestion: "State the expected test coverage: at minimum unit tests for core logic and one end-to-end happy path.",
		},
		{
			Code:     "QUAL_NO_ERROR_HANDLING",
			Category: Quality,
			Severity: Warning,
			Match: allOf(
				minWords(gapRuleMinWords),
				not(anyOf(
					phrase("error handling"),
					phrase("exception"),
					phrase("try/catch"),
					phrase("try-catch"),
					phrase("fallback"),
					phrase("retry"),
					phrase("retries"),
					phrase("graceful"),
					pattern(`\berrors?\b`),
				)),
			),
			Message:    "The prompt never mentions error handling.",
			Suggestion: "Describe what should happen on invalid input, dependency failure, and timeout.",
		},
		{
			Code:     "QUAL_NO_LOGGING",
			Category: Quality,
			Severity: Warning,
			Match: allOf(
				minWords(gapRuleMinWords),
				not(anyOf(
					pattern(`\blog(?:s|ging|ged)?\b`),
					phrase("observability"),
					phrase("monitoring"),
					phrase("metrics"),
					phrase("telemetry"),
					phrase("audit"),
				)),
			),
			Message:    "The prompt never mentions logging or observability.",
			Suggestion: "Specify what gets logged and at which level, and how the service is monitored in production.",
		},
	}
}
