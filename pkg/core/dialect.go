package core

// Dialect selects which SQL dialect variant pkg/parser should accept.
// The reference extractor and Model Record are dialect-agnostic; only the
// parser's identifier quoting and case folding vary by dialect.
type Dialect struct {
	Name string
	// IdentQuote is the identifier quoting character ('"' for ANSI,
	// '`' for BigQuery).
	IdentQuote byte
	// FoldIdents folds unquoted identifiers to lower case, so references
	// match catalog names regardless of how the SQL spells them.
	FoldIdents bool
}

// Dialect name constants recognized by the CLI's --dialect flag.
const (
	DialectANSI      = "ansi"
	DialectPostgres  = "postgres"
	DialectDuckDB    = "duckdb"
	DialectSnowflake = "snowflake"
	DialectBigQuery  = "bigquery"
)

// NewDialect returns the Dialect for a named dialect, defaulting to ANSI
// for an unrecognized or empty name.
func NewDialect(name string) *Dialect {
	d := &Dialect{Name: name, IdentQuote: '"'}
	switch name {
	case "":
		d.Name = DialectANSI
	case DialectBigQuery:
		d.IdentQuote = '`'
	case DialectSnowflake:
		d.FoldIdents = true
	}
	return d
}
