package domain

// FieldKind determines how a field's values are compared during
// reconciliation.
type FieldKind string

const (
	// FieldText compares as trimmed string.
	FieldText FieldKind = "text"

	// FieldInteger compares as exact integer.
	FieldInteger FieldKind = "integer"

	// FieldEnum compares as exact string after trimming.
	FieldEnum FieldKind = "enum"

	// FieldDecimal compares with epsilon equality to absorb floating
	// round-trip noise in currency and percentage fields.
	FieldDecimal FieldKind = "decimal"
)

// DecimalEpsilon is the tolerance for decimal field comparison.
const DecimalEpsilon = 0.005

// FieldSpec describes one syncable field of an entity type.
type FieldSpec struct {
	// Name is the normalised field name as it appears in Record.Fields.
	Name string

	// Kind determines comparison semantics.
	Kind FieldKind
}

// projectFields is the fixed allow-list of syncable project fields.
// Detail fields merged from a PROJECT_DETAIL feed are deliberately
// absent so they can never trigger false drift.
var projectFields = []FieldSpec{
	{Name: "name", Kind: FieldText},
	{Name: "status", Kind: FieldEnum},
	{Name: "customer", Kind: FieldText},
	{Name: "manager", Kind: FieldText},
	{Name: "budget", Kind: FieldDecimal},
	{Name: "actual_hours", Kind: FieldDecimal},
	{Name: "percent_complete", Kind: FieldDecimal},
	{Name: "start_date", Kind: FieldText},
	{Name: "end_date", Kind: FieldText},
}

var opportunityFields = []FieldSpec{
	{Name: "name", Kind: FieldText},
	{Name: "stage", Kind: FieldEnum},
	{Name: "customer", Kind: FieldText},
	{Name: "owner", Kind: FieldText},
	{Name: "amount", Kind: FieldDecimal},
	{Name: "probability", Kind: FieldDecimal},
	{Name: "close_date", Kind: FieldText},
}

var serviceTicketFields = []FieldSpec{
	{Name: "summary", Kind: FieldText},
	{Name: "status", Kind: FieldEnum},
	{Name: "priority", Kind: FieldEnum},
	{Name: "customer", Kind: FieldText},
	{Name: "assignee", Kind: FieldText},
	{Name: "board", Kind: FieldText},
	{Name: "age_days", Kind: FieldInteger},
	{Name: "opened_date", Kind: FieldText},
}

// SyncableFields returns the fixed, ordered allow-list of fields that
// participate in drift comparison for an entity type.
func SyncableFields(t EntityType) []FieldSpec {
	switch t {
	case EntityTypeProject:
		return projectFields
	case EntityTypeOpportunity:
		return opportunityFields
	case EntityTypeServiceTicket:
		return serviceTicketFields
	default:
		return nil
	}
}

// ExternalIDFields returns the candidate field names carrying the
// upstream identifier for an entity type, in lookup order.
func ExternalIDFields(t EntityType) []string {
	switch t {
	case EntityTypeProject:
		return []string{"project_id", "external_id", "id"}
	case EntityTypeOpportunity:
		return []string{"opportunity_id", "external_id", "id"}
	case EntityTypeServiceTicket:
		return []string{"ticket_id", "sr_number", "external_id", "id"}
	default:
		return nil
	}
}
