// Package report translates an abstract report description into Google
// Analytics Core Reporting API query parameters and interprets the
// responses.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"ga-reports/internal/domain"
)

// maxAliasLen bounds the original alias so collision suffixes still produce
// reasonable names.
const maxAliasLen = 60

// Combinator values for filter groups.
const (
	CombinatorAnd = "AND"
	CombinatorOr  = "OR"
)

// DefaultWhereGroup is the group that empty, zero, and negative group
// identifiers normalize to.
const DefaultWhereGroup = 0

// Reserved pseudo-fields. Conditions on these never render into the filter
// expression; their values become integer top-level query parameters
// selecting the date range and the reporting profile.
const (
	FieldStartDate = "start_date"
	FieldEndDate   = "end_date"
	FieldProfileID = "profile_id"
)

// fieldInfo records one registered field and the parameters it was added with.
type fieldInfo struct {
	Field  string
	Table  string
	Alias  string
	Params map[string]string
}

// same reports whether two registrations describe the identical field.
// The alias is excluded: during collision probing both sides carry the
// candidate alias by construction.
func (f fieldInfo) same(other fieldInfo) bool {
	if f.Field != other.Field || f.Table != other.Table {
		return false
	}
	if len(f.Params) != len(other.Params) {
		return false
	}
	for k, v := range f.Params {
		if other.Params[k] != v {
			return false
		}
	}
	return true
}

// condition is one (field, operator, value) filter entry.
type condition struct {
	Field    string
	Value    string
	Operator string
}

// whereGroup is a set of conditions combined with a single AND/OR combinator.
type whereGroup struct {
	Combinator string
	Conditions []condition
}

// orderClause is one sort entry; Direction is "" (ascending) or "-".
type orderClause struct {
	Field     string
	Direction string
}

// Builder accumulates an abstract report query and renders it into a
// domain.ReportQuery. It is built once per report execution and is not safe
// for concurrent mutation.
type Builder struct {
	baseTable string
	baseField string

	// tables registered via AddField. There are no real joins in this
	// domain; the queue only mirrors the generic field abstraction.
	tables map[string]bool

	fields     map[string]fieldInfo // alias → field registration
	fieldOrder []string             // aliases in registration order

	// aliases maps table → field → final alias for later lookup.
	aliases map[string]map[string]string

	where      map[int]*whereGroup
	groupOrder []int

	// groupOperator joins the rendered groups together.
	groupOperator string

	orderBy []orderClause

	limit  int64
	offset int64

	profileOverride bool
	profileID       int64
}

// NewBuilder creates a Builder. baseTable/baseField identify the view's
// configured primary column: adding exactly that pair without an alias
// reuses the base field name as the alias.
func NewBuilder(baseTable, baseField string) *Builder {
	return &Builder{
		baseTable:     baseTable,
		baseField:     baseField,
		tables:        make(map[string]bool),
		fields:        make(map[string]fieldInfo),
		aliases:       make(map[string]map[string]string),
		where:         make(map[int]*whereGroup),
		groupOperator: CombinatorAnd,
	}
}

// AddField registers a metric or dimension and returns the alias it can be
// referred to as. Re-adding an identical field is a silent no-op returning
// the existing alias; a different field colliding on the same alias gets a
// _1, _2, ... suffix.
func (b *Builder) AddField(table, field, alias string, params map[string]string) string {
	// The view's primary column gets a special alias.
	if table == b.baseTable && field == b.baseField && alias == "" {
		alias = b.baseField
	}

	if table != "" && !b.tables[table] {
		b.ensureTable(table)
	}

	if alias == "" && table != "" {
		alias = table + "_" + field
	}
	if alias == "" {
		alias = field
	}

	// Limit the original alias so a unique suffixed alias can be derived
	// when it collides.
	if len(alias) > maxAliasLen {
		alias = alias[:maxAliasLen]
	}

	info := fieldInfo{Field: field, Table: table, Alias: alias, Params: params}

	// Differing parameters can change the meaning of the same field name,
	// so collisions are resolved by probing suffixed aliases.
	base := alias
	for counter := 1; ; counter++ {
		existing, taken := b.fields[alias]
		if !taken || existing.same(info) {
			break
		}
		alias = fmt.Sprintf("%s_%d", base, counter)
	}
	info.Alias = alias

	if _, ok := b.fields[alias]; !ok {
		b.fields[alias] = info
		b.fieldOrder = append(b.fieldOrder, alias)
	}

	if b.aliases[table] == nil {
		b.aliases[table] = make(map[string]string)
	}
	b.aliases[table][field] = alias

	return alias
}

// ensureTable registers a table. No real joins exist against the reporting
// API, so this is bookkeeping only.
func (b *Builder) ensureTable(table string) {
	b.tables[table] = true
}

// AliasFor returns the alias a field was registered under, preferring the
// tableless registration. Falls back to the field name itself.
func (b *Builder) AliasFor(field string) string {
	if alias, ok := b.aliases[""][field]; ok {
		return alias
	}
	// Stable lookup across tables.
	tables := make([]string, 0, len(b.aliases))
	for table := range b.aliases {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		if alias, ok := b.aliases[table][field]; ok {
			return alias
		}
	}
	return field
}

// SetWhereGroup creates (or reconfigures) a filter group with the given
// combinator and returns the normalized group id. Groups cannot be nested.
func (b *Builder) SetWhereGroup(combinator string, group int) int {
	if group < 0 {
		group = DefaultWhereGroup
	}
	combinator = strings.ToUpper(combinator)
	if combinator != CombinatorOr {
		combinator = CombinatorAnd
	}
	if g, ok := b.where[group]; ok {
		g.Combinator = combinator
		return group
	}
	b.where[group] = &whereGroup{Combinator: combinator}
	b.groupOrder = append(b.groupOrder, group)
	return group
}

// SetGroupOperator sets how the filter groups themselves combine.
func (b *Builder) SetGroupOperator(combinator string) {
	if strings.ToUpper(combinator) == CombinatorOr {
		b.groupOperator = CombinatorOr
		return
	}
	b.groupOperator = CombinatorAnd
}

// AddWhere appends a filter condition to a group. Zero and negative group
// ids all land in the default group; a group referenced for the first time
// is created with combinator AND.
func (b *Builder) AddWhere(group int, field, value, operator string) {
	if group <= 0 {
		group = DefaultWhereGroup
	}

	if _, ok := b.where[group]; !ok {
		b.SetWhereGroup(CombinatorAnd, group)
	}

	b.where[group].Conditions = append(b.where[group].Conditions, condition{
		Field:    field,
		Value:    value,
		Operator: operator,
	})
}

// AddOrderBy appends a sort clause. A direction of "DESC" in any case maps
// to the API's "-" prefix; anything else sorts ascending.
func (b *Builder) AddOrderBy(field, direction string) {
	prefix := ""
	if strings.EqualFold(direction, "DESC") {
		prefix = "-"
	}
	b.orderBy = append(b.orderBy, orderClause{Field: field, Direction: prefix})
}

// SetRange configures pagination for the data fetch.
func (b *Builder) SetRange(offset, limit int64) {
	b.offset = offset
	b.limit = limit
}

// SetProfile enables the per-report profile override.
func (b *Builder) SetProfile(profileID int64) {
	b.profileOverride = true
	b.profileID = profileID
}

// Build renders the accumulated query against the field catalog. Fields the
// catalog does not recognize are silently excluded: the catalog is a
// convenience index, not a validator. Build performs no I/O.
func (b *Builder) Build(available map[string]domain.FieldDefinition) *domain.ReportQuery {
	query := &domain.ReportQuery{}

	for _, alias := range b.fieldOrder {
		info := b.fields[alias]
		def, ok := available[info.Field]
		if !ok {
			continue
		}
		if def.Kind == domain.KindDimension {
			query.Dimensions = append(query.Dimensions, "ga:"+info.Field)
		} else {
			query.Metrics = append(query.Metrics, "ga:"+info.Field)
		}
	}

	var groups []string
	for _, id := range b.groupOrder {
		group := b.where[id]
		var rendered []string
		for _, cond := range group.Conditions {
			switch cond.Field {
			case FieldStartDate:
				query.StartDate = coerceInt(cond.Value)
			case FieldEndDate:
				query.EndDate = coerceInt(cond.Value)
			case FieldProfileID:
				query.ProfileID = coerceInt(cond.Value)
			default:
				if _, ok := available[cond.Field]; ok {
					rendered = append(rendered, "ga:"+cond.Field+cond.Operator+cond.Value)
				}
			}
		}
		if len(rendered) > 0 {
			groups = append(groups, strings.Join(rendered, glue(group.Combinator)))
		}
	}
	if len(groups) > 0 {
		query.Filters = strings.Join(groups, glue(b.groupOperator))
	}

	for _, clause := range b.orderBy {
		query.Sort = append(query.Sort, clause.Direction+"ga:"+clause.Field)
	}

	if b.profileOverride && b.profileID != 0 {
		query.ProfileID = b.profileID
	}

	return query
}

// glue returns the API's filter-expression join token: ";" means AND and
// "," means OR.
func glue(combinator string) string {
	if combinator == CombinatorAnd {
		return ";"
	}
	return ","
}

// coerceInt parses the leading integer of a value, so "123abc" yields 123
// and junk yields 0.
func coerceInt(value string) int64 {
	value = strings.TrimSpace(value)
	end := 0
	if end < len(value) && (value[end] == '-' || value[end] == '+') {
		end++
	}
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}
	n, err := strconv.ParseInt(value[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
